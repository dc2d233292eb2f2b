package worker

// alerta_worker.go
// Processes low-stock check jobs enqueued after each committed sale. Sales are
// never blocked by stock levels, so this is the compensating control: it
// re-reads the insumos a sale consumed and mails an alert for any at or below
// its minimum threshold.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/infra"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AlertaStockWorker checks consumed insumos against their thresholds and
// notifies by email through the SMTP circuit breaker.
type AlertaStockWorker struct {
	insumos      repository.InsumoRepository
	mailer       *infra.Mailer
	cb           *infra.SMTPBreaker
	destinatario string
}

func NewAlertaStockWorker(insumos repository.InsumoRepository, mailer *infra.Mailer, cb *infra.SMTPBreaker, destinatario string) *AlertaStockWorker {
	return &AlertaStockWorker{insumos: insumos, mailer: mailer, cb: cb, destinatario: destinatario}
}

func (w *AlertaStockWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return nil // poisoned payload — retrying cannot help
	}

	ids := make([]uuid.UUID, 0, len(payload.InsumoIDs))
	for _, s := range payload.InsumoIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	insumos, err := w.insumos.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("alerta_worker: query insumos: %w", err)
	}

	var lineas []string
	for _, i := range insumos {
		if i.BajoStock() {
			lineas = append(lineas, fmt.Sprintf("- %s: %s %s (mínimo %s)",
				i.Nombre, i.Stock.String(), i.Unidad, i.StockMinimo.String()))
		}
	}
	if len(lineas) == 0 {
		return nil
	}

	log.Warn().Int("insumos", len(lineas)).Msg("alerta_worker: insumos bajo stock mínimo")

	if w.mailer == nil || w.destinatario == "" {
		// No mail channel configured — the log entry above is the alert.
		return nil
	}

	body := "Los siguientes insumos quedaron en o por debajo de su stock mínimo:\n\n" +
		strings.Join(lineas, "\n")
	err = w.cb.Send(func() error {
		return w.mailer.SendAlerta(w.destinatario, "Alerta de stock de insumos", body)
	})
	if err != nil {
		return fmt.Errorf("alerta_worker: send mail: %w", err)
	}
	log.Info().Str("to", w.destinatario).Msg("alerta_worker: alerta enviada")
	return nil
}
