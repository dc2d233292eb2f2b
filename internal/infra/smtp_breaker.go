package infra

import (
	"errors"
	"net/textproto"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// smtp_breaker.go
// Suspends alert-mail delivery while the SMTP relay is unreachable, instead of
// letting the worker pool hammer it on every low-stock job. Only transport
// failures count toward suspension: a permanent SMTP rejection (5xx reply)
// means the message is bad, not the relay, and retrying the relay is fine.
//
// Delivery moves between three states:
//   - activo:     mail flows normally
//   - suspendido: sends fail immediately until the cooldown elapses
//   - sondeo:     one send is let through; success resumes delivery,
//                 failure suspends again

type smtpEstado int

const (
	smtpActivo smtpEstado = iota
	smtpSuspendido
	smtpSondeo
)

func (e smtpEstado) String() string {
	switch e {
	case smtpActivo:
		return "activo"
	case smtpSuspendido:
		return "suspendido"
	case smtpSondeo:
		return "sondeo"
	default:
		return "desconocido"
	}
}

// ErrSMTPSuspendido is returned by Send while delivery is suspended.
var ErrSMTPSuspendido = errors.New("envío SMTP suspendido: relay no disponible")

// SMTPBreakerConfig holds the suspension tuning knobs.
type SMTPBreakerConfig struct {
	// FallosParaSuspender is how many consecutive transport failures
	// suspend delivery.
	FallosParaSuspender int
	// Cooldown is how long delivery stays suspended before one probe
	// send is allowed through.
	Cooldown time.Duration
}

func DefaultSMTPBreakerConfig() SMTPBreakerConfig {
	return SMTPBreakerConfig{
		FallosParaSuspender: 3,
		Cooldown:            2 * time.Minute,
	}
}

// SMTPBreaker gates alert-mail sends on relay availability.
type SMTPBreaker struct {
	mu         sync.Mutex
	estado     smtpEstado
	fallos     int
	suspendido time.Time
	maxFallos  int
	cooldown   time.Duration
}

func NewSMTPBreaker(cfg SMTPBreakerConfig) *SMTPBreaker {
	if cfg.FallosParaSuspender <= 0 {
		cfg.FallosParaSuspender = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 2 * time.Minute
	}
	return &SMTPBreaker{
		estado:    smtpActivo,
		maxFallos: cfg.FallosParaSuspender,
		cooldown:  cfg.Cooldown,
	}
}

// Estado reports the current delivery state, promoting suspendido to sondeo
// once the cooldown has elapsed.
func (b *SMTPBreaker) Estado() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actualizarEstado()
	return b.estado.String()
}

// Send runs enviar through the breaker. While suspended it fails immediately
// with ErrSMTPSuspendido; the caller's retry path (DLQ requeue) re-attempts
// after the cooldown.
func (b *SMTPBreaker) Send(enviar func() error) error {
	b.mu.Lock()
	b.actualizarEstado()
	if b.estado == smtpSuspendido {
		b.mu.Unlock()
		return ErrSMTPSuspendido
	}
	sondeo := b.estado == smtpSondeo
	b.mu.Unlock()

	err := enviar()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if sondeo {
			log.Info().Msg("smtp_breaker: relay recuperado, envío reactivado")
		}
		b.estado = smtpActivo
		b.fallos = 0
		return nil
	}

	if rechazoPermanente(err) {
		// The relay answered; the message itself was refused. Not a relay
		// availability problem, so it does not count toward suspension.
		return err
	}

	b.fallos++
	if sondeo || b.fallos >= b.maxFallos {
		b.estado = smtpSuspendido
		b.suspendido = time.Now()
		b.fallos = 0
		log.Warn().
			Err(err).
			Dur("cooldown", b.cooldown).
			Msg("smtp_breaker: relay inaccesible, envío suspendido")
	}
	return err
}

// actualizarEstado promotes suspendido → sondeo after the cooldown.
// Must be called under lock.
func (b *SMTPBreaker) actualizarEstado() {
	if b.estado == smtpSuspendido && time.Since(b.suspendido) >= b.cooldown {
		b.estado = smtpSondeo
	}
}

// rechazoPermanente reports whether err is a definitive SMTP rejection
// (5xx reply code) rather than a transport failure. net/smtp surfaces
// protocol replies as *textproto.Error.
func rechazoPermanente(err error) bool {
	var protoErr *textproto.Error
	return errors.As(err, &protoErr) && protoErr.Code >= 500 && protoErr.Code < 600
}
