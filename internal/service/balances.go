package service

import (
	"time"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// saldoEpsilon absorbs decimal rounding residue when deciding whether a sale
// still owes money: a sale only counts as pending when its outstanding
// balance exceeds this threshold.
var saldoEpsilon = decimal.NewFromFloat(0.001)

const fechaFormato = time.RFC3339

// clampCero floors a balance at zero so overpayment never reports negative.
func clampCero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ventaToDetalle derives all balances of a sale from its payments.
//
// Payments live in two buckets: line-scoped payments (VentaProductoID set)
// count toward that line's pagado, while global payments count only toward
// the sale-level total. Both roll up into totalPagos. This derivation is pure:
// calling it twice over the same rows yields identical results.
func ventaToDetalle(v *model.Venta) *dto.VentaDetalleResponse {
	porLinea := make(map[uuid.UUID]decimal.Decimal)
	totalPagos := decimal.Zero
	for _, p := range v.Pagos {
		totalPagos = totalPagos.Add(p.Monto)
		if p.VentaProductoID != nil {
			porLinea[*p.VentaProductoID] = porLinea[*p.VentaProductoID].Add(p.Monto)
		}
	}

	lineas := make([]dto.LineaVentaResponse, 0, len(v.Productos))
	for _, vp := range v.Productos {
		nombre := ""
		if vp.Producto != nil {
			nombre = vp.Producto.Nombre
		}
		pagado := porLinea[vp.ID]
		lineas = append(lineas, dto.LineaVentaResponse{
			ID:         vp.ID.String(),
			ProductoID: vp.ProductoID.String(),
			Producto:   nombre,
			Cantidad:   vp.Cantidad,
			Subtotal:   vp.Subtotal,
			Pagado:     pagado,
			Saldo:      clampCero(vp.Subtotal.Sub(pagado)),
		})
	}

	pagos := make([]dto.PagoResponse, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		var lineaID *string
		if p.VentaProductoID != nil {
			s := p.VentaProductoID.String()
			lineaID = &s
		}
		pagos = append(pagos, dto.PagoResponse{
			ID:              p.ID.String(),
			Tipo:            p.Tipo,
			Monto:           p.Monto,
			VentaProductoID: lineaID,
			Fecha:           p.CreatedAt.Format(fechaFormato),
		})
	}

	var sucursalID *string
	if v.SucursalID != nil {
		s := v.SucursalID.String()
		sucursalID = &s
	}
	var cliente *dto.ClienteResumen
	if v.Cliente != nil {
		cliente = &dto.ClienteResumen{
			ID:       v.Cliente.ID.String(),
			Nombre:   v.Cliente.Nombre,
			Telefono: v.Cliente.Telefono,
		}
	}

	return &dto.VentaDetalleResponse{
		ID:            v.ID.String(),
		Fecha:         v.Fecha.Format(fechaFormato),
		UsuarioID:     v.UsuarioID.String(),
		SucursalID:    sucursalID,
		Cliente:       cliente,
		Total:         v.Total,
		MedioPago:     v.MedioPago,
		MontoRecibido: v.MontoRecibido,
		Cambio:        v.Cambio,
		Productos:     lineas,
		Pagos:         pagos,
		TotalPagos:    totalPagos,
		SaldoTotal:    clampCero(v.Total.Sub(totalPagos)),
	}
}
