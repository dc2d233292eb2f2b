package service

import "errors"

// Sentinel errors returned by the sales services. Handlers map these to
// client-error statuses; anything else is surfaced as a generic failure.
var (
	ErrUsuarioNoEncontrado  = errors.New("Usuario no encontrado")
	ErrProductoNoEncontrado = errors.New("Producto no encontrado")
	ErrVentaNoEncontrada    = errors.New("Venta no encontrada")
	ErrLineaNoEncontrada    = errors.New("El producto indicado no pertenece a la venta")
	ErrVentaSinLineas       = errors.New("La venta no tiene productos")
	ErrMontoInvalido        = errors.New("El monto del pago debe ser mayor a cero")
)
