package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre string          `json:"nombre" validate:"required"`
	Tamano string          `json:"tamano"`
	Precio decimal.Decimal `json:"precio" validate:"required"`
}

type CrearInsumoRequest struct {
	Nombre      string          `json:"nombre" validate:"required"`
	Stock       decimal.Decimal `json:"stock"`
	Unidad      string          `json:"unidad"`
	Proveedor   *string         `json:"proveedor"`
	StockMinimo decimal.Decimal `json:"stockMinimo"`
}

type ComboProductoRequest struct {
	ProductoID string `json:"productoId" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"   validate:"required,min=1"`
}

type CrearComboRequest struct {
	Nombre    string                 `json:"nombre" validate:"required"`
	Precio    decimal.Decimal        `json:"precio" validate:"required"`
	Productos []ComboProductoRequest `json:"productos" validate:"required,min=1,dive"`
}

type CrearRecetaRequest struct {
	ProductoID string          `json:"productoId" validate:"required,uuid"`
	InsumoID   string          `json:"insumoId"   validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"   validate:"required"`
}

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre" validate:"required"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

type CrearNegocioRequest struct {
	Nombre string `json:"nombre" validate:"required"`
}

type CrearSucursalRequest struct {
	NegocioID string  `json:"negocioId" validate:"required,uuid"`
	Nombre    string  `json:"nombre"    validate:"required"`
	Direccion *string `json:"direccion"`
}

// AlertaInsumoResponse is one row of the low-stock report.
type AlertaInsumoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Stock       decimal.Decimal `json:"stock"`
	Unidad      string          `json:"unidad"`
	StockMinimo decimal.Decimal `json:"stockMinimo"`
}
