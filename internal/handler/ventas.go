package handler

import (
	"net/http"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/apierror"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VentasHandler serves the sale, payment and reconciliation endpoints.
type VentasHandler struct {
	ventas service.VentaService
	pagos  service.PagoService
}

func NewVentasHandler(ventas service.VentaService, pagos service.PagoService) *VentasHandler {
	return &VentasHandler{ventas: ventas, pagos: pagos}
}

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta ACID: expande combos, descuenta insumos según receta y registra los pagos iniciales.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.RegistrarVentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /sales [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	venta, err := h.ventas.RegistrarVenta(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegistrarVentaResponse{OK: true, VentaID: venta.ID.String()})
}

// ObtenerVenta godoc
// @Summary      Detalle de una venta
// @Description  Retorna la venta con sus líneas, pagos y saldos derivados (pagado por línea, saldo total).
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {object} dto.VentaDetalleResponse
// @Failure      404  {object} apierror.APIError
// @Router       /sales/{id} [get]
//
// gin's router rejects a static /sales/pending sibling of /sales/:id, so the
// pending listing is dispatched from here when the param is the literal
// "pending".
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	if c.Param("id") == "pending" {
		h.ListPendientes(c)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	detalle, err := h.pagos.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detalle)
}

// RegistrarPago godoc
// @Summary      Registrar pago parcial
// @Description  Agrega un pago (global o dirigido a una línea) y recalcula el monto recibido de la venta en la misma transacción.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID de la venta"
// @Param        body body dto.RegistrarPagoRequest true "Pago"
// @Success      200  {object} map[string]bool
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /sales/{id}/payments [post]
func (h *VentasHandler) RegistrarPago(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.pagos.RegistrarPago(c.Request.Context(), id, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListPendientes godoc
// @Summary      Ventas con saldo pendiente
// @Description  Lista ventas cuyo saldo supera el umbral de redondeo, ordenadas de la más reciente a la más antigua.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        sucursalId query string false "UUID de sucursal"
// @Param        negocioId  query string false "UUID de negocio"
// @Param        desde      query string false "Fecha inicial YYYY-MM-DD"
// @Param        hasta      query string false "Fecha final YYYY-MM-DD"
// @Success      200 {array} dto.VentaPendienteResponse
// @Router       /sales/pending [get]
func (h *VentasHandler) ListPendientes(c *gin.Context) {
	var filter dto.PendientesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	pendientes, err := h.pagos.ListPendientes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas pendientes"))
		return
	}
	c.JSON(http.StatusOK, pendientes)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista de ventas filtrada por sucursal, negocio y rango de fechas.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        sucursalId query string false "UUID de sucursal"
// @Param        negocioId  query string false "UUID de negocio"
// @Param        desde      query string false "Fecha inicial YYYY-MM-DD"
// @Param        hasta      query string false "Fecha final YYYY-MM-DD"
// @Success      200 {object} dto.VentaListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /sales [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.ventas.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarVenta godoc
// @Summary      Eliminar venta
// @Description  Elimina la venta junto con sus líneas y pagos.
// @Tags         ventas
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /sales/{id} [delete]
func (h *VentasHandler) EliminarVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.ventas.EliminarVenta(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SyncBatch godoc
// @Summary      Sincronizar ventas offline
// @Description  Procesa un lote de ventas creadas offline. Idempotente por offlineId: una venta ya sincronizada se reporta como éxito sin duplicarse.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SyncBatchRequest true "Lote de ventas"
// @Success      200  {array} dto.SyncResultado
// @Failure      400  {object} apierror.APIError
// @Router       /sales/sync-batch [post]
//
// Mounted on POST /sales/:id because gin rejects a static sync-batch sibling
// of the :id wildcard used by the payments route; the literal is checked here.
func (h *VentasHandler) SyncBatch(c *gin.Context) {
	if c.Param("id") != "sync-batch" {
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
		return
	}
	var req dto.SyncBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resultados := h.ventas.SyncBatch(c.Request.Context(), req)
	c.JSON(http.StatusOK, resultados)
}
