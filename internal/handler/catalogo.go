package handler

import (
	"net/http"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/apierror"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogoHandler struct {
	svc        service.CatalogoService
	inventario service.InventarioService
}

func NewCatalogoHandler(svc service.CatalogoService, inventario service.InventarioService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc, inventario: inventario}
}

func (h *CatalogoHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	producto, err := h.svc.CrearProducto(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, producto)
}

func (h *CatalogoHandler) ListarProductos(c *gin.Context) {
	productos, err := h.svc.ListProductos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, productos)
}

func (h *CatalogoHandler) CrearInsumo(c *gin.Context) {
	var req dto.CrearInsumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	insumo, err := h.svc.CrearInsumo(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, insumo)
}

func (h *CatalogoHandler) ListarInsumos(c *gin.Context) {
	insumos, err := h.svc.ListInsumos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar insumos"))
		return
	}
	c.JSON(http.StatusOK, insumos)
}

// ObtenerAlertas lista los insumos cuyo stock quedó en o por debajo del mínimo.
func (h *CatalogoHandler) ObtenerAlertas(c *gin.Context) {
	alertas, err := h.inventario.ObtenerAlertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener alertas"))
		return
	}
	c.JSON(http.StatusOK, alertas)
}

func (h *CatalogoHandler) CrearReceta(c *gin.Context) {
	var req dto.CrearRecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	receta, err := h.svc.CrearReceta(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, receta)
}

func (h *CatalogoHandler) CrearCombo(c *gin.Context) {
	var req dto.CrearComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	combo, err := h.svc.CrearCombo(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, combo)
}

func (h *CatalogoHandler) ListarCombos(c *gin.Context) {
	combos, err := h.svc.ListCombos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar combos"))
		return
	}
	c.JSON(http.StatusOK, combos)
}

func (h *CatalogoHandler) CrearCliente(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.svc.CrearCliente(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, cliente)
}

func (h *CatalogoHandler) CrearNegocio(c *gin.Context) {
	var req dto.CrearNegocioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	negocio, err := h.svc.CrearNegocio(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, negocio)
}

func (h *CatalogoHandler) CrearSucursal(c *gin.Context) {
	var req dto.CrearSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sucursal, err := h.svc.CrearSucursal(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, sucursal)
}

// ListarSucursales lista las sucursales de un negocio (?negocioId=).
func (h *CatalogoHandler) ListarSucursales(c *gin.Context) {
	negocioID, err := uuid.Parse(c.Query("negocioId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("negocioId invalido"))
		return
	}
	sucursales, err := h.svc.ListSucursales(c.Request.Context(), negocioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sucursales"))
		return
	}
	c.JSON(http.StatusOK, sucursales)
}

func (h *CatalogoHandler) ListarClientes(c *gin.Context) {
	clientes, err := h.svc.ListClientes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar clientes"))
		return
	}
	c.JSON(http.StatusOK, clientes)
}
