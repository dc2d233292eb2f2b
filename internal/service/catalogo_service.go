package service

import (
	"context"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/dto"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/model"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/repository"

	"github.com/google/uuid"
)

// CatalogoService covers the minimal catalog maintenance the sales core needs
// fed: products, ingredients, recipes, combos and customers.
type CatalogoService interface {
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error)
	ListProductos(ctx context.Context) ([]model.Producto, error)
	CrearInsumo(ctx context.Context, req dto.CrearInsumoRequest) (*model.Insumo, error)
	ListInsumos(ctx context.Context) ([]model.Insumo, error)
	CrearReceta(ctx context.Context, req dto.CrearRecetaRequest) (*model.Receta, error)
	CrearCombo(ctx context.Context, req dto.CrearComboRequest) (*model.Combo, error)
	ListCombos(ctx context.Context) ([]model.Combo, error)
	CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*model.Cliente, error)
	ListClientes(ctx context.Context) ([]model.Cliente, error)
	CrearNegocio(ctx context.Context, req dto.CrearNegocioRequest) (*model.Negocio, error)
	CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*model.Sucursal, error)
	ListSucursales(ctx context.Context, negocioID uuid.UUID) ([]model.Sucursal, error)
}

type catalogoService struct {
	productos repository.ProductoRepository
	insumos   repository.InsumoRepository
	recetas   repository.RecetaRepository
	combos    repository.ComboRepository
	clientes  repository.ClienteRepository
	negocios  repository.NegocioRepository
}

func NewCatalogoService(
	productos repository.ProductoRepository,
	insumos repository.InsumoRepository,
	recetas repository.RecetaRepository,
	combos repository.ComboRepository,
	clientes repository.ClienteRepository,
	negocios repository.NegocioRepository,
) CatalogoService {
	return &catalogoService{
		productos: productos,
		insumos:   insumos,
		recetas:   recetas,
		combos:    combos,
		clientes:  clientes,
		negocios:  negocios,
	}
}

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error) {
	p := &model.Producto{
		Nombre: req.Nombre,
		Tamano: req.Tamano,
		Precio: req.Precio,
		Activo: true,
	}
	if err := s.productos.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogoService) ListProductos(ctx context.Context) ([]model.Producto, error) {
	return s.productos.List(ctx)
}

func (s *catalogoService) CrearInsumo(ctx context.Context, req dto.CrearInsumoRequest) (*model.Insumo, error) {
	unidad := req.Unidad
	if unidad == "" {
		unidad = "unidad"
	}
	i := &model.Insumo{
		Nombre:      req.Nombre,
		Stock:       req.Stock,
		Unidad:      unidad,
		Proveedor:   req.Proveedor,
		StockMinimo: req.StockMinimo,
	}
	if err := s.insumos.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *catalogoService) ListInsumos(ctx context.Context) ([]model.Insumo, error) {
	return s.insumos.List(ctx)
}

func (s *catalogoService) CrearReceta(ctx context.Context, req dto.CrearRecetaRequest) (*model.Receta, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, ErrProductoNoEncontrado
	}
	insumoID, err := uuid.Parse(req.InsumoID)
	if err != nil {
		return nil, err
	}
	if _, err := s.insumos.FindByID(ctx, insumoID); err != nil {
		return nil, err
	}
	r := &model.Receta{
		ProductoID: productoID,
		InsumoID:   insumoID,
		Cantidad:   req.Cantidad,
	}
	if err := s.recetas.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *catalogoService) CrearCombo(ctx context.Context, req dto.CrearComboRequest) (*model.Combo, error) {
	c := &model.Combo{
		Nombre: req.Nombre,
		Precio: req.Precio,
		Activo: true,
	}
	for _, item := range req.Productos {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, ErrProductoNoEncontrado
		}
		if _, err := s.productos.FindByID(ctx, pid); err != nil {
			return nil, ErrProductoNoEncontrado
		}
		c.Productos = append(c.Productos, model.ComboProducto{
			ProductoID: pid,
			Cantidad:   item.Cantidad,
		})
	}
	if err := s.combos.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogoService) ListCombos(ctx context.Context) ([]model.Combo, error) {
	return s.combos.List(ctx)
}

func (s *catalogoService) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*model.Cliente, error) {
	c := &model.Cliente{
		Nombre:   req.Nombre,
		Telefono: req.Telefono,
		Email:    req.Email,
	}
	if err := s.clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogoService) ListClientes(ctx context.Context) ([]model.Cliente, error) {
	return s.clientes.List(ctx)
}

func (s *catalogoService) CrearNegocio(ctx context.Context, req dto.CrearNegocioRequest) (*model.Negocio, error) {
	n := &model.Negocio{Nombre: req.Nombre, Activo: true}
	if err := s.negocios.CreateNegocio(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *catalogoService) CrearSucursal(ctx context.Context, req dto.CrearSucursalRequest) (*model.Sucursal, error) {
	negocioID, err := uuid.Parse(req.NegocioID)
	if err != nil {
		return nil, err
	}
	suc := &model.Sucursal{
		NegocioID: negocioID,
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.negocios.CreateSucursal(ctx, suc); err != nil {
		return nil, err
	}
	return suc, nil
}

func (s *catalogoService) ListSucursales(ctx context.Context, negocioID uuid.UUID) ([]model.Sucursal, error) {
	return s.negocios.ListSucursales(ctx, negocioID)
}
