package router

import (
	"time"

	"github.com/Thesergioandres/sistema-pos-sub000/internal/config"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/handler"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/middleware"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/repository"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/service"
	"github.com/Thesergioandres/sistema-pos-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	insumoRepo := repository.NewInsumoRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	comboRepo := repository.NewComboRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	negocioRepo := repository.NewNegocioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	inventarioSvc := service.NewInventarioService(insumoRepo, recetaRepo)
	catalogoSvc := service.NewCatalogoService(productoRepo, insumoRepo, recetaRepo, comboRepo, clienteRepo, negocioRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, comboRepo, usuarioRepo, inventarioSvc, dispatcher)
	pagoSvc := service.NewPagoService(ventaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc, pagoSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc, inventarioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/", jwtMW)
	{
		// Roles: vendedor, supervisor, administrador — declared per-endpoint
		venta := middleware.RequireRole("vendedor", "supervisor", "administrador")

		api.POST("/sales", venta, ventasH.RegistrarVenta)
		api.GET("/sales", venta, ventasH.ListarVentas)
		// GET /sales/pending is served by the same wildcard as GET /sales/:id;
		// POST /sales/sync-batch rides POST /sales/:id the same way.
		api.GET("/sales/:id", venta, ventasH.ObtenerVenta)
		api.POST("/sales/:id", venta, ventasH.SyncBatch)
		api.POST("/sales/:id/payments", venta, ventasH.RegistrarPago)
		api.DELETE("/sales/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.EliminarVenta)

		// Catálogo — lectura para todos los roles autenticados
		api.GET("/productos", venta, catalogoH.ListarProductos)
		api.GET("/combos", venta, catalogoH.ListarCombos)
		api.GET("/clientes", venta, catalogoH.ListarClientes)
		api.GET("/insumos", middleware.RequireRole("supervisor", "administrador"), catalogoH.ListarInsumos)
		api.GET("/insumos/alertas", middleware.RequireRole("supervisor", "administrador"), catalogoH.ObtenerAlertas)
		api.GET("/sucursales", venta, catalogoH.ListarSucursales)

		// Escrituras de catálogo — administrador, con ventana fija anti-ráfaga
		catalogLimiter := middleware.CatalogRateLimiter(cfg.CatalogRateLimit, time.Duration(cfg.CatalogRateWindow)*time.Second)
		admin := api.Group("/", middleware.RequireRole("administrador"), catalogLimiter)
		{
			admin.POST("/productos", catalogoH.CrearProducto)
			admin.POST("/insumos", catalogoH.CrearInsumo)
			admin.POST("/recetas", catalogoH.CrearReceta)
			admin.POST("/combos", catalogoH.CrearCombo)
			admin.POST("/clientes", catalogoH.CrearCliente)
			admin.POST("/negocios", catalogoH.CrearNegocio)
			admin.POST("/sucursales", catalogoH.CrearSucursal)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
