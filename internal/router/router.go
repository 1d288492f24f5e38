package router

import (
	"time"

	"github.com/shewas4eve/inventario/internal/config"
	"github.com/shewas4eve/inventario/internal/handler"
	"github.com/shewas4eve/inventario/internal/middleware"
	"github.com/shewas4eve/inventario/internal/repository"
	"github.com/shewas4eve/inventario/internal/service"
	"github.com/shewas4eve/inventario/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)
	materialLedgerRepo := repository.NewMaterialLedgerRepository(db)
	resumenRepo := repository.NewResumenRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, transaccionRepo)
	materialSvc := service.NewMaterialService(materialRepo, materialLedgerRepo)
	transaccionSvc := service.NewTransaccionService(productoRepo, transaccionRepo, rdb, dispatcher)
	metricasSvc := service.NewMetricasService(materialRepo, materialLedgerRepo)
	resumenSvc := service.NewResumenService(transaccionRepo, resumenRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	materialesH := handler.NewMaterialesHandler(materialSvc)
	transaccionesH := handler.NewTransaccionesHandler(transaccionSvc)
	metricasH := handler.NewMetricasHandler(metricasSvc, resumenSvc, cfg.ReportStoragePath)
	consultaH := handler.NewConsultaStockHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.GET("/categorias", categoriasH.Listar)
		v1.POST("/categorias", categoriasH.Crear)

		v1.GET("/productos", productosH.Listar)
		v1.POST("/productos", productosH.Crear)
		v1.GET("/productos/:id", productosH.Obtener)
		v1.DELETE("/productos/:id", productosH.Desactivar)

		v1.POST("/transacciones", transaccionesH.Registrar)
		v1.GET("/transacciones", transaccionesH.Listar)

		// Cached read path — invalidated on every product transaction
		v1.GET("/stock/:id", consultaH.GetStock)

		mat := v1.Group("/materiales")
		{
			mat.GET("", materialesH.Listar)
			mat.POST("", materialesH.Crear)
			// Static segments before the :id wildcard
			mat.POST("/compras", materialesH.RegistrarCompra)
			mat.POST("/ventas", materialesH.RegistrarVenta)
			mat.GET("/:id", materialesH.Obtener)
			mat.GET("/:id/stock", materialesH.Stock)
		}

		v1.GET("/metricas/materiales", metricasH.Materiales)
		v1.GET("/metricas/materiales/reporte", metricasH.Reporte)
		v1.GET("/resumen", metricasH.Resumen)
		v1.POST("/resumen/enviar", metricasH.EnviarResumen)
	}

	return r
}
