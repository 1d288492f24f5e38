package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shewas4eve/inventario/internal/apierror"
	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/repository"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stockCacheTTL = 4 * time.Hour

// ConsultaStockHandler serves the read-only stock check endpoint.
// Cached in Redis; every mutating transaction invalidates the key, so a TTL
// expiry is only a fallback, not the consistency mechanism.
type ConsultaStockHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaStockHandler(repo repository.ProductoRepository, rdb *redis.Client) *ConsultaStockHandler {
	return &ConsultaStockHandler{repo: repo, rdb: rdb}
}

// GetStock GET /v1/stock/:id
func (h *ConsultaStockHandler) GetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := service.StockCacheKey(id.String())

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaStockResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	producto, err := h.repo.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	resp := dto.ConsultaStockResponse{
		ProductoID:  producto.ID.String(),
		Nombre:      producto.Nombre,
		Categoria:   producto.Categoria,
		PrecioVenta: producto.PrecioVenta,
		Stock:       producto.StockActual,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, stockCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
