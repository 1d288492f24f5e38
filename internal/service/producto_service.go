package service

import (
	"context"
	"errors"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService manages the unit-counted product registry.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	categorias repository.CategoriaRepository
	ledger     repository.TransaccionRepository
}

func NewProductoService(
	repo repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	ledger repository.TransaccionRepository,
) ProductoService {
	return &productoService{repo: repo, categorias: categorias, ledger: ledger}
}

func mapProducto(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Codigo:       p.Codigo,
		Categoria:    p.Categoria,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.StockActual,
		Activo:       p.Activo,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

// Crear registers a product. The category must already exist; the product
// stores its name denormalized, the way the rest of the catalog reads it.
func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	cat, err := s.categorias.ObtenerPorNombre(ctx, req.Categoria)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Categoría %q no encontrada.", req.Categoria)
		}
		return nil, storeUnavailable("No se pudo leer el registro de categorías.", err)
	}

	p := &model.Producto{
		ID:           uuid.New(),
		Nombre:       req.Nombre,
		Codigo:       req.Codigo,
		Categoria:    cat.Nombre,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
		StockActual:  req.StockInicial,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storeUnavailable("No se pudo registrar el producto.", err)
	}

	// The recorder reconciles stock from the ledger fold, so the opening
	// balance has to live in the ledger too: without this entry the product
	// would reconcile to 0 and the first sale would be rejected.
	if req.StockInicial > 0 {
		compra := &model.Compra{
			ID:         uuid.New(),
			ProductoID: p.ID,
			Cantidad:   req.StockInicial,
			Precio:     req.PrecioCompra,
			Total:      req.PrecioCompra.Mul(decimal.NewFromInt(int64(req.StockInicial))).Round(2),
			Proveedor:  "Stock inicial",
			CreatedAt:  time.Now(),
		}
		if err := s.ledger.CreateCompra(ctx, compra); err != nil {
			// A product without its opening entry would sell as stock 0;
			// back out the registration instead of leaving it half done.
			_ = s.repo.SoftDelete(ctx, p.ID)
			return nil, storeUnavailable("No se pudo registrar el stock inicial del producto.", err)
		}
	}

	return mapProducto(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Producto ID %s no encontrado.", id)
		}
		return nil, storeUnavailable("No se pudo leer el registro de productos.", err)
	}
	return mapProducto(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el registro de productos.", err)
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *mapProducto(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Desactivar soft-deletes a product. Its ledger entries survive, so historic
// metrics and reconciliation stay intact.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Producto ID %s no encontrado.", id)
		}
		return storeUnavailable("No se pudo leer el registro de productos.", err)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return storeUnavailable("No se pudo desactivar el producto.", err)
	}
	return nil
}
