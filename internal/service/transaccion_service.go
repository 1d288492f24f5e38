package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/repository"
	"github.com/shewas4eve/inventario/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TipoCompra = "compra"
	TipoVenta  = "venta"
)

// StockCacheKey is the Redis key caching a product's stock/price lookup.
// Keyed by product id — never by search query — and deleted on every
// mutating transaction so readers never observe stale stock.
func StockCacheKey(productoID string) string { return "stock:" + productoID }

// TransaccionService records product purchases and sales against the ledger
// and keeps the product's denormalized stock (and reference prices) in sync.
type TransaccionService interface {
	Registrar(ctx context.Context, req dto.RegistrarTransaccionRequest) (*dto.TransaccionResponse, error)
	Listar(ctx context.Context, filter dto.TransaccionFilter) (*dto.TransaccionListResponse, error)
}

type transaccionService struct {
	productoRepo repository.ProductoRepository
	ledger       repository.TransaccionRepository
	rdb          *redis.Client
	dispatcher   *worker.Dispatcher

	// Per-product serialization: the append + write-back pair below is two
	// separate store writes, and the compensating delete is only safe when no
	// other writer touches the same product in between.
	locks sync.Map // uuid.UUID → *sync.Mutex
}

func NewTransaccionService(
	productoRepo repository.ProductoRepository,
	ledger repository.TransaccionRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
) TransaccionService {
	return &transaccionService{
		productoRepo: productoRepo,
		ledger:       ledger,
		rdb:          rdb,
		dispatcher:   dispatcher,
	}
}

func (s *transaccionService) lockProducto(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Registrar validates the request against reconciled stock, appends one ledger
// entry and writes back the new denormalized stock.
//
// Failure contract:
//   - unknown product                         → item_not_found, no writes
//   - sale exceeding reconciled stock         → insufficient_stock, no writes
//   - ledger append failed                    → store_unavailable, no writes
//   - stock write-back failed, entry deleted  → store_unavailable
//   - stock write-back AND delete failed      → write_inconsistency
//
// Each call creates a new entry with a fresh id: the operation is deliberately
// not idempotent, double-submit protection belongs to the caller.
func (s *transaccionService) Registrar(ctx context.Context, req dto.RegistrarTransaccionRequest) (*dto.TransaccionResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, notFound("Producto ID %s no encontrado en inventario.", req.ProductoID)
	}

	unlock := s.lockProducto(productoID)
	defer unlock()

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Producto ID %s no encontrado en inventario.", req.ProductoID)
		}
		return nil, storeUnavailable("No se pudo leer el inventario.", err)
	}

	// Reconcile current stock from the ledgers instead of trusting the
	// denormalized column: the write-back below then heals any drift left by
	// an earlier partial failure.
	compras, err := s.ledger.ComprasPorProducto(ctx, productoID)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el libro de compras.", err)
	}
	ventas, err := s.ledger.VentasPorProducto(ctx, productoID)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el libro de ventas.", err)
	}
	stockActual := StockProducto(productoID, compras, ventas)

	esCompra := req.Tipo == TipoCompra
	var stockNuevo int
	if esCompra {
		stockNuevo = stockActual + req.Cantidad
	} else {
		if req.Cantidad > stockActual {
			return nil, insufficientStock("Stock insuficiente. Solo hay %d unidades disponibles.", stockActual)
		}
		stockNuevo = stockActual - req.Cantidad
	}

	total := req.Precio.Mul(decimal.NewFromInt(int64(req.Cantidad))).Round(2)
	entryID := uuid.New()
	now := time.Now()

	// (a) append the ledger entry
	if esCompra {
		err = s.ledger.CreateCompra(ctx, &model.Compra{
			ID:         entryID,
			ProductoID: productoID,
			Cantidad:   req.Cantidad,
			Precio:     req.Precio,
			Total:      total,
			Proveedor:  req.Contraparte,
			CreatedAt:  now,
		})
	} else {
		err = s.ledger.CreateVenta(ctx, &model.Venta{
			ID:         entryID,
			ProductoID: productoID,
			Cantidad:   req.Cantidad,
			Precio:     req.Precio,
			Total:      total,
			Cliente:    req.Contraparte,
			CreatedAt:  now,
		})
	}
	if err != nil {
		return nil, storeUnavailable("No se pudo registrar la transacción.", err)
	}

	// (b) write back the denormalized stock; on failure, reverse (a)
	if err := s.productoRepo.SetStock(ctx, productoID, stockNuevo); err != nil {
		faultErr := s.compensar(ctx, esCompra, entryID, err)
		s.invalidarCache(ctx, productoID)
		return nil, faultErr
	}

	// (c) last transacted price becomes the new reference price.
	// Best-effort: the ledger/stock pair is already consistent, a stale
	// reference price is corrected by the next transaction.
	s.propagarPrecio(ctx, producto, esCompra, req.Precio)

	s.invalidarCache(ctx, productoID)
	s.despacharResumen(ctx, now)

	return &dto.TransaccionResponse{
		ID:          entryID.String(),
		ProductoID:  productoID.String(),
		Tipo:        req.Tipo,
		Cantidad:    req.Cantidad,
		Precio:      req.Precio,
		Total:       total,
		Contraparte: req.Contraparte,
		StockNuevo:  stockNuevo,
		CreatedAt:   now.Format(time.RFC3339),
	}, nil
}

// compensar removes the just-appended ledger entry after a failed stock
// write-back. The entry is deleted by its own id — not "last row" — so a
// concurrent append to another product can never be the victim.
func (s *transaccionService) compensar(ctx context.Context, esCompra bool, entryID uuid.UUID, cause error) error {
	var delErr error
	if esCompra {
		delErr = s.ledger.DeleteCompra(ctx, entryID)
	} else {
		delErr = s.ledger.DeleteVenta(ctx, entryID)
	}
	if delErr != nil {
		log.Error().
			Str("entry_id", entryID.String()).
			AnErr("write_back", cause).
			AnErr("compensation", delErr).
			Msg("transaccion: ledger entry orphaned — stock write-back and compensating delete both failed")
		return writeInconsistency(
			"El libro registró la transacción pero el stock no pudo actualizarse ni revertirse. Revise la consistencia de los datos.",
			errors.Join(cause, delErr))
	}
	return storeUnavailable("No se pudo actualizar el inventario; la transacción fue revertida.", cause)
}

func (s *transaccionService) propagarPrecio(ctx context.Context, p *model.Producto, esCompra bool, precio decimal.Decimal) {
	columna := "precio_venta"
	actual := p.PrecioVenta
	if esCompra {
		columna = "precio_compra"
		actual = p.PrecioCompra
	}
	if precio.Equal(actual) {
		return
	}
	if err := s.productoRepo.UpdatePrecio(ctx, p.ID, columna, precio); err != nil {
		log.Warn().Err(err).Str("producto_id", p.ID.String()).Str("columna", columna).
			Msg("transaccion: no se pudo propagar el precio de referencia")
	}
}

func (s *transaccionService) invalidarCache(ctx context.Context, productoID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, StockCacheKey(productoID.String())).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", productoID.String()).
			Msg("transaccion: no se pudo invalidar la cache de stock")
	}
}

func (s *transaccionService) despacharResumen(ctx context.Context, fecha time.Time) {
	if s.dispatcher == nil {
		return
	}
	// Fire & forget: the rollup catches up on the next transaction if this fails.
	_ = s.dispatcher.EnqueueResumen(ctx, worker.ResumenJobPayload{
		Fecha: fecha.Format("2006-01-02"),
	})
}

// Listar returns a paginated, newest-first view over the product ledgers.
// With Tipo set the matching ledger pages in SQL; without it both ledgers
// are over-fetched up to the requested window, merged by timestamp and
// sliced, so one page holds the newest entries across both ledgers rather
// than a page of each concatenated.
func (s *transaccionService) Listar(ctx context.Context, filter dto.TransaccionFilter) (*dto.TransaccionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}

	fetch := filter
	if filter.Tipo == "" {
		fetch.Page = 1
		fetch.Limit = filter.Page * filter.Limit
	}

	type entrada struct {
		ts   time.Time
		resp dto.TransaccionResponse
	}
	var entradas []entrada
	var total int64

	if filter.Tipo == "" || filter.Tipo == TipoCompra {
		compras, n, err := s.ledger.ListCompras(ctx, fetch)
		if err != nil {
			return nil, storeUnavailable("No se pudo leer el libro de compras.", err)
		}
		total += n
		for _, c := range compras {
			entradas = append(entradas, entrada{ts: c.CreatedAt, resp: dto.TransaccionResponse{
				ID:          c.ID.String(),
				ProductoID:  c.ProductoID.String(),
				Tipo:        TipoCompra,
				Cantidad:    c.Cantidad,
				Precio:      c.Precio,
				Total:       c.Total,
				Contraparte: c.Proveedor,
				CreatedAt:   c.CreatedAt.Format(time.RFC3339),
			}})
		}
	}
	if filter.Tipo == "" || filter.Tipo == TipoVenta {
		ventas, n, err := s.ledger.ListVentas(ctx, fetch)
		if err != nil {
			return nil, storeUnavailable("No se pudo leer el libro de ventas.", err)
		}
		total += n
		for _, v := range ventas {
			entradas = append(entradas, entrada{ts: v.CreatedAt, resp: dto.TransaccionResponse{
				ID:          v.ID.String(),
				ProductoID:  v.ProductoID.String(),
				Tipo:        TipoVenta,
				Cantidad:    v.Cantidad,
				Precio:      v.Precio,
				Total:       v.Total,
				Contraparte: v.Cliente,
				CreatedAt:   v.CreatedAt.Format(time.RFC3339),
			}})
		}
	}

	sort.Slice(entradas, func(i, j int) bool { return entradas[i].ts.After(entradas[j].ts) })

	desde := 0
	if filter.Tipo == "" {
		desde = (filter.Page - 1) * filter.Limit
	}
	if desde > len(entradas) {
		desde = len(entradas)
	}
	hasta := desde + filter.Limit
	if hasta > len(entradas) {
		hasta = len(entradas)
	}

	items := make([]dto.TransaccionResponse, 0, hasta-desde)
	for _, e := range entradas[desde:hasta] {
		items = append(items, e.resp)
	}

	return &dto.TransaccionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
