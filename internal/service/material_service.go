package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// gramosPorKg converts the user-entered weight to the stored unit.
var gramosPorKg = decimal.NewFromInt(1000)

// MaterialService manages the reclaimable-materials registry and its ledgers.
// Materials carry no denormalized stock: every stock answer is reconciled from
// the full purchase/sale ledgers.
type MaterialService interface {
	Crear(ctx context.Context, req dto.CrearMaterialRequest) (*dto.MaterialResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error)
	Listar(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error)
	Stock(ctx context.Context, id uuid.UUID) (*dto.StockMaterialResponse, error)
	RegistrarCompra(ctx context.Context, req dto.RegistrarCompraMaterialRequest) (*dto.TransaccionMaterialResponse, error)
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaMaterialRequest) (*dto.TransaccionMaterialResponse, error)
}

type materialService struct {
	repo   repository.MaterialRepository
	ledger repository.MaterialLedgerRepository

	// Per-material serialization for sales: the stock check and the venta
	// append are two store operations, and two concurrent sales passing the
	// check together could drive the reconciled weight negative. Purchases
	// have no precondition and stay lock-free.
	locks sync.Map // uuid.UUID → *sync.Mutex
}

func NewMaterialService(repo repository.MaterialRepository, ledger repository.MaterialLedgerRepository) MaterialService {
	return &materialService{repo: repo, ledger: ledger}
}

func (s *materialService) lockMaterial(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func mapMaterial(m *model.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:          m.ID.String(),
		Nombre:      m.Nombre,
		Tipo:        m.Tipo,
		PrecioKg:    m.PrecioKg,
		Descripcion: m.Descripcion,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func (s *materialService) Crear(ctx context.Context, req dto.CrearMaterialRequest) (*dto.MaterialResponse, error) {
	m := &model.Material{
		ID:          uuid.New(),
		Nombre:      req.Nombre,
		Tipo:        req.Tipo,
		PrecioKg:    req.PrecioKg,
		Descripcion: req.Descripcion,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, storeUnavailable("No se pudo registrar el material.", err)
	}
	return mapMaterial(m), nil
}

func (s *materialService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error) {
	m, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapMaterial(m), nil
}

func (s *materialService) Listar(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	materiales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el registro de materiales.", err)
	}
	items := make([]dto.MaterialResponse, 0, len(materiales))
	for i := range materiales {
		items = append(items, *mapMaterial(&materiales[i]))
	}
	return &dto.MaterialListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Stock reconciles the current weight for one material.
func (s *materialService) Stock(ctx context.Context, id uuid.UUID) (*dto.StockMaterialResponse, error) {
	m, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	stock, err := s.reconciliar(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.StockMaterialResponse{
		MaterialID: m.ID.String(),
		Nombre:     m.Nombre,
		StockKg:    stock.StringFixed(3),
	}, nil
}

// RegistrarCompra appends a material purchase. There is no stock precondition
// and no denormalized field to maintain — the compra is a single ledger write.
func (s *materialService) RegistrarCompra(ctx context.Context, req dto.RegistrarCompraMaterialRequest) (*dto.TransaccionMaterialResponse, error) {
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return nil, notFound("Material ID %s no encontrado.", req.MaterialID)
	}
	if _, err := s.buscar(ctx, materialID); err != nil {
		return nil, err
	}

	pesoKg := req.PesoGramos.Div(gramosPorKg).Round(3)
	total := pesoKg.Mul(req.PrecioKg).Round(2)
	now := time.Now()

	compra := &model.CompraMaterial{
		ID:         uuid.New(),
		MaterialID: materialID,
		PesoGramos: req.PesoGramos,
		PesoKg:     pesoKg,
		PrecioKg:   req.PrecioKg,
		Total:      total,
		Proveedor:  req.Proveedor,
		CreatedAt:  now,
	}
	if err := s.ledger.CreateCompra(ctx, compra); err != nil {
		return nil, storeUnavailable("No se pudo registrar la compra de material.", err)
	}

	stock, err := s.reconciliar(ctx, materialID)
	if err != nil {
		// The compra is already recorded; only the informational stock read failed.
		stock = decimal.Zero
	}

	return &dto.TransaccionMaterialResponse{
		ID:          compra.ID.String(),
		MaterialID:  materialID.String(),
		Tipo:        TipoCompra,
		PesoKg:      pesoKg.StringFixed(3),
		PrecioKg:    req.PrecioKg,
		Total:       total,
		Contraparte: req.Proveedor,
		StockKg:     stock.StringFixed(3),
		CreatedAt:   now.Format(time.RFC3339),
	}, nil
}

// RegistrarVenta appends a material sale after checking the reconciled stock.
// A sale can never drive the reconciled weight negative through this path.
func (s *materialService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaMaterialRequest) (*dto.TransaccionMaterialResponse, error) {
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return nil, notFound("Material ID %s no encontrado.", req.MaterialID)
	}
	if _, err := s.buscar(ctx, materialID); err != nil {
		return nil, err
	}

	unlock := s.lockMaterial(materialID)
	defer unlock()

	stockActual, err := s.reconciliar(ctx, materialID)
	if err != nil {
		return nil, err
	}

	pesoKg := req.PesoGramos.Div(gramosPorKg).Round(3)
	if pesoKg.GreaterThan(stockActual) {
		return nil, insufficientStock("Stock insuficiente. Solo hay %s kg disponibles.", stockActual.StringFixed(3))
	}

	total := pesoKg.Mul(req.PrecioKg).Round(2)
	now := time.Now()

	venta := &model.VentaMaterial{
		ID:         uuid.New(),
		MaterialID: materialID,
		PesoGramos: req.PesoGramos,
		PesoKg:     pesoKg,
		PrecioKg:   req.PrecioKg,
		Total:      total,
		Cliente:    req.Cliente,
		CreatedAt:  now,
	}
	if err := s.ledger.CreateVenta(ctx, venta); err != nil {
		return nil, storeUnavailable("No se pudo registrar la venta de material.", err)
	}

	return &dto.TransaccionMaterialResponse{
		ID:          venta.ID.String(),
		MaterialID:  materialID.String(),
		Tipo:        TipoVenta,
		PesoKg:      pesoKg.StringFixed(3),
		PrecioKg:    req.PrecioKg,
		Total:       total,
		Contraparte: req.Cliente,
		StockKg:     stockActual.Sub(pesoKg).StringFixed(3),
		CreatedAt:   now.Format(time.RFC3339),
	}, nil
}

func (s *materialService) buscar(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Material ID %s no encontrado.", id)
		}
		return nil, storeUnavailable("No se pudo leer el registro de materiales.", err)
	}
	return m, nil
}

func (s *materialService) reconciliar(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	compras, err := s.ledger.ComprasPorMaterial(ctx, id)
	if err != nil {
		return decimal.Zero, storeUnavailable("No se pudo leer el libro de compras de materiales.", err)
	}
	ventas, err := s.ledger.VentasPorMaterial(ctx, id)
	if err != nil {
		return decimal.Zero, storeUnavailable("No se pudo leer el libro de ventas de materiales.", err)
	}
	return StockMaterial(id, compras, ventas), nil
}
