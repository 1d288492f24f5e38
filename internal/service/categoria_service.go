package service

import (
	"context"
	"errors"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	existente, err := s.repo.ObtenerPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeUnavailable("No se pudo leer el registro de categorías.", err)
	}
	if existente != nil {
		// Creating an existing category is a no-op, not an error.
		return &dto.CategoriaResponse{ID: existente.ID, Nombre: existente.Nombre}, nil
	}

	c := &model.Categoria{ID: uuid.New(), Nombre: req.Nombre}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, storeUnavailable("No se pudo registrar la categoría.", err)
	}
	return &dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre}, nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el registro de categorías.", err)
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for _, c := range categorias {
		out = append(out, dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre})
	}
	return out, nil
}
