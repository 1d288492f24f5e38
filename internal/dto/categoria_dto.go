package dto

import "github.com/google/uuid"

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

type CategoriaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}
