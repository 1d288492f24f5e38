package handler

import (
	"net/http"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type TransaccionesHandler struct{ svc service.TransaccionService }

func NewTransaccionesHandler(svc service.TransaccionService) *TransaccionesHandler {
	return &TransaccionesHandler{svc: svc}
}

// Registrar POST /v1/transacciones
//
// Every call appends a new ledger entry — the endpoint is deliberately
// NOT idempotent, so client retries must be driven by the response status.
func (h *TransaccionesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarTransaccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/transacciones
func (h *TransaccionesHandler) Listar(c *gin.Context) {
	var filter dto.TransaccionFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
