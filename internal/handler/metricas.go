package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/infra"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricasHandler struct {
	metricas    service.MetricasService
	resumenes   service.ResumenService
	storagePath string
}

func NewMetricasHandler(metricas service.MetricasService, resumenes service.ResumenService, storagePath string) *MetricasHandler {
	return &MetricasHandler{metricas: metricas, resumenes: resumenes, storagePath: storagePath}
}

// Materiales GET /v1/metricas/materiales
func (h *MetricasHandler) Materiales(c *gin.Context) {
	resp, err := h.metricas.Materiales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte GET /v1/metricas/materiales/reporte — PDF download.
// Regenerated on every request from the current ledgers.
func (h *MetricasHandler) Reporte(c *gin.Context) {
	ctx := c.Request.Context()
	metricas, err := h.metricas.Materiales(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	resumenes, err := h.resumenes.Listar(ctx, 7)
	if err != nil {
		respondError(c, err)
		return
	}

	fecha := time.Now().Format("2006-01-02")
	path, err := infra.GenerateReporteMetricasPDF(metricas, resumenes, fecha, h.storagePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "reporte_"+fecha+".pdf")
}

// Resumen GET /v1/resumen
func (h *MetricasHandler) Resumen(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	resp, err := h.resumenes.Listar(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EnviarResumen POST /v1/resumen/enviar — queues the report email.
func (h *MetricasHandler) EnviarResumen(c *gin.Context) {
	var req dto.EnviarResumenRequest
	// Body is optional: an empty POST sends to the configured address.
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	if err := h.resumenes.Enviar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}
