package handler

import (
	"net/http"
	"reflect"

	"github.com/shewas4eve/inventario/internal/apierror"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate is bindAndValidate for query-string filters.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parámetros inválidos: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service fault to its HTTP status. The kind travels in
// the envelope so clients can branch without parsing Spanish text.
func respondError(c *gin.Context, err error) {
	f := service.AsFault(err)
	if f == nil {
		c.Error(err) //nolint:errcheck // collected by the ErrorHandler middleware
		return
	}

	status := http.StatusInternalServerError
	switch f.Kind {
	case service.KindItemNotFound:
		status = http.StatusNotFound
	case service.KindInsufficientStock:
		status = http.StatusConflict
	case service.KindStoreUnavailable:
		status = http.StatusServiceUnavailable
	case service.KindWriteInconsistency:
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		log.Error().
			Str("kind", string(f.Kind)).
			Str("path", c.FullPath()).
			Err(f.Err).
			Msg("ledger fault")
	}
	c.JSON(status, apierror.NewKind(string(f.Kind), f.Message))
}
