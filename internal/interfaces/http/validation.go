package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
)

// validate valida los DTOs de entrada; los errores usan el nombre del tag json/query.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// validationResponse convierte el primer error del validador en la respuesta de error estándar.
func validationResponse(err error) dto.ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(e), Field: e.Field()}
	}
	return dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo requerido"
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "min":
		return "debe ser al menos " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	default:
		return "valor inválido"
	}
}
