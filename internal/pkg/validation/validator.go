package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "hospital/internal/errors"
)

// Validator envolve o go-playground/validator e devolve ValidationError da aplicação.
// É seguro para uso concorrente (o validator mantém cache interno por tipo).
type Validator struct {
	v *validator.Validate
}

// New cria o Validator usando os nomes das tags json nas mensagens.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida o payload; todas as falhas viram um único ValidationError.
func (val *Validator) Struct(i any) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return apperror.NewValidationError(strings.Join(msgs, "; "))
	}
	return apperror.NewValidationError(err.Error())
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " é obrigatório"
	case "email":
		return field + " deve ser um e-mail válido"
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}
