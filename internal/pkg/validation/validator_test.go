package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/validation"
)

func TestValidator_Struct(t *testing.T) {
	v := validation.New()

	err := v.Struct(domain.UserRegistration{Name: "alice", Password: "segredo123", Role: domain.RoleDoctor})
	assert.NoError(t, err)

	err = v.Struct(domain.UserRegistration{Name: "", Email: "x", Password: "curta", Role: "Nurse"})
	var ve *apperror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Msg, "name é obrigatório")
	assert.Contains(t, ve.Msg, "email deve ser um e-mail válido")
	assert.Contains(t, ve.Msg, "password deve ter no mínimo 8 caracteres")
	assert.Contains(t, ve.Msg, "role deve ser um de:")
}

func TestValidator_InvoiceRequest(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Struct(domain.InvoiceRequest{AppID: 5, Price: 0, PaymentMethod: domain.PaymentCash}))

	err := v.Struct(domain.InvoiceRequest{AppID: 0, Price: -1, PaymentMethod: "Pix"})
	var ve *apperror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Msg, "app_id")
	assert.Contains(t, ve.Msg, "price deve ser maior ou igual a 0")
	assert.Contains(t, ve.Msg, "payment_method deve ser um de: Cash Credit")
}
