package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hospital/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, r := range domain.Roles() {
		parsed, err := domain.ParseRole(string(r))
		assert.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := domain.ParseRole("doctor") // case-sensitive
	assert.Error(t, err)

	_, err = domain.ParseRole("Nurse")
	assert.Error(t, err)
}

func TestEntityIdentity(t *testing.T) {
	var e domain.Entity = &domain.User{ID: 7}
	assert.Equal(t, int64(7), e.GetID())

	e = &domain.Invoice{ID: 3}
	assert.Equal(t, int64(3), e.GetID())

	e = &domain.Appointment{ID: 9}
	assert.Equal(t, int64(9), e.GetID())
}
