package invoiceservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/validation"
	"hospital/internal/repository"
	"hospital/internal/repository/appointmentrepo"
	"hospital/internal/repository/repotest"
	"hospital/internal/service/invoiceservice"
)

// seedAppointments cria n consultas com IDs 1..n.
func seedAppointments(t *testing.T, store *repository.Store, n int) {
	t.Helper()
	err := store.WithSession(context.Background(), func(ctx context.Context, sess *repository.Session) error {
		repo := appointmentrepo.NewAppointmentRepository(sess)
		for i := 0; i < n; i++ {
			if _, err := repo.Add(ctx, &domain.Appointment{PatientID: 1, DoctorID: 2, ScheduledAt: time.Date(2026, 6, 1, 9+i, 0, 0, 0, time.UTC)}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func newService(t *testing.T, appointments int) *invoiceservice.Service {
	t.Helper()
	store := repotest.NewStore(t)
	seedAppointments(t, store, appointments)
	return invoiceservice.NewService(store, validation.New(), logger.NewNop())
}

func TestCreateAndList(t *testing.T) {
	svc := newService(t, 7)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.InvoiceRequest{AppID: 5, Price: 15000, PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.InvoiceRequest{AppID: 7, Price: 9900, PaymentMethod: domain.PaymentCredit})
	require.NoError(t, err)

	byApp, err := svc.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, byApp, 1)
	assert.Equal(t, first, byApp[0])

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreate_Failures(t *testing.T) {
	svc := newService(t, 1)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.InvoiceRequest{AppID: 99, Price: 100, PaymentMethod: domain.PaymentCash})
	var nf *apperror.NotFoundError
	assert.True(t, errors.As(err, &nf))

	_, err = svc.Create(ctx, domain.InvoiceRequest{AppID: 1, Price: 100, PaymentMethod: "Pix"})
	var ve *apperror.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = svc.List(ctx, -1)
	assert.True(t, errors.As(err, &ve))
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService(t, 2)
	ctx := context.Background()

	inv, err := svc.Create(ctx, domain.InvoiceRequest{AppID: 1, Price: 100, PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, inv.ID, domain.InvoiceRequest{AppID: 2, Price: 250, PaymentMethod: domain.PaymentCredit})
	require.NoError(t, err)
	assert.Equal(t, inv.ID, updated.ID)

	got, err := svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.AppID)
	assert.Equal(t, int64(250), got.Price)
	assert.Equal(t, domain.PaymentCredit, got.PaymentMethod)

	var nf *apperror.NotFoundError
	_, err = svc.Update(ctx, inv.ID, domain.InvoiceRequest{AppID: 42, Price: 1, PaymentMethod: domain.PaymentCash})
	assert.True(t, errors.As(err, &nf), "consulta inexistente")

	_, err = svc.Update(ctx, 999, domain.InvoiceRequest{AppID: 1, Price: 1, PaymentMethod: domain.PaymentCash})
	assert.True(t, errors.As(err, &nf), "fatura inexistente")

	require.NoError(t, svc.Delete(ctx, inv.ID))

	_, err = svc.Get(ctx, inv.ID)
	assert.True(t, errors.As(err, &nf))

	err = svc.Delete(ctx, inv.ID)
	assert.True(t, errors.As(err, &nf))
}
