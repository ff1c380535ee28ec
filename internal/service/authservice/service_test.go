package authservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hospital/internal/domain"
	apperror "hospital/internal/errors"
	"hospital/internal/pkg/logger"
	"hospital/internal/pkg/token"
	"hospital/internal/pkg/validation"
	"hospital/internal/repository/repotest"
	"hospital/internal/service/authservice"
)

// MockIssuer é uma implementação mock de authservice.TokenIssuer.
type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(user *domain.User, now time.Time) (string, error) {
	args := m.Called(user, now)
	return args.String(0), args.Error(1)
}

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, issuer authservice.TokenIssuer) *authservice.Service {
	t.Helper()
	svc := authservice.NewService(repotest.NewStore(t), issuer, validation.New(), logger.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	svc.HashCost = bcrypt.MinCost
	return svc
}

func TestRegisterAndLogin_Success(t *testing.T) {
	issuer := new(MockIssuer)
	svc := newService(t, issuer)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "senha-forte", Role: domain.RoleDoctor})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEqual(t, "senha-forte", user.PasswordHash)

	issuer.On("Issue", mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.Name == "alice" && u.Role == domain.RoleDoctor
	}), fixedNow).Return("token-assinado", nil).Once()

	resp, err := svc.Login(ctx, "alice", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, "token-assinado", resp.Token)
	assert.Equal(t, fixedNow.Add(2*time.Hour), resp.ExpiresAt)
	issuer.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	issuer := new(MockIssuer)
	svc := newService(t, issuer)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "senha-forte", Role: domain.RoleDoctor})
	require.NoError(t, err)

	for name, creds := range map[string][2]string{
		"senha errada":         {"alice", "senha-errada"},
		"usuário inexistente": {"bob", "senha-forte"},
		"campos vazios":        {"", ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, creds[0], creds[1])
			var unauthorized *apperror.UnauthorizedError
			assert.True(t, errors.As(err, &unauthorized), "erro inesperado: %v", err)
		})
	}

	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
}

func TestLogin_IssuerFailure(t *testing.T) {
	issuer := new(MockIssuer)
	svc := newService(t, issuer)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "senha-forte", Role: domain.RoleDoctor})
	require.NoError(t, err)

	issuer.On("Issue", mock.Anything, fixedNow).Return("", apperror.NewInternalError("falha ao assinar o token", nil))

	_, err = svc.Login(ctx, "alice", "senha-forte")
	var internal *apperror.InternalError
	assert.True(t, errors.As(err, &internal))
}

func TestLogin_WithRealIssuer(t *testing.T) {
	issuer, err := token.NewIssuer(token.Config{Secret: "segredo", Issuer: "hospital-api", Audience: "hospital-clients"})
	require.NoError(t, err)
	svc := newService(t, issuer)
	ctx := context.Background()

	_, err = svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "senha-forte", Role: domain.RoleDoctor})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "alice", "senha-forte")
	require.NoError(t, err)

	claims, err := issuer.Verify(resp.Token, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
	assert.True(t, claims.ExpiresAt.Time.Equal(fixedNow.Add(2*time.Hour)))
}

func TestRegister_Failures(t *testing.T) {
	svc := newService(t, new(MockIssuer))
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "curta", Role: domain.RoleDoctor})
	var ve *apperror.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "senha-forte", Role: domain.RoleDoctor})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "outra-senha", Role: domain.RolePatient})
	var cv *apperror.ConstraintViolationError
	assert.True(t, errors.As(err, &cv), "erro inesperado: %v", err)

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 409, status)
}

func TestEnsureAdmin(t *testing.T) {
	issuer := new(MockIssuer)
	svc := newService(t, issuer)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.EnsureAdmin(ctx, "root", "curta")
	var cfgErr *apperror.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	created, err = svc.EnsureAdmin(ctx, "root", "senha-admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "root", "senha-admin")
	require.NoError(t, err)
	assert.False(t, created)

	issuer.On("Issue", mock.MatchedBy(func(u *domain.User) bool { return u.Role == domain.RoleAdmin }), fixedNow).Return("tok", nil)
	resp, err := svc.Login(ctx, "root", "senha-admin")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
}

func TestLogin_ExpiresAtMatchesTokenWithFractionalNow(t *testing.T) {
	issuer, err := token.NewIssuer(token.Config{Secret: "segredo", Issuer: "hospital-api", Audience: "hospital-clients"})
	require.NoError(t, err)
	svc := newService(t, issuer)
	now := fixedNow.Add(900 * time.Millisecond)
	svc.Now = func() time.Time { return now }
	ctx := context.Background()

	_, err = svc.Register(ctx, domain.UserRegistration{Name: "alice", Password: "senha-forte", Role: domain.RoleDoctor})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "alice", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(2*time.Hour), resp.ExpiresAt)

	claims, err := issuer.Verify(resp.Token, now)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(resp.ExpiresAt))

	// O token vale até o instante anunciado e nem um pouco além.
	_, err = issuer.Verify(resp.Token, resp.ExpiresAt.Add(-time.Millisecond))
	assert.NoError(t, err)
	_, err = issuer.Verify(resp.Token, resp.ExpiresAt)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
