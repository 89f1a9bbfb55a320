package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/service/auth"
	"skinvault/pkg/errcodes"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user entity.User) (entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return entity.User{}, domain.Validation(errcodes.EmailAlreadyInUse, "email already in use")
	}

	user.CreatedAt = time.Now()
	m.users[user.Email] = user

	return user, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return entity.User{}, domain.NotFound(errcodes.NotFound, "user not found")
	}

	return user, nil
}

func newService(now func() time.Time) *auth.Service {
	return auth.NewService(&memoryUsers{users: map[string]entity.User{}}, "test-secret", time.Hour).
		WithBcryptCost(bcrypt.MinCost).
		WithClock(now)
}

func codeOf(err error) string {
	code, _ := domain.GetCode(err)
	return code.String()
}

func TestSignUpSignIn(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(time.Now)

	session, err := svc.SignUp(ctx, "  Trader@Example.com ", "hunter22")
	rq.NoError(err)
	rq.NotEmpty(session.UserID)
	rq.Equal("trader@example.com", session.Email)
	rq.NotEmpty(session.AccessToken)

	verified, err := svc.Verify(session.AccessToken)
	rq.NoError(err)
	rq.Equal(session.UserID, verified.UserID)
	rq.Equal(session.Email, verified.Email)
	rq.WithinDuration(session.ExpiresAt, verified.ExpiresAt, time.Second)

	userID, err := svc.VerifyToken(ctx, session.AccessToken)
	rq.NoError(err)
	rq.Equal(session.UserID, userID.String())

	signedIn, err := svc.SignIn(ctx, "trader@example.com", "hunter22")
	rq.NoError(err)
	rq.Equal(session.UserID, signedIn.UserID)

	_, err = svc.SignUp(ctx, "trader@example.com", "another1")
	rq.Equal(errcodes.EmailAlreadyInUse.String(), codeOf(err))
}

func TestSignInErrors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(time.Now)

	_, err := svc.SignUp(ctx, "trader@example.com", "hunter22")
	rq.NoError(err)

	testCases := []struct {
		name     string
		email    string
		password string
		kind     domain.Kind
		code     string
	}{
		{name: "Wrong password", email: "trader@example.com", password: "hunter23", kind: domain.KindUnauthenticated, code: errcodes.CredentialsMismatch.String()},
		{name: "Unknown email", email: "nobody@example.com", password: "hunter22", kind: domain.KindUnauthenticated, code: errcodes.CredentialsMismatch.String()},
		{name: "Invalid email", email: "not-an-email", password: "hunter22", kind: domain.KindValidation, code: errcodes.InvalidEmail.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			_, err := svc.SignIn(ctx, tc.email, tc.password)
			rq.Equal(tc.kind, domain.KindOf(err))
			rq.Equal(tc.code, codeOf(err))
		})
	}

	_, err = svc.SignUp(ctx, "short@example.com", "123")
	rq.Equal(errcodes.InvalidPassword.String(), codeOf(err))
}

func TestVerifyErrors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	svc := newService(func() time.Time { return issuedAt })

	session, err := svc.SignUp(ctx, "trader@example.com", "hunter22")
	rq.NoError(err)

	later := newService(func() time.Time { return issuedAt.Add(2 * time.Hour) })

	_, err = later.Verify(session.AccessToken)
	rq.True(domain.IsKind(err, domain.KindUnauthenticated))
	rq.Equal(errcodes.AccessTokenExpired.String(), codeOf(err))

	other := auth.NewService(&memoryUsers{users: map[string]entity.User{}}, "other-secret", time.Hour).
		WithClock(func() time.Time { return issuedAt })

	_, err = other.Verify(session.AccessToken)
	rq.Equal(errcodes.AccessTokenInvalid.String(), codeOf(err))

	_, err = svc.Verify("garbage")
	rq.Equal(errcodes.AccessTokenInvalid.String(), codeOf(err))
}
