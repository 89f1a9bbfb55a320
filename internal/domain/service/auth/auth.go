// Package auth signs users up and in with email and password and issues
// HS256 access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/pkg/contextx"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/logx"
)

const minPasswordLength = 6

type UserRepository interface {
	CreateUser(ctx context.Context, user entity.User) (entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	users      UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewService(users UserRepository, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		users:      users,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) SignUp(ctx context.Context, email, password string) (entity.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return entity.Session{}, err
	}

	if len(password) < minPasswordLength {
		return entity.Session{}, domain.Validation(errcodes.InvalidPassword,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return entity.Session{}, domain.Internal(err, "failed to hash password")
	}

	user, err := s.users.CreateUser(ctx, entity.User{
		ID:           xid.New().String(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return entity.Session{}, fmt.Errorf("users.CreateUser: %w", err)
	}

	logger(ctx).Info("user signed up", slog.String(logx.FieldUserID, user.ID))

	return s.issue(user)
}

// SignIn does not tell a wrong password from an unknown email.
func (s *Service) SignIn(ctx context.Context, email, password string) (entity.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return entity.Session{}, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return entity.Session{}, credentialsMismatch()
		}

		return entity.Session{}, fmt.Errorf("users.GetUserByEmail: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return entity.Session{}, credentialsMismatch()
	}

	return s.issue(user)
}

// Verify parses an access token back into its session.
func (s *Service) Verify(token string) (entity.Session, error) {
	var c claims

	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Session{}, domain.WrapError(err, domain.KindUnauthenticated, errcodes.AccessTokenExpired, "access token expired")
		}

		return entity.Session{}, domain.WrapError(err, domain.KindUnauthenticated, errcodes.AccessTokenInvalid, "access token invalid")
	}

	if !parsed.Valid || c.Subject == "" {
		return entity.Session{}, domain.NewError(domain.KindUnauthenticated, errcodes.AccessTokenInvalid, "access token invalid")
	}

	session := entity.Session{
		UserID:      c.Subject,
		Email:       c.Email,
		AccessToken: token,
	}

	if c.ExpiresAt != nil {
		session.ExpiresAt = c.ExpiresAt.Time
	}

	return session, nil
}

// VerifyToken resolves a bearer token for the authentication middleware.
func (s *Service) VerifyToken(_ context.Context, token string) (contextx.UserID, error) {
	session, err := s.Verify(token)
	if err != nil {
		return "", err
	}

	return contextx.UserID(session.UserID), nil
}

func (s *Service) issue(user entity.User) (entity.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return entity.Session{}, domain.Internal(err, "failed to sign access token")
	}

	return entity.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccessToken: signed,
		ExpiresAt:   expiresAt.Truncate(time.Second),
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return "", domain.Validation(errcodes.InvalidEmail, "email is invalid")
	}

	return email, nil
}

func credentialsMismatch() error {
	return domain.NewError(domain.KindUnauthenticated, errcodes.CredentialsMismatch, "invalid email or password")
}
