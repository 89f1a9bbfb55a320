package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/pkg/contextx"
	"skinvault/pkg/httpx/reply"
	"skinvault/pkg/httpx/req"
	"skinvault/pkg/rest"
)

type authService interface {
	SignUp(ctx context.Context, email, password string) (entity.Session, error)
	SignIn(ctx context.Context, email, password string) (entity.Session, error)
	Verify(token string) (entity.Session, error)
	VerifyToken(ctx context.Context, token string) (contextx.UserID, error)
}

type AuthServer struct {
	authService authService
}

func NewAuthServer(authService authService) AuthServer {
	return AuthServer{
		authService: authService,
	}
}

func (s AuthServer) postV1AuthSignUp(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.Credentials

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	session, err := s.authService.SignUp(ctx, request.Email, request.Password)
	if err != nil {
		return fmt.Errorf("authService.SignUp: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTSession(session))

	return nil
}

func (s AuthServer) postV1AuthSignIn(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.Credentials

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	session, err := s.authService.SignIn(ctx, request.Email, request.Password)
	if err != nil {
		return fmt.Errorf("authService.SignIn: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(session))

	return nil
}

func (s AuthServer) getV1AuthSession(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		return domain.Unauthenticated("sign in required")
	}

	session, err := s.authService.Verify(token)
	if err != nil {
		return fmt.Errorf("authService.Verify: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(session))

	return nil
}
