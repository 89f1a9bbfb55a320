package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/pkg/errcodes"
)

const pgUniqueViolation = "23505"

type UserRepository struct {
	store
}

func NewUserRepository(db *sqlx.DB, queryTimeout time.Duration) *UserRepository {
	return &UserRepository{store: store{db: db, queryTimeout: queryTimeout}}
}

func (r *UserRepository) CreateUser(ctx context.Context, user entity.User) (entity.User, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, created_at`

	var created userSchema
	if err := r.db.GetContext(ctx, &created, query, user.ID, user.Email, user.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return entity.User{}, domain.Validation(errcodes.EmailAlreadyInUse, "email already in use")
		}

		return entity.User{}, domain.Internal(err, "failed to create user")
	}

	return created.toDomain(), nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`

	var schema userSchema
	if err := r.db.GetContext(ctx, &schema, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, domain.NotFound(errcodes.NotFound, "user not found")
		}

		return entity.User{}, domain.Internal(err, "failed to get user")
	}

	return schema.toDomain(), nil
}
