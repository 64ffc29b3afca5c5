package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-article-cms/internal/api"
	"github.com/FACorreiaa/go-article-cms/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user data persistence.
type UserRepo interface {
	// CreateUser inserts a new user with an already-hashed password.
	// Returns types.ErrConflict when email or username is already taken.
	CreateUser(ctx context.Context, email, username, hashedPassword string) (*types.User, error)

	// GetUserByID retrieves a user by their unique ID.
	// Returns types.ErrNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// GetUserByEmail retrieves a user by email. Absence is not an error:
	// it returns (nil, nil) so callers can use it as an existence check.
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)

	// GetUserByUsername retrieves a user by username, (nil, nil) when absent.
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)

	// ListUsers returns all users. No pagination at this scale.
	ListUsers(ctx context.Context) ([]types.User, error)
}

// PostgresUserRepo provides the pgx implementation of UserRepo.
type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool api.PostgresPool
}

// NewPostgresUserRepo creates a new PostgreSQL user repository.
func NewPostgresUserRepo(pool api.PostgresPool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pool,
	}
}

const userColumns = "id, email, username, password_hash, created_at, updated_at"

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) CreateUser(ctx context.Context, email, username, hashedPassword string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("email", email))

	now := time.Now()
	row := r.pgpool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+userColumns,
		email, username, hashedPassword, now)

	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			span.SetStatus(codes.Error, "unique constraint violated")
			return nil, fmt.Errorf("user already exists: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	span.SetStatus(codes.Ok, "user created")
	return user, nil
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetUserByUsername", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepo) ListUsers(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "ListUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []types.User
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading user rows: %w", err)
	}
	return users, nil
}
