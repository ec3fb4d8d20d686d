package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rma-system/internal/entities"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/types"
)

const userSelectFields = "u.id, u.email, u.password, p.full_name, p.role, p.is_active, u.created_at, u.updated_at, u.deleted_at"

// Accounts and profiles are two parallel sources; the profile is optional,
// hence the LEFT JOIN.
const userJoinClause = "users u LEFT JOIN user_profiles p ON p.user_id = u.id"

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, tx pgx.Tx, email, passwordHash string) (uint64, error)
	CreateProfile(ctx context.Context, tx pgx.Tx, userID uint64, fullName, role string) error
	UpdateRole(ctx context.Context, userID uint64, role string) error
	UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error
	DeleteUser(ctx context.Context, id uint64) error
}

type userRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FullName, &user.Role,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	args := make([]interface{}, 0)
	whereClause := "WHERE u.deleted_at IS NULL"

	if filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (u.email ILIKE $%d OR p.full_name ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", userJoinClause, whereClause)
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d",
		userSelectFields, userJoinClause, whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *userRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE u.id = $1 AND u.deleted_at IS NULL", userSelectFields, userJoinClause)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(u.email) = LOWER($1) AND u.deleted_at IS NULL", userSelectFields, userJoinClause)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *userRepository) CreateUser(ctx context.Context, tx pgx.Tx, email, passwordHash string) (uint64, error) {
	var userID uint64
	err := tx.QueryRow(ctx, "INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id", email, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return userID, nil
}

func (r *userRepository) CreateProfile(ctx context.Context, tx pgx.Tx, userID uint64, fullName, role string) error {
	_, err := tx.Exec(ctx, "INSERT INTO user_profiles (user_id, full_name, role) VALUES ($1, $2, $3)", userID, fullName, role)
	return err
}

func (r *userRepository) UpdateRole(ctx context.Context, userID uint64, role string) error {
	result, err := r.storage.Exec(ctx, "UPDATE user_profiles SET role = $1, updated_at = NOW() WHERE user_id = $2", role, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	result, err := r.storage.Exec(ctx, "UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL", passwordHash, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
