package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/dbx"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func marshalRefs(refs []string) ([]byte, error) {
	if refs == nil {
		refs = []string{}
	}
	return json.Marshal(refs)
}

func unmarshalRefs(raw []byte) ([]string, error) {
	refs := []string{}
	if len(raw) == 0 {
		return refs, nil
	}
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Create inserts a new user row. The unique index on number maps to
// common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (number, username, password_hash, basket, favorites)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	basket, err := marshalRefs(user.Basket)
	if err != nil {
		return nil, fmt.Errorf("marshal basket: %w", err)
	}
	favorites, err := marshalRefs(user.Favorites)
	if err != nil {
		return nil, fmt.Errorf("marshal favorites: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		user.Number, user.Username, user.PasswordHash, basket, favorites).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var basket, favorites []byte

	err := row.Scan(&user.ID, &user.Number, &user.Username, &user.PasswordHash, &basket, &favorites)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.Basket, err = unmarshalRefs(basket); err != nil {
		return nil, fmt.Errorf("unmarshal basket: %w", err)
	}
	if user.Favorites, err = unmarshalRefs(favorites); err != nil {
		return nil, fmt.Errorf("unmarshal favorites: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (*models.User, error) {
	query := `
		SELECT id, number, username, password_hash, basket, favorites FROM users
		WHERE number = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, number))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, number, username, password_hash, basket, favorites FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile overwrites the mutable profile fields of an existing user.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET number = $2, username = $3, password_hash = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, user.ID, user.Number, user.Username, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// appendRef pushes productID onto the named jsonb list in a single
// statement, so concurrent mutations cannot interleave.
func (r *PostgresRepository) appendRef(ctx context.Context, column, userID, productID string) ([]string, error) {
	query := fmt.Sprintf(`
		UPDATE users SET %s = %s || to_jsonb($2::text)
		WHERE id = $1
		RETURNING %s
	`, column, column, column)

	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return unmarshalRefs(raw)
}

// removeRef deletes every occurrence of productID from the named jsonb list.
func (r *PostgresRepository) removeRef(ctx context.Context, column, userID, productID string) ([]string, error) {
	query := fmt.Sprintf(`
		UPDATE users SET %s = %s - $2::text
		WHERE id = $1
		RETURNING %s
	`, column, column, column)

	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return unmarshalRefs(raw)
}

func (r *PostgresRepository) AddToBasket(ctx context.Context, userID, productID string) ([]string, error) {
	return r.appendRef(ctx, "basket", userID, productID)
}

func (r *PostgresRepository) RemoveFromBasket(ctx context.Context, userID, productID string) ([]string, error) {
	return r.removeRef(ctx, "basket", userID, productID)
}

func (r *PostgresRepository) AddToFavorites(ctx context.Context, userID, productID string) ([]string, error) {
	return r.appendRef(ctx, "favorites", userID, productID)
}

func (r *PostgresRepository) RemoveFromFavorites(ctx context.Context, userID, productID string) ([]string, error) {
	return r.removeRef(ctx, "favorites", userID, productID)
}
