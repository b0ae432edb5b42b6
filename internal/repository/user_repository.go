package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/evergreenmedia/podcast-partner-api/internal/model"
	"github.com/evergreenmedia/podcast-partner-api/internal/utils"
)

const userSelectColumns = "id, name, email, password_hash, role, created_at, mapped_partner_id"

// UserRepo manages users and their show associations.
type UserRepo struct {
	c *Client
}

func NewUserRepo(c *Client) *UserRepo { return &UserRepo{c: c} }

func scanUser(scan func(dest ...any) error) (model.User, error) {
	var u model.User
	var mapped sql.NullString
	if err := scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &mapped); err != nil {
		return model.User{}, err
	}
	if mapped.Valid {
		u.MappedPartnerID = &mapped.String
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email, or (nil, nil) when no such
// user exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userSelectColumns+" FROM users WHERE email = ?", email)
}

// GetByID fetches a user by id, or (nil, nil) when no such user exists.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userSelectColumns+" FROM users WHERE id = ?", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	found, err := r.c.queryRow(ctx, query, []any{arg}, func(row *sql.Row) error {
		var err error
		u, err = scanUser(row.Scan)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// GetAll returns every user.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := r.c.query(ctx, "SELECT "+userSelectColumns+" FROM users", nil, func(rows *sql.Rows) error {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return err
		}
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user with a generated UUID, hashing the plaintext
// password before it reaches storage. The email pre-check and the insert
// share one transaction; a duplicate email fails with ErrEmailExists
// whether caught by the pre-check or by the unique index.
func (r *UserRepo) Create(ctx context.Context, in *model.UserInput, bcryptCost int) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := utils.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return nil, &QueryError{Cause: err}
	}

	u := model.User{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Email:           email,
		PasswordHash:    hash,
		Role:            in.Role,
		CreatedAt:       time.Now().UTC(),
		MappedPartnerID: in.MappedPartnerID,
	}

	err = r.c.withTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existing)
		if err == nil {
			return ErrEmailExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return r.c.statementErr(err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO users (id, name, email, password_hash, role, created_at, mapped_partner_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
			u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, nullable(u.MappedPartnerID))
		if err != nil {
			var myErr *mysql.MySQLError
			if errors.As(err, &myErr) && myErr.Number == mysqlErrDupEntry {
				return ErrEmailExists
			}
			return r.c.statementErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Delete removes a user, their refresh tokens and every show association
// referencing them as partner. All three deletes run in one transaction so a
// failure cannot leave the associations gone while the user row survives,
// and no token row outlives its owner to pass a refresh validation.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.c.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM show_partners WHERE partner_id = ?", id); err != nil {
			return r.c.statementErr(err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id = ?", id); err != nil {
			return r.c.statementErr(err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
		if err != nil {
			return r.c.statementErr(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return r.c.statementErr(err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// UpdatePassword hashes the new plaintext and replaces the stored hash.
// Zero rows affected means the user does not exist.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, plaintext string, bcryptCost int) error {
	hash, err := utils.HashPassword(plaintext, bcryptCost)
	if err != nil {
		return &QueryError{Cause: err}
	}
	n, err := r.c.exec(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Associate links a show with a partner in the show_partners table.
func (r *UserRepo) Associate(ctx context.Context, showID, partnerID string) error {
	_, err := r.c.exec(ctx, "INSERT INTO show_partners (show_id, partner_id) VALUES (?, ?)", showID, partnerID)
	return err
}

// Unassociate removes one show/partner link. Zero rows affected means the
// association does not exist.
func (r *UserRepo) Unassociate(ctx context.Context, showID, partnerID string) error {
	n, err := r.c.exec(ctx, "DELETE FROM show_partners WHERE show_id = ? AND partner_id = ?", showID, partnerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
