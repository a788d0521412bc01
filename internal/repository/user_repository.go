package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/voyago/travel-planner/internal/model"
	"github.com/voyago/travel-planner/internal/utils"
)

// UserRepo provides account storage on top of the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
// A duplicate email maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?,?,?)",
		name, email, hash)
	if err != nil {
		// MySQL duplicate-key error for the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateProfile changes name and email, and the password when a new one
// is supplied (newPassword == "" leaves the hash untouched). The email
// must not already belong to another user; that case returns
// ErrEmailExists. A missing user returns sql.ErrNoRows.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, email, newPassword string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))

	// Reject emails already taken by a different account. The unique
	// index would catch this too, but checking first lets us return a
	// clean sentinel instead of parsing driver errors.
	var other uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? AND id<>? LIMIT 1", email, id).Scan(&other)
	if err == nil {
		return ErrEmailExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	var res sql.Result
	if newPassword != "" {
		hash, herr := utils.HashPassword(newPassword, cost)
		if herr != nil {
			return herr
		}
		res, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, email=?, password_hash=? WHERE id=?",
			name, email, hash, id)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE users SET name=?, email=? WHERE id=?",
			name, email, id)
	}
	if err != nil {
		return err
	}
	if n, aerr := res.RowsAffected(); aerr == nil && n == 0 {
		// Distinguish "no such user" from "nothing changed": a no-op
		// update still matches the row, so re-check existence.
		var exists uint64
		if e := r.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? LIMIT 1", id).Scan(&exists); e == sql.ErrNoRows {
			return sql.ErrNoRows
		}
	}
	return nil
}
