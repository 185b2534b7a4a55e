package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/qna-service/internal/model"
)

// UserRepo persists users in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,name,password_hash,role,status,created_at,updated_at"

// Create inserts a user and fills in its generated ID.  The caller
// supplies an already-hashed password and an already-assigned role.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, role, status) VALUES (?,?,?,?,?)",
		u.Email, u.Name, u.PasswordHash, string(u.Role), string(model.UserActive))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.Status = model.UserActive
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		model.NormalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns a page of users ordered by id descending.  page is
// 1-based; size is clamped by the caller.
func (r *UserRepo) List(ctx context.Context, page, size int) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id DESC LIMIT ? OFFSET ?",
		size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update writes the mutable profile fields of an existing user.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, password_hash=? WHERE id=?",
		u.Name, u.PasswordHash, u.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Quit marks a user QUIT and deactivates every question they own in
// one transaction.  Quitting an already-quit or absent user returns
// ErrNotFound.
func (r *UserRepo) Quit(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET status=? WHERE id=? AND status=?",
		string(model.UserQuit), id, string(model.UserActive))
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	// Cascade: every non-terminal question the user owns becomes DEACTIVATED.
	_, err = tx.ExecContext(ctx,
		"UPDATE questions SET status=? WHERE user_id=? AND status IN (?,?)",
		string(model.QuestionDeactivated), id,
		string(model.QuestionRegistered), string(model.QuestionAnswered))
	if err != nil {
		return err
	}
	return tx.Commit()
}

// requireAffected maps a zero-row UPDATE/DELETE onto ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
