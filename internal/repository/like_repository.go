package repository

import (
	"context"
	"database/sql"
	"strings"
)

// LikeRepo persists likes and keeps questions.like_count in step with
// the like rows.  Both writes of each operation run in a single
// transaction, and the unique key on (user_id, question_id) makes the
// existence pre-check safe against concurrent inserts: the second of
// two racing adds fails with a duplicate-key error, not a double
// increment.
type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

// Exists reports whether the (user, question) pair already has a like.
func (r *LikeRepo) Exists(ctx context.Context, userID, questionID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM likes WHERE user_id=? AND question_id=? LIMIT 1",
		userID, questionID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Add inserts a like row and increments the question's counter.
// A duplicate pair returns ErrLikeExists and leaves the counter
// untouched.
func (r *LikeRepo) Add(ctx context.Context, userID, questionID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO likes (user_id, question_id) VALUES (?,?)",
		userID, questionID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrLikeExists
		}
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE questions SET like_count=like_count+1 WHERE id=?", questionID); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove deletes the like row and decrements the counter, floored at
// zero.  ErrNotFound when the pair has no like.
func (r *LikeRepo) Remove(ctx context.Context, userID, questionID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM likes WHERE user_id=? AND question_id=?", userID, questionID)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE questions SET like_count=CASE WHEN like_count>0 THEN like_count-1 ELSE 0 END WHERE id=?",
		questionID); err != nil {
		return err
	}
	return tx.Commit()
}
