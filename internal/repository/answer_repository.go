package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/qna-service/internal/model"
)

// AnswerRepo persists the single answer of a question.  A unique key
// on answers.question_id enforces the 1:1 shape at the storage level;
// creation and deletion pair the answer write with the question
// status transition inside one transaction.
type AnswerRepo struct{ DB *sql.DB }

func NewAnswerRepo(db *sql.DB) *AnswerRepo { return &AnswerRepo{DB: db} }

const answerColumns = "id,question_id,user_id,body,created_at,updated_at"

// GetByQuestion fetches the answer belonging to a question.
func (r *AnswerRepo) GetByQuestion(ctx context.Context, questionID uint64) (model.Answer, error) {
	var a model.Answer
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+answerColumns+" FROM answers WHERE question_id=? LIMIT 1",
		questionID).Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Body, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Answer{}, ErrNotFound
	}
	return a, err
}

// CreateForQuestion inserts the answer and flips the question to
// ANSWERED in one transaction.  The status UPDATE is conditional on
// the question still being REGISTERED, so two concurrent creations
// cannot both succeed: the loser sees zero affected rows (or a
// duplicate-key error on question_id) and gets ErrConflict.
func (r *AnswerRepo) CreateForQuestion(ctx context.Context, a *model.Answer) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE questions SET status=? WHERE id=? AND status=?",
		string(model.QuestionAnswered), a.QuestionID, string(model.QuestionRegistered))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}

	ins, err := tx.ExecContext(ctx,
		"INSERT INTO answers (question_id, user_id, body) VALUES (?,?,?)",
		a.QuestionID, a.UserID, a.Body)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return tx.Commit()
}

// UpdateBody replaces the answer text of a question's answer.
func (r *AnswerRepo) UpdateBody(ctx context.Context, questionID uint64, body string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE answers SET body=? WHERE question_id=?", body, questionID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteForQuestion removes the answer and reverts the question to
// REGISTERED in one transaction.  ErrNotFound when no answer exists.
func (r *AnswerRepo) DeleteForQuestion(ctx context.Context, questionID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM answers WHERE question_id=?", questionID)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE questions SET status=? WHERE id=? AND status=?",
		string(model.QuestionRegistered), questionID, string(model.QuestionAnswered))
	if err != nil {
		return err
	}
	return tx.Commit()
}
