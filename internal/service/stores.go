// Package service implements the business rules of the Q&A system:
// who may create, read, mutate and transition users, questions,
// answers and likes.  Services depend on narrow store interfaces and
// never touch SQL directly; the repository package provides the MySQL
// implementations and the tests provide in-memory fakes.
package service

import (
	"context"

	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context, page, size int) ([]model.User, error)
	Update(ctx context.Context, u model.User) error
	Quit(ctx context.Context, id uint64) error
}

// QuestionStore is the persistence surface the question service needs.
type QuestionStore interface {
	Create(ctx context.Context, q *model.Question) error
	GetByID(ctx context.Context, id uint64) (model.Question, error)
	List(ctx context.Context, page, size int, sort repository.ListSort) ([]model.Question, error)
	UpdateContent(ctx context.Context, q model.Question) error
	SetStatus(ctx context.Context, id uint64, to model.QuestionStatus, from ...model.QuestionStatus) error
	IncrementView(ctx context.Context, id uint64) error
}

// AnswerStore is the persistence surface the answer service needs.
// CreateForQuestion and DeleteForQuestion are atomic: they pair the
// answer write with the question status transition.
type AnswerStore interface {
	GetByQuestion(ctx context.Context, questionID uint64) (model.Answer, error)
	CreateForQuestion(ctx context.Context, a *model.Answer) error
	UpdateBody(ctx context.Context, questionID uint64, body string) error
	DeleteForQuestion(ctx context.Context, questionID uint64) error
}

// LikeStore is the persistence surface the like service needs.  Add
// and Remove keep the like row and the denormalized counter in one
// unit of work.
type LikeStore interface {
	Exists(ctx context.Context, userID, questionID uint64) (bool, error)
	Add(ctx context.Context, userID, questionID uint64) error
	Remove(ctx context.Context, userID, questionID uint64) error
}
