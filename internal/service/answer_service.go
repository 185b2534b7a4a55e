package service

import (
	"context"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

// AnswerPlaceholder is stored instead of the submitted body when the
// answered question is SECRET: the privacy of a secret thread extends
// to its answer.
const AnswerPlaceholder = "This answer is private."

// AnswerService manages the single admin-authored answer of a
// question.
type AnswerService struct {
	Questions QuestionStore
	Answers   AnswerStore
}

func NewAnswerService(questions QuestionStore, answers AnswerStore) *AnswerService {
	return &AnswerService{Questions: questions, Answers: answers}
}

// loadAnswerable fetches the question an answer operation targets.
// Absent and DELETED questions are 404; DEACTIVATED questions are
// terminal and conflict with any answer write.
func (s *AnswerService) loadAnswerable(ctx context.Context, id uint64) (model.Question, error) {
	q, err := s.Questions.GetByID(ctx, id)
	if err != nil {
		return model.Question{}, err
	}
	if q.Status == model.QuestionDeleted {
		return model.Question{}, repository.ErrNotFound
	}
	return q, nil
}

// Create writes the question's answer and flips it to ANSWERED in one
// unit of work.  Admin only.  A question that is already ANSWERED (or
// DEACTIVATED) conflicts and the existing answer is left untouched.
func (s *AnswerService) Create(ctx context.Context, p auth.Principal, questionID uint64, body string) (model.Answer, error) {
	if err := auth.RequireRole(p, model.RoleAdmin); err != nil {
		return model.Answer{}, err
	}
	q, err := s.loadAnswerable(ctx, questionID)
	if err != nil {
		return model.Answer{}, err
	}
	if q.Status != model.QuestionRegistered {
		return model.Answer{}, repository.ErrConflict
	}
	if q.Visibility == model.QuestionSecret {
		body = AnswerPlaceholder
	}
	a := model.Answer{QuestionID: q.ID, UserID: p.UserID, Body: body}
	if err := s.Answers.CreateForQuestion(ctx, &a); err != nil {
		return model.Answer{}, err
	}
	return a, nil
}

// Update replaces the answer body.  Admin only; 404 when the question
// has no answer.  Secret questions keep the placeholder body.
func (s *AnswerService) Update(ctx context.Context, p auth.Principal, questionID uint64, body string) (model.Answer, error) {
	if err := auth.RequireRole(p, model.RoleAdmin); err != nil {
		return model.Answer{}, err
	}
	q, err := s.loadAnswerable(ctx, questionID)
	if err != nil {
		return model.Answer{}, err
	}
	if q.Visibility == model.QuestionSecret {
		body = AnswerPlaceholder
	}
	if err := s.Answers.UpdateBody(ctx, questionID, body); err != nil {
		return model.Answer{}, err
	}
	return s.Answers.GetByQuestion(ctx, questionID)
}

// Delete removes the answer and reverts the question to REGISTERED in
// one unit of work.  Admin only; 404 when no answer exists.
func (s *AnswerService) Delete(ctx context.Context, p auth.Principal, questionID uint64) error {
	if err := auth.RequireRole(p, model.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.loadAnswerable(ctx, questionID); err != nil {
		return err
	}
	return s.Answers.DeleteForQuestion(ctx, questionID)
}
