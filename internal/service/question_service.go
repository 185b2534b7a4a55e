package service

import (
	"context"
	"errors"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

// SecretPlaceholder replaces the title and body of SECRET questions
// in list results, so list consumers always receive a well-formed
// item without learning anything about the content.
const SecretPlaceholder = "This question is private."

// QuestionService owns the question lifecycle: creation, visibility
// enforcement, status transitions and ownership-gated mutation.
type QuestionService struct {
	Questions QuestionStore
	Answers   AnswerStore
}

func NewQuestionService(questions QuestionStore, answers AnswerStore) *QuestionService {
	return &QuestionService{Questions: questions, Answers: answers}
}

// QuestionDetail is a question together with its answer, when one
// exists.
type QuestionDetail struct {
	Question model.Question
	Answer   *model.Answer
}

// Create registers a new question owned by the caller.  Only plain
// users post questions; the admin answers them.
func (s *QuestionService) Create(ctx context.Context, p auth.Principal, title, body string, visibility model.QuestionVisibility) (model.Question, error) {
	if err := auth.RequireUser(p); err != nil {
		return model.Question{}, err
	}
	if visibility == "" {
		visibility = model.QuestionPublic
	}
	q := model.Question{
		UserID:     p.UserID,
		Title:      title,
		Body:       body,
		Status:     model.QuestionRegistered,
		Visibility: visibility,
	}
	if err := s.Questions.Create(ctx, &q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// Get reads one question.  DELETED questions are gone (404).  SECRET
// questions are readable only by their owner or an admin.  A
// successful read of a non-secret question bumps the view counter;
// secret reads never do, so access patterns to private threads stay
// unobservable.
func (s *QuestionService) Get(ctx context.Context, p auth.Principal, id uint64) (QuestionDetail, error) {
	q, err := s.Questions.GetByID(ctx, id)
	if err != nil {
		return QuestionDetail{}, err
	}
	if q.Status == model.QuestionDeleted {
		return QuestionDetail{}, repository.ErrNotFound
	}
	if q.Visibility == model.QuestionSecret {
		if err := auth.RequireOwnerOrRole(p, q.UserID, model.RoleAdmin); err != nil {
			return QuestionDetail{}, err
		}
	} else {
		if err := s.Questions.IncrementView(ctx, q.ID); err != nil {
			return QuestionDetail{}, err
		}
		q.ViewCount++
	}
	detail := QuestionDetail{Question: q}
	a, err := s.Answers.GetByQuestion(ctx, q.ID)
	switch {
	case err == nil:
		detail.Answer = &a
	case errors.Is(err, repository.ErrNotFound):
		// no answer yet
	default:
		return QuestionDetail{}, err
	}
	return detail, nil
}

// List pages through questions, excluding DELETED and DEACTIVATED
// rows.  SECRET rows keep their position and shape but their title
// and body are replaced by the placeholder.
func (s *QuestionService) List(ctx context.Context, page, size int, sort repository.ListSort) ([]model.Question, error) {
	qs, err := s.Questions.List(ctx, clampPage(page), clampSize(size), sort)
	if err != nil {
		return nil, err
	}
	for i := range qs {
		if qs[i].Visibility == model.QuestionSecret {
			qs[i].Title = SecretPlaceholder
			qs[i].Body = SecretPlaceholder
		}
	}
	return qs, nil
}

// QuestionPatch carries the optional fields of an update; nil fields
// are left unchanged.
type QuestionPatch struct {
	Title      *string
	Body       *string
	Visibility *model.QuestionVisibility
}

// Update edits a question's content.  Only the owner may edit, and
// only while the question is still REGISTERED: once answered or in a
// terminal state the content is frozen.
func (s *QuestionService) Update(ctx context.Context, p auth.Principal, id uint64, patch QuestionPatch) (model.Question, error) {
	q, err := s.Questions.GetByID(ctx, id)
	if err != nil {
		return model.Question{}, err
	}
	if q.Status == model.QuestionDeleted {
		return model.Question{}, repository.ErrNotFound
	}
	if err := auth.RequireSelf(p, q.UserID); err != nil {
		return model.Question{}, err
	}
	if q.Status != model.QuestionRegistered {
		return model.Question{}, repository.ErrForbidden
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Body != nil {
		q.Body = *patch.Body
	}
	if patch.Visibility != nil {
		q.Visibility = *patch.Visibility
	}
	if err := s.Questions.UpdateContent(ctx, q); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// Delete soft-deletes a question (the row is retained).  Allowed for
// the owner or an admin; terminal questions cannot transition again.
func (s *QuestionService) Delete(ctx context.Context, p auth.Principal, id uint64) error {
	q, err := s.Questions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == model.QuestionDeleted {
		return repository.ErrNotFound
	}
	if err := auth.RequireOwnerOrRole(p, q.UserID, model.RoleAdmin); err != nil {
		return err
	}
	return s.Questions.SetStatus(ctx, id, model.QuestionDeleted,
		model.QuestionRegistered, model.QuestionAnswered)
}
