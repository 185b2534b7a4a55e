package service

import (
	"context"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

// LikeService manages likes and the denormalized like counter.  The
// counter is written in the same transaction as the like row, so an
// add followed by a remove always restores the prior count exactly.
type LikeService struct {
	Questions QuestionStore
	Likes     LikeStore
}

func NewLikeService(questions QuestionStore, likes LikeStore) *LikeService {
	return &LikeService{Questions: questions, Likes: likes}
}

// likeTarget fetches the question a like operation targets.  Absent,
// DELETED and DEACTIVATED questions all read as 404: terminal
// questions accept no like traffic in either direction.
func (s *LikeService) likeTarget(ctx context.Context, questionID uint64) (model.Question, error) {
	q, err := s.Questions.GetByID(ctx, questionID)
	if err != nil {
		return model.Question{}, err
	}
	if q.Status.Terminal() {
		return model.Question{}, repository.ErrNotFound
	}
	return q, nil
}

// Add likes a question for the caller.  A second add without an
// intervening remove fails with ErrLikeExists and changes nothing.
func (s *LikeService) Add(ctx context.Context, p auth.Principal, questionID uint64) error {
	q, err := s.likeTarget(ctx, questionID)
	if err != nil {
		return err
	}
	exists, err := s.Likes.Exists(ctx, p.UserID, q.ID)
	if err != nil {
		return err
	}
	if exists {
		return repository.ErrLikeExists
	}
	return s.Likes.Add(ctx, p.UserID, q.ID)
}

// Remove takes back the caller's like.  404 when no like exists for
// the pair.
func (s *LikeService) Remove(ctx context.Context, p auth.Principal, questionID uint64) error {
	q, err := s.likeTarget(ctx, questionID)
	if err != nil {
		return err
	}
	return s.Likes.Remove(ctx, p.UserID, q.ID)
}
