package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

func newLikeService() (*LikeService, *QuestionService, *memDB) {
	db := newMemDB()
	questions := &fakeQuestions{db: db}
	return NewLikeService(questions, &fakeLikes{db: db}),
		NewQuestionService(questions, &fakeAnswers{db: db}), db
}

func TestLikeAddAndRemove(t *testing.T) {
	svc, qsvc, db := newLikeService()
	ctx := context.Background()

	q, err := qsvc.Create(ctx, userPrincipal(1), "title", "body", model.QuestionPublic)
	require.NoError(t, err)

	require.NoError(t, svc.Add(ctx, userPrincipal(2), q.ID))
	assert.Equal(t, uint64(1), db.questions[q.ID].LikeCount)

	require.NoError(t, svc.Add(ctx, userPrincipal(3), q.ID))
	assert.Equal(t, uint64(2), db.questions[q.ID].LikeCount)

	// Remove restores exactly the prior counter value.
	require.NoError(t, svc.Remove(ctx, userPrincipal(2), q.ID))
	assert.Equal(t, uint64(1), db.questions[q.ID].LikeCount)
}

func TestLikeAddTwiceConflicts(t *testing.T) {
	svc, qsvc, db := newLikeService()
	ctx := context.Background()

	q, err := qsvc.Create(ctx, userPrincipal(1), "title", "body", model.QuestionPublic)
	require.NoError(t, err)

	require.NoError(t, svc.Add(ctx, userPrincipal(2), q.ID))
	assert.ErrorIs(t, svc.Add(ctx, userPrincipal(2), q.ID), repository.ErrLikeExists)
	assert.Equal(t, uint64(1), db.questions[q.ID].LikeCount)
}

func TestLikeRemoveWithoutLike(t *testing.T) {
	svc, qsvc, _ := newLikeService()
	ctx := context.Background()

	q, err := qsvc.Create(ctx, userPrincipal(1), "title", "body", model.QuestionPublic)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, userPrincipal(2), q.ID), repository.ErrNotFound)
}

func TestLikeTerminalQuestion(t *testing.T) {
	svc, qsvc, _ := newLikeService()
	ctx := context.Background()

	q, err := qsvc.Create(ctx, userPrincipal(1), "title", "body", model.QuestionPublic)
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, userPrincipal(2), q.ID))
	require.NoError(t, qsvc.Delete(ctx, userPrincipal(1), q.ID))

	assert.ErrorIs(t, svc.Add(ctx, userPrincipal(3), q.ID), repository.ErrNotFound)
	assert.ErrorIs(t, svc.Remove(ctx, userPrincipal(2), q.ID), repository.ErrNotFound)
}
