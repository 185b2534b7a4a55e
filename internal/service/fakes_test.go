package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/qna-service/internal/auth"
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

// memDB is the shared in-memory backing for the fake stores.  The
// fakes reproduce the MySQL repositories' observable behaviour,
// including the paired writes (answer creation flips the question,
// quit cascades onto questions, likes move the counter).
type memDB struct {
	users     map[uint64]model.User
	questions map[uint64]model.Question
	answers   map[uint64]model.Answer // keyed by question ID
	likes     map[[2]uint64]bool      // keyed by (user, question)
	nextID    uint64
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[uint64]model.User{},
		questions: map[uint64]model.Question{},
		answers:   map[uint64]model.Answer{},
		likes:     map[[2]uint64]bool{},
	}
}

func (db *memDB) id() uint64 {
	db.nextID++
	return db.nextID
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.db.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = f.db.id()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.db.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.db.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(_ context.Context, page, size int) ([]model.User, error) {
	ids := make([]uint64, 0, len(f.db.users))
	for id := range f.db.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []model.User
	for i, id := range ids {
		if i >= (page-1)*size && len(out) < size {
			out = append(out, f.db.users[id])
		}
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, u model.User) error {
	if _, ok := f.db.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	f.db.users[u.ID] = u
	return nil
}

func (f *fakeUsers) Quit(_ context.Context, id uint64) error {
	u, ok := f.db.users[id]
	if !ok || u.Status != model.UserActive {
		return repository.ErrNotFound
	}
	u.Status = model.UserQuit
	f.db.users[id] = u
	for qid, q := range f.db.questions {
		if q.UserID == id && (q.Status == model.QuestionRegistered || q.Status == model.QuestionAnswered) {
			q.Status = model.QuestionDeactivated
			f.db.questions[qid] = q
		}
	}
	return nil
}

type fakeQuestions struct{ db *memDB }

func (f *fakeQuestions) Create(_ context.Context, q *model.Question) error {
	q.ID = f.db.id()
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	f.db.questions[q.ID] = *q
	return nil
}

func (f *fakeQuestions) GetByID(_ context.Context, id uint64) (model.Question, error) {
	q, ok := f.db.questions[id]
	if !ok {
		return model.Question{}, repository.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestions) List(_ context.Context, page, size int, sortBy repository.ListSort) ([]model.Question, error) {
	var qs []model.Question
	for _, q := range f.db.questions {
		if q.Status == model.QuestionDeleted || q.Status == model.QuestionDeactivated {
			continue
		}
		qs = append(qs, q)
	}
	sort.Slice(qs, func(i, j int) bool {
		a, b := qs[i], qs[j]
		switch sortBy {
		case repository.SortOldest:
			return a.ID < b.ID
		case repository.SortLikes:
			if a.LikeCount != b.LikeCount {
				return a.LikeCount > b.LikeCount
			}
		case repository.SortViews:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
		}
		return a.ID > b.ID
	})
	start := (page - 1) * size
	if start >= len(qs) {
		return nil, nil
	}
	end := start + size
	if end > len(qs) {
		end = len(qs)
	}
	return qs[start:end], nil
}

func (f *fakeQuestions) UpdateContent(_ context.Context, q model.Question) error {
	cur, ok := f.db.questions[q.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title = q.Title
	cur.Body = q.Body
	cur.Visibility = q.Visibility
	cur.UpdatedAt = time.Now()
	f.db.questions[q.ID] = cur
	return nil
}

func (f *fakeQuestions) SetStatus(_ context.Context, id uint64, to model.QuestionStatus, from ...model.QuestionStatus) error {
	q, ok := f.db.questions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if len(from) > 0 {
		matched := false
		for _, s := range from {
			if q.Status == s {
				matched = true
			}
		}
		if !matched {
			return repository.ErrNotFound
		}
	}
	q.Status = to
	f.db.questions[id] = q
	return nil
}

func (f *fakeQuestions) IncrementView(_ context.Context, id uint64) error {
	q, ok := f.db.questions[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.ViewCount++
	f.db.questions[id] = q
	return nil
}

type fakeAnswers struct{ db *memDB }

func (f *fakeAnswers) GetByQuestion(_ context.Context, questionID uint64) (model.Answer, error) {
	a, ok := f.db.answers[questionID]
	if !ok {
		return model.Answer{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAnswers) CreateForQuestion(_ context.Context, a *model.Answer) error {
	q, ok := f.db.questions[a.QuestionID]
	if !ok || q.Status != model.QuestionRegistered {
		return repository.ErrConflict
	}
	if _, dup := f.db.answers[a.QuestionID]; dup {
		return repository.ErrConflict
	}
	q.Status = model.QuestionAnswered
	f.db.questions[q.ID] = q
	a.ID = f.db.id()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.db.answers[a.QuestionID] = *a
	return nil
}

func (f *fakeAnswers) UpdateBody(_ context.Context, questionID uint64, body string) error {
	a, ok := f.db.answers[questionID]
	if !ok {
		return repository.ErrNotFound
	}
	a.Body = body
	a.UpdatedAt = time.Now()
	f.db.answers[questionID] = a
	return nil
}

func (f *fakeAnswers) DeleteForQuestion(_ context.Context, questionID uint64) error {
	if _, ok := f.db.answers[questionID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.db.answers, questionID)
	if q, ok := f.db.questions[questionID]; ok && q.Status == model.QuestionAnswered {
		q.Status = model.QuestionRegistered
		f.db.questions[questionID] = q
	}
	return nil
}

type fakeLikes struct{ db *memDB }

func (f *fakeLikes) Exists(_ context.Context, userID, questionID uint64) (bool, error) {
	return f.db.likes[[2]uint64{userID, questionID}], nil
}

func (f *fakeLikes) Add(_ context.Context, userID, questionID uint64) error {
	key := [2]uint64{userID, questionID}
	if f.db.likes[key] {
		return repository.ErrLikeExists
	}
	f.db.likes[key] = true
	q := f.db.questions[questionID]
	q.LikeCount++
	f.db.questions[questionID] = q
	return nil
}

func (f *fakeLikes) Remove(_ context.Context, userID, questionID uint64) error {
	key := [2]uint64{userID, questionID}
	if !f.db.likes[key] {
		return repository.ErrNotFound
	}
	delete(f.db.likes, key)
	q := f.db.questions[questionID]
	if q.LikeCount > 0 {
		q.LikeCount--
	}
	f.db.questions[questionID] = q
	return nil
}

// fixtures shared by the service tests.

func userPrincipal(id uint64) auth.Principal {
	return auth.Principal{UserID: id, Email: "user@example.com", Roles: []model.Role{model.RoleUser}}
}

func adminPrincipal(id uint64) auth.Principal {
	return auth.Principal{UserID: id, Email: "admin@example.com", Roles: []model.Role{model.RoleAdmin}}
}
