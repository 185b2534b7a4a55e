package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/qna-service/internal/model"
)

// QuestionRepo persists questions in the 'questions' table.  Status
// transitions that pair with other writes (answer creation, likes,
// quit cascades) live in the repositories owning those writes so each
// operation stays one transaction.
type QuestionRepo struct{ DB *sql.DB }

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{DB: db} }

const questionColumns = "id,user_id,title,body,status,visibility,view_count,like_count,created_at,updated_at"

// ListSort names the supported orderings for question listing.  The
// zero value sorts by recency descending.
type ListSort string

const (
	SortNewest   ListSort = "newest"
	SortOldest   ListSort = "oldest"
	SortLikes    ListSort = "likes"
	SortLikesAsc ListSort = "likes_asc"
	SortViews    ListSort = "views"
	SortViewsAsc ListSort = "views_asc"
)

// orderBy maps a ListSort onto a fixed ORDER BY clause.  Only known
// values are mapped so no caller input ever reaches the SQL string.
func orderBy(sort ListSort) string {
	switch sort {
	case SortOldest:
		return "id ASC"
	case SortLikes:
		return "like_count DESC, id DESC"
	case SortLikesAsc:
		return "like_count ASC, id DESC"
	case SortViews:
		return "view_count DESC, id DESC"
	case SortViewsAsc:
		return "view_count ASC, id DESC"
	default:
		return "id DESC"
	}
}

// Create inserts a question and fills in its generated ID.
func (r *QuestionRepo) Create(ctx context.Context, q *model.Question) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO questions (user_id, title, body, status, visibility) VALUES (?,?,?,?,?)",
		q.UserID, q.Title, q.Body, string(q.Status), string(q.Visibility))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = uint64(id)
	return nil
}

// GetByID fetches a question regardless of status; the service layer
// decides how soft-deleted rows surface to callers.
func (r *QuestionRepo) GetByID(ctx context.Context, id uint64) (model.Question, error) {
	var q model.Question
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id=? LIMIT 1", id).Scan(
		&q.ID, &q.UserID, &q.Title, &q.Body, &q.Status, &q.Visibility,
		&q.ViewCount, &q.LikeCount, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Question{}, ErrNotFound
	}
	return q, err
}

// List returns a page of questions excluding DELETED and DEACTIVATED
// rows.  page is 1-based.
func (r *QuestionRepo) List(ctx context.Context, page, size int, sort ListSort) ([]model.Question, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE status NOT IN (?,?) ORDER BY "+orderBy(sort)+" LIMIT ? OFFSET ?",
		string(model.QuestionDeleted), string(model.QuestionDeactivated),
		size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Body, &q.Status, &q.Visibility,
			&q.ViewCount, &q.LikeCount, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// UpdateContent writes the editable fields of a question.
func (r *QuestionRepo) UpdateContent(ctx context.Context, q model.Question) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE questions SET title=?, body=?, visibility=? WHERE id=?",
		q.Title, q.Body, string(q.Visibility), q.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetStatus transitions a question's status.  from restricts the
// transition to questions currently in one of the given states so a
// concurrent transition cannot be overwritten; zero rows affected
// surfaces as ErrNotFound.
func (r *QuestionRepo) SetStatus(ctx context.Context, id uint64, to model.QuestionStatus, from ...model.QuestionStatus) error {
	if len(from) == 0 {
		res, err := r.DB.ExecContext(ctx, "UPDATE questions SET status=? WHERE id=?", string(to), id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	}
	query := "UPDATE questions SET status=? WHERE id=? AND status IN (?" +
		repeat(",?", len(from)-1) + ")"
	args := []interface{}{string(to), id}
	for _, s := range from {
		args = append(args, string(s))
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// IncrementView bumps the view counter by one in a single atomic
// UPDATE.  Only non-secret reads call this.
func (r *QuestionRepo) IncrementView(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE questions SET view_count=view_count+1 WHERE id=?", id)
	return err
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
