package model

import "time"

// Like mirrors the `likes` table.  A unique key on
// (user_id, question_id) guarantees at most one like per pair even
// under concurrent inserts; the service-level existence check only
// provides the friendlier conflict error.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who liked the question.
//  QuestionID – liked question.
//  CreatedAt  – creation timestamp.
type Like struct {
	ID         uint64    // likes.id
	UserID     uint64    // likes.user_id
	QuestionID uint64    // likes.question_id
	CreatedAt  time.Time // likes.created_at
}
