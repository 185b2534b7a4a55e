package model

import "time"

// Answer mirrors the `answers` table.  At most one answer exists per
// question (unique key on question_id); it is written only by an
// admin account and only while the question is not already ANSWERED.
//
// Fields:
//  ID         – primary key identifier.
//  QuestionID – owning question (unique, the 1:1 side).
//  UserID     – admin author of the answer.
//  Body       – answer content.  For SECRET questions this is a
//               placeholder rather than the submitted text.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Answer struct {
	ID         uint64    // answers.id
	QuestionID uint64    // answers.question_id
	UserID     uint64    // answers.user_id
	Body       string    // answers.body
	CreatedAt  time.Time // answers.created_at
	UpdatedAt  time.Time // answers.updated_at
}
