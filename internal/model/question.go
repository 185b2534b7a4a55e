package model

import "time"

// QuestionStatus is the lifecycle state of a question.
//
//	REGISTERED --(answer created)--> ANSWERED
//	REGISTERED|ANSWERED --(owner/admin delete)--> DELETED
//	REGISTERED|ANSWERED --(owner quits)--> DEACTIVATED
//
// DELETED and DEACTIVATED are terminal; no transition leaves them and
// no mutation is accepted on a question in either state.
type QuestionStatus string

const (
	QuestionRegistered  QuestionStatus = "REGISTERED"
	QuestionAnswered    QuestionStatus = "ANSWERED"
	QuestionDeleted     QuestionStatus = "DELETED"
	QuestionDeactivated QuestionStatus = "DEACTIVATED"
)

// Terminal reports whether the status accepts no further transitions.
func (s QuestionStatus) Terminal() bool {
	return s == QuestionDeleted || s == QuestionDeactivated
}

// QuestionVisibility controls who may read a question's content.
// SECRET questions are readable only by their owner and admins; in
// list results their title and body are replaced by a placeholder.
type QuestionVisibility string

const (
	QuestionPublic QuestionVisibility = "PUBLIC"
	QuestionSecret QuestionVisibility = "SECRET"
)

// Question mirrors the `questions` table.  A question has at most one
// answer; the answer row holds the foreign key back to the question
// and a unique key on it enforces the 1:1 shape.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the question.
//  Title      – short title.
//  Body       – question content.
//  Status     – lifecycle state, see QuestionStatus.
//  Visibility – PUBLIC or SECRET.
//  ViewCount  – number of successful public reads.
//  LikeCount  – denormalized count of like rows, kept in step
//               transactionally with the likes table.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Question struct {
	ID         uint64             // questions.id
	UserID     uint64             // questions.user_id
	Title      string             // questions.title
	Body       string             // questions.body
	Status     QuestionStatus     // questions.status
	Visibility QuestionVisibility // questions.visibility
	ViewCount  uint64             // questions.view_count
	LikeCount  uint64             // questions.like_count
	CreatedAt  time.Time          // questions.created_at
	UpdatedAt  time.Time          // questions.updated_at
}
