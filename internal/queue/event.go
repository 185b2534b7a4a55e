// Package queue defines message payloads exchanged over the message
// broker, plus the publisher and the background consumer.
package queue

import "time"

// Queue names.  One durable queue per event type.
const (
	UserRegisteredQueue   = "user.registered"
	QuestionAnsweredQueue = "question.answered"
)

// UserRegisteredEvent is published after a successful registration.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type UserRegisteredEvent struct {
	UserID uint64    `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	At     time.Time `json:"at"`
}

// QuestionAnsweredEvent is published when the admin answers a
// question.
type QuestionAnsweredEvent struct {
	QuestionID uint64    `json:"question_id"`
	AnswerID   uint64    `json:"answer_id"`
	AdminID    uint64    `json:"admin_id"`
	At         time.Time `json:"at"`
}
