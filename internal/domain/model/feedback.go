//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxFeedbackSubjectLen = 255
	maxFeedbackBodyLen    = 5000
)

// FeedbackStatus tracks the moderation lifecycle of a feedback item.
type FeedbackStatus string

const (
	FeedbackStatusOpen     FeedbackStatus = "open"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

// Valid reports whether the feedback status is supported.
func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackStatusOpen, FeedbackStatusResolved:
		return true
	default:
		return false
	}
}

// Feedback represents a support/feedback item filed by a user.
type Feedback struct {
	ID         string         `json:"id"                    db:"id"`
	UserID     string         `json:"user_id"               db:"user_id"`
	Subject    string         `json:"subject"               db:"subject"`
	Body       string         `json:"body"                  db:"body"`
	Status     FeedbackStatus `json:"status"                db:"status"`
	Reply      *string        `json:"reply,omitempty"       db:"reply"`
	RepliedBy  *string        `json:"replied_by,omitempty"  db:"replied_by"`
	RepliedAt  *time.Time     `json:"replied_at,omitempty"  db:"replied_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt  time.Time      `json:"created_at"            db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"            db:"updated_at"`
}

// CreateFeedbackRequest represents parameters to file a feedback item.
type CreateFeedbackRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate validates CreateFeedbackRequest.
func (r *CreateFeedbackRequest) Validate() error {
	subject := strings.TrimSpace(r.Subject)
	if subject == "" {
		return errors.New("subject is required and cannot be empty")
	}
	if utf8.RuneCountInString(subject) > maxFeedbackSubjectLen {
		return errors.New("subject cannot exceed 255 characters")
	}
	body := strings.TrimSpace(r.Body)
	if body == "" {
		return errors.New("body is required and cannot be empty")
	}
	if utf8.RuneCountInString(body) > maxFeedbackBodyLen {
		return errors.New("body cannot exceed 5000 characters")
	}
	return nil
}

// ReplyFeedbackRequest represents parameters for an admin reply.
type ReplyFeedbackRequest struct {
	Message string `json:"message"`
}

// Validate validates ReplyFeedbackRequest.
func (r *ReplyFeedbackRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Message) > maxFeedbackBodyLen {
		return errors.New("message cannot exceed 5000 characters")
	}
	return nil
}

// FeedbackListOptions controls paging and filtering for listing feedback.
type FeedbackListOptions struct {
	Limit  int
	Offset int
	UserID *string
	Status *FeedbackStatus
}
