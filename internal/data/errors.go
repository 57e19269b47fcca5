package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// User repository sentinels.
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")

	// Feedback repository sentinels.
	ErrFeedbackNotFound = errors.New("feedback not found")
)
