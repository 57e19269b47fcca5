package service

import (
	"context"
	"fmt"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
)

// FeedbackService handles user-facing feedback submission and listing.
type FeedbackService struct {
	store FeedbackStore
}

// NewFeedbackService constructs a new FeedbackService.
func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// Submit files a new feedback item for the given user.
func (s *FeedbackService) Submit(ctx context.Context, userID string, req *model.CreateFeedbackRequest) (*model.Feedback, error) {
	fb, err := s.store.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// ListForUser retrieves the user's own feedback, newest first.
func (s *FeedbackService) ListForUser(ctx context.Context, userID string) ([]*model.Feedback, error) {
	items, err := s.store.List(ctx, &model.FeedbackListOptions{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list feedback for user: %w", err)
	}
	if items == nil {
		items = []*model.Feedback{}
	}
	return items, nil
}
