package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	mockstore "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/store"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

func TestFeedbackService_Submit(t *testing.T) {
	store := mockstore.NewMemoryFeedbackStore()
	svc := service.NewFeedbackService(store)

	fb, err := svc.Submit(context.Background(), "user-1", &model.CreateFeedbackRequest{
		Subject: "Feature request",
		Body:    "Please add bulk scheduling.",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", fb.UserID)
	assert.Equal(t, model.FeedbackStatusOpen, fb.Status)
}

func TestFeedbackService_Submit_Invalid(t *testing.T) {
	svc := service.NewFeedbackService(mockstore.NewMemoryFeedbackStore())

	_, err := svc.Submit(context.Background(), "user-1", &model.CreateFeedbackRequest{Subject: "", Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject is required")
}

func TestFeedbackService_ListForUser(t *testing.T) {
	store := mockstore.NewMemoryFeedbackStore()
	svc := service.NewFeedbackService(store)

	_, err := svc.Submit(context.Background(), "user-1", &model.CreateFeedbackRequest{Subject: "One", Body: "b"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "user-2", &model.CreateFeedbackRequest{Subject: "Two", Body: "b"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), "user-1", &model.CreateFeedbackRequest{Subject: "Three", Body: "b"})
	require.NoError(t, err)

	items, err := svc.ListForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Newest first.
	assert.Equal(t, "Three", items[0].Subject)
	assert.Equal(t, "One", items[1].Subject)
}

func TestFeedbackService_ListForUser_Empty(t *testing.T) {
	svc := service.NewFeedbackService(mockstore.NewMemoryFeedbackStore())

	items, err := svc.ListForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
