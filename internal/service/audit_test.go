package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	mockstore "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/store"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

func TestAuditService_Record(t *testing.T) {
	store := mockstore.NewMemoryAuditStore()
	svc := service.NewAuditService(store, slog.Default())

	svc.Record(context.Background(), model.AuditEntry{
		Action:  model.AuditActionUserPromote,
		ActorID: "admin-1",
	})

	require.Equal(t, 1, store.Len())
	assert.Equal(t, model.AuditActionUserPromote, store.Entries()[0].Action)
	assert.NotEmpty(t, store.Entries()[0].ID)
}

func TestAuditService_Record_StoreFailureIsSwallowed(t *testing.T) {
	store := mockstore.NewMemoryAuditStore()
	store.AppendErr = assert.AnError
	svc := service.NewAuditService(store, slog.Default())

	// A storage outage must not panic or block the caller.
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), model.AuditEntry{
			Action:  model.AuditActionSessionRevoke,
			ActorID: "admin-1",
		})
	})
	assert.Equal(t, 0, store.Len())
}

func TestAuditService_List(t *testing.T) {
	store := mockstore.NewMemoryAuditStore()
	svc := service.NewAuditService(store, slog.Default())

	svc.Record(context.Background(), model.AuditEntry{Action: "a.first", ActorID: "x"})
	svc.Record(context.Background(), model.AuditEntry{Action: "a.second", ActorID: "y"})

	entries, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, "a.second", entries[0].Action)

	actor := "x"
	entries, err = svc.List(context.Background(), &model.AuditListOptions{ActorID: &actor})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.first", entries[0].Action)
}
