package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	mockauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/auth"
	mockstore "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/store"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

type adminFixture struct {
	svc      *service.AdminService
	users    *mockstore.MemoryUserStore
	sessions *mockauth.MemorySessionStore
	feedback *mockstore.MemoryFeedbackStore
	audit    *mockstore.MemoryAuditStore
	actor    *model.User
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	users := mockstore.NewMemoryUserStore()
	sessions := mockauth.NewMemorySessionStore()
	feedback := mockstore.NewMemoryFeedbackStore()
	audit := mockstore.NewMemoryAuditStore()
	actor := users.Add(model.User{Email: "admin@example.com", Role: domainauth.RoleAdmin, Active: true})

	svc := service.NewAdminService(service.AdminServiceOptions{
		Users:    users,
		Sessions: sessions,
		Feedback: feedback,
		Audit:    service.NewAuditService(audit, slog.Default()),
	})

	return &adminFixture{
		svc:      svc,
		users:    users,
		sessions: sessions,
		feedback: feedback,
		audit:    audit,
		actor:    actor,
	}
}

func TestAdminService_PromoteUser(t *testing.T) {
	f := newAdminFixture(t)
	target := f.users.Add(model.User{Email: "u@example.com", Role: domainauth.RoleUser, Active: true})

	user, err := f.svc.PromoteUser(context.Background(), f.actor.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, user.Role)

	require.Equal(t, 1, f.audit.Len())
	entry := f.audit.Entries()[0]
	assert.Equal(t, model.AuditActionUserPromote, entry.Action)
	assert.Equal(t, f.actor.ID, entry.ActorID)
	require.NotNil(t, entry.TargetID)
	assert.Equal(t, target.ID, *entry.TargetID)
}

func TestAdminService_PromoteUser_NotFound(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.PromoteUser(context.Background(), f.actor.ID, "ghost")
	assert.ErrorIs(t, err, data.ErrUserNotFound)

	// Failed mutations leave no audit trail.
	assert.Equal(t, 0, f.audit.Len())
}

func TestAdminService_DemoteUser(t *testing.T) {
	f := newAdminFixture(t)
	target := f.users.Add(model.User{Email: "a2@example.com", Role: domainauth.RoleAdmin, Active: true})

	user, err := f.svc.DemoteUser(context.Background(), f.actor.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleUser, user.Role)

	require.Equal(t, 1, f.audit.Len())
	assert.Equal(t, model.AuditActionUserDemote, f.audit.Entries()[0].Action)
}

func TestAdminService_DeactivateAndReactivateUser(t *testing.T) {
	f := newAdminFixture(t)
	target := f.users.Add(model.User{Email: "u@example.com", Role: domainauth.RoleUser, Active: true})

	user, err := f.svc.DeactivateUser(context.Background(), f.actor.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, user.Active)

	user, err = f.svc.ReactivateUser(context.Background(), f.actor.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, user.Active)

	require.Equal(t, 2, f.audit.Len())
	assert.Equal(t, model.AuditActionUserDeactivate, f.audit.Entries()[0].Action)
	assert.Equal(t, model.AuditActionUserReactivate, f.audit.Entries()[1].Action)
}

func TestAdminService_GetUserDetail(t *testing.T) {
	f := newAdminFixture(t)
	target := f.users.Add(model.User{Email: "u@example.com", Role: domainauth.RoleUser, Active: true})
	_, err := f.feedback.Create(context.Background(), target.ID, &model.CreateFeedbackRequest{
		Subject: "Broken scheduling", Body: "Posts are not going out.",
	})
	require.NoError(t, err)

	detail, err := f.svc.GetUserDetail(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, detail.User.ID)
	require.Len(t, detail.Feedback, 1)
	assert.Equal(t, "Broken scheduling", detail.Feedback[0].Subject)
}

func TestAdminService_GetUserDetail_NotFound(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.GetUserDetail(context.Background(), "ghost")
	assert.ErrorIs(t, err, data.ErrUserNotFound)
}

func TestAdminService_ListUserSessions(t *testing.T) {
	f := newAdminFixture(t)
	target := f.users.Add(model.User{Email: "u@example.com", Role: domainauth.RoleUser, Active: true})

	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		ID: "s1", UserID: target.ID, ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		ID: "s2", UserID: target.ID, ExpiresAt: time.Now().Add(time.Hour),
	}))

	sessions, err := f.svc.ListUserSessions(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestAdminService_ListUserSessions_UnknownUser(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.ListUserSessions(context.Background(), "ghost")
	assert.ErrorIs(t, err, data.ErrUserNotFound)
}

func TestAdminService_RevokeSession(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		ID: "doomed", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, f.svc.RevokeSession(context.Background(), f.actor.ID, "doomed"))

	_, err := f.sessions.Get(context.Background(), "doomed")
	assert.Error(t, err)

	require.Equal(t, 1, f.audit.Len())
	assert.Equal(t, model.AuditActionSessionRevoke, f.audit.Entries()[0].Action)
}

func TestAdminService_RevokeSession_DoubleRevoke(t *testing.T) {
	f := newAdminFixture(t)
	require.NoError(t, f.sessions.Save(context.Background(), domainauth.Session{
		ID: "doomed", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, f.svc.RevokeSession(context.Background(), f.actor.ID, "doomed"))
	// The end state is identical, so the second revoke also succeeds.
	require.NoError(t, f.svc.RevokeSession(context.Background(), f.actor.ID, "doomed"))
}

func TestAdminService_RevokeSession_Missing(t *testing.T) {
	f := newAdminFixture(t)

	err := f.svc.RevokeSession(context.Background(), f.actor.ID, "never-existed")
	assert.NoError(t, err)
}

func TestAdminService_ReplyFeedback(t *testing.T) {
	f := newAdminFixture(t)
	fb, err := f.feedback.Create(context.Background(), "user-1", &model.CreateFeedbackRequest{
		Subject: "Question", Body: "How do I schedule posts?",
	})
	require.NoError(t, err)

	replied, err := f.svc.ReplyFeedback(context.Background(), f.actor.ID, fb.ID, "Use the calendar view.")
	require.NoError(t, err)
	require.NotNil(t, replied.Reply)
	assert.Equal(t, "Use the calendar view.", *replied.Reply)
	require.NotNil(t, replied.RepliedBy)
	assert.Equal(t, f.actor.ID, *replied.RepliedBy)

	require.Equal(t, 1, f.audit.Len())
	assert.Equal(t, model.AuditActionFeedbackReply, f.audit.Entries()[0].Action)
}

func TestAdminService_ReplyFeedback_NotFound(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.ReplyFeedback(context.Background(), f.actor.ID, "ghost", "hello")
	assert.ErrorIs(t, err, data.ErrFeedbackNotFound)
	assert.Equal(t, 0, f.audit.Len())
}

func TestAdminService_ResolveFeedback_Idempotent(t *testing.T) {
	f := newAdminFixture(t)
	fb, err := f.feedback.Create(context.Background(), "user-1", &model.CreateFeedbackRequest{
		Subject: "Bug", Body: "Dashboard is blank.",
	})
	require.NoError(t, err)

	first, err := f.svc.ResolveFeedback(context.Background(), f.actor.ID, fb.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackStatusResolved, first.Status)
	require.NotNil(t, first.ResolvedAt)

	second, err := f.svc.ResolveFeedback(context.Background(), f.actor.ID, fb.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ResolvedAt)
	assert.Equal(t, *first.ResolvedAt, *second.ResolvedAt)
}

func TestAdminService_ListUsers(t *testing.T) {
	f := newAdminFixture(t)
	f.users.Add(model.User{Email: "u1@example.com", Role: domainauth.RoleUser, Active: true})
	f.users.Add(model.User{Email: "u2@example.com", Role: domainauth.RoleUser, Active: true})

	role := domainauth.RoleUser
	usersList, err := f.svc.ListUsers(context.Background(), &model.UsersListOptions{Role: &role})
	require.NoError(t, err)
	assert.Len(t, usersList, 2)
}
