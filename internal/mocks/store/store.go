package store

// Package store contains in-memory implementations of the service-layer
// store interfaces. They mirror the Postgres repos' sentinel errors so
// services under test see the same failure shapes.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/data"
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
)

// Compile-time conformance to the service store interfaces.
var (
	_ service.UserStore      = (*MemoryUserStore)(nil)
	_ service.AdminUserStore = (*MemoryUserStore)(nil)
	_ service.FeedbackStore  = (*MemoryFeedbackStore)(nil)
	_ service.AuditStore     = (*MemoryAuditStore)(nil)
)

// MemoryUserStore is an in-memory user store for unit tests.
type MemoryUserStore struct {
	users  map[string]*model.User
	nextID int
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

// Add stores a user, assigning an ID when empty, and returns the stored copy.
func (m *MemoryUserStore) Add(user model.User) *model.User {
	if user.ID == "" {
		m.nextID++
		user.ID = fmt.Sprintf("user-%d", m.nextID)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	stored := user
	m.users[stored.ID] = &stored
	return &stored
}

// Remove deletes a user by ID, simulating a hard account deletion.
func (m *MemoryUserStore) Remove(id string) {
	delete(m.users, id)
}

func (m *MemoryUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, data.ErrUserNotFound
}

func (m *MemoryUserStore) UpsertFromIdentity(
	_ context.Context,
	identity domainauth.Identity,
	role domainauth.Role,
) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	for _, user := range m.users {
		if user.Email == email {
			user.Name = identity.Name
			user.UpdatedAt = time.Now()
			copied := *user
			return &copied, nil
		}
	}
	return m.Add(model.User{
		Email:     email,
		Name:      identity.Name,
		Role:      role,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}), nil
}

func (m *MemoryUserStore) UpdateRole(_ context.Context, id string, role domainauth.Role) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	copied := *user
	return &copied, nil
}

func (m *MemoryUserStore) SetActive(_ context.Context, id string, active bool) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	user.Active = active
	user.UpdatedAt = time.Now()
	copied := *user
	return &copied, nil
}

func (m *MemoryUserStore) List(_ context.Context, opts *model.UsersListOptions) ([]*model.User, error) {
	if opts == nil {
		opts = &model.UsersListOptions{}
	}
	var out []*model.User
	for _, user := range m.users {
		if opts.Role != nil && user.Role != *opts.Role {
			continue
		}
		if opts.Active != nil && user.Active != *opts.Active {
			continue
		}
		if opts.Q != nil && *opts.Q != "" {
			q := strings.ToLower(*opts.Q)
			if !strings.Contains(strings.ToLower(user.Email), q) &&
				!strings.Contains(strings.ToLower(user.Name), q) {
				continue
			}
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

// MemoryFeedbackStore is an in-memory feedback store for unit tests.
type MemoryFeedbackStore struct {
	items  []*model.Feedback
	nextID int
}

// NewMemoryFeedbackStore creates an empty MemoryFeedbackStore.
func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{}
}

func (m *MemoryFeedbackStore) Create(
	_ context.Context,
	userID string,
	req *model.CreateFeedbackRequest,
) (*model.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.nextID++
	fb := &model.Feedback{
		ID:        fmt.Sprintf("feedback-%d", m.nextID),
		UserID:    userID,
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Body),
		Status:    model.FeedbackStatusOpen,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.items = append(m.items, fb)
	copied := *fb
	return &copied, nil
}

func (m *MemoryFeedbackStore) GetByID(_ context.Context, id string) (*model.Feedback, error) {
	for _, fb := range m.items {
		if fb.ID == id {
			copied := *fb
			return &copied, nil
		}
	}
	return nil, data.ErrFeedbackNotFound
}

func (m *MemoryFeedbackStore) List(_ context.Context, opts *model.FeedbackListOptions) ([]*model.Feedback, error) {
	if opts == nil {
		opts = &model.FeedbackListOptions{}
	}
	var out []*model.Feedback
	// Newest first.
	for i := len(m.items) - 1; i >= 0; i-- {
		fb := m.items[i]
		if opts.UserID != nil && fb.UserID != *opts.UserID {
			continue
		}
		if opts.Status != nil && fb.Status != *opts.Status {
			continue
		}
		copied := *fb
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MemoryFeedbackStore) Reply(_ context.Context, params data.ReplyParams) (*model.Feedback, error) {
	for _, fb := range m.items {
		if fb.ID == params.ID {
			now := time.Now()
			fb.Reply = &params.Message
			fb.RepliedBy = &params.RepliedBy
			fb.RepliedAt = &now
			fb.UpdatedAt = now
			copied := *fb
			return &copied, nil
		}
	}
	return nil, data.ErrFeedbackNotFound
}

func (m *MemoryFeedbackStore) Resolve(_ context.Context, id string) (*model.Feedback, error) {
	for _, fb := range m.items {
		if fb.ID == id {
			now := time.Now()
			fb.Status = model.FeedbackStatusResolved
			if fb.ResolvedAt == nil {
				fb.ResolvedAt = &now
			}
			fb.UpdatedAt = now
			copied := *fb
			return &copied, nil
		}
	}
	return nil, data.ErrFeedbackNotFound
}

// MemoryAuditStore is an in-memory append-only audit store for unit tests.
type MemoryAuditStore struct {
	entries []*model.AuditEntry
	nextID  int

	// AppendErr, when set, makes Append fail to exercise fail-open behavior.
	AppendErr error
}

// NewMemoryAuditStore creates an empty MemoryAuditStore.
func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{}
}

func (m *MemoryAuditStore) Append(_ context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	m.nextID++
	stored := *entry
	stored.ID = fmt.Sprintf("audit-%d", m.nextID)
	stored.CreatedAt = time.Now()
	m.entries = append(m.entries, &stored)
	copied := stored
	return &copied, nil
}

func (m *MemoryAuditStore) List(_ context.Context, opts *model.AuditListOptions) ([]*model.AuditEntry, error) {
	if opts == nil {
		opts = &model.AuditListOptions{}
	}
	var out []*model.AuditEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if opts.Action != nil && entry.Action != *opts.Action {
			continue
		}
		if opts.ActorID != nil && entry.ActorID != *opts.ActorID {
			continue
		}
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

// Entries returns all stored entries in insertion order.
func (m *MemoryAuditStore) Entries() []*model.AuditEntry {
	return m.entries
}

// Len reports the number of stored entries.
func (m *MemoryAuditStore) Len() int { return len(m.entries) }
