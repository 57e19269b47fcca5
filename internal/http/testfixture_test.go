package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/model"
	mockauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/auth"
	mockstore "github.com/DKiloDesigns/CreatorFlow-sub004/internal/mocks/store"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/service"
	"github.com/DKiloDesigns/CreatorFlow-sub004/internal/token"
)

const testTokenSecret = "0123456789abcdef0123456789abcdef"

// routerFixture wires the full router over in-memory stores so tests cover
// the same path production requests take.
type routerFixture struct {
	handler  http.Handler
	users    *mockstore.MemoryUserStore
	sessions *mockauth.MemorySessionStore
	feedback *mockstore.MemoryFeedbackStore
	audit    *mockstore.MemoryAuditStore
	codec    *token.Codec
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	codec, err := token.NewCodec(testTokenSecret, "creatorflow")
	require.NoError(t, err)

	users := mockstore.NewMemoryUserStore()
	sessions := mockauth.NewMemorySessionStore()
	feedback := mockstore.NewMemoryFeedbackStore()
	audit := mockstore.NewMemoryAuditStore()

	logger := slog.Default()
	auditSvc := service.NewAuditService(audit, logger)
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider:   mockauth.NewMockAuthProvider(),
		Sessions:   sessions,
		Roles:      mockauth.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
		Users:      users,
		Tokens:     codec,
		SessionTTL: time.Hour,
	})

	handler := NewRouter(RouterServices{
		Auth:  authSvc,
		Authz: service.NewAuthorizerService(users),
		Admin: service.NewAdminService(service.AdminServiceOptions{
			Users:    users,
			Sessions: sessions,
			Feedback: feedback,
			Audit:    auditSvc,
		}),
		Audit:         auditSvc,
		Impersonation: service.NewImpersonationService(users, auditSvc),
		Feedback:      service.NewFeedbackService(feedback),
		Users:         users,
		Logger:        logger,
	})

	return &routerFixture{
		handler:  handler,
		users:    users,
		sessions: sessions,
		feedback: feedback,
		audit:    audit,
		codec:    codec,
	}
}

// addUser stores an active user with the given role.
func (f *routerFixture) addUser(email string, role domainauth.Role) *model.User {
	return f.users.Add(model.User{Email: email, Name: "Test " + email, Role: role, Active: true})
}

// addUserWithPassword stores an active user with a bcrypt password hash.
func (f *routerFixture) addUserWithPassword(t *testing.T, email, password string, role domainauth.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	return f.users.Add(model.User{Email: email, PasswordHash: &h, Role: role, Active: true})
}

// sessionCookieFor persists a session for the user and returns its signed
// token as a request cookie.
func (f *routerFixture) sessionCookieFor(t *testing.T, user *model.User) *http.Cookie {
	t.Helper()

	session := domainauth.Session{
		ID:        "sess-" + user.ID,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(t.Context(), session))

	raw, err := f.codec.Mint(session)
	require.NoError(t, err)

	return &http.Cookie{Name: SessionCookieName, Value: raw}
}

// requestParams groups arguments for do.
type requestParams struct {
	Method  string
	Path    string
	Body    any
	Cookies []*http.Cookie
}

// do runs a request through the router and returns the recorder.
func (f *routerFixture) do(t *testing.T, p requestParams) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if p.Body != nil {
		raw, err := json.Marshal(p.Body)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(p.Method, p.Path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range p.Cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// responseCookie finds a Set-Cookie entry by name, or nil.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
