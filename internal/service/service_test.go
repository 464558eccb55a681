package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitroom/internal/api"
	"github.com/mmynk/splitroom/internal/auth"
	"github.com/mmynk/splitroom/internal/middleware"
	"github.com/mmynk/splitroom/internal/models"
	"github.com/mmynk/splitroom/internal/storage/sqlite"
)

const adminEmail = "admin@example.com"

// testEnv is a full server over a temp SQLite database, driven through the
// Connect clients with real tokens.
type testEnv struct {
	url      string
	store    *sqlite.SQLiteStore
	auth     *api.AuthServiceClient
	groups   *api.GroupServiceClient
	expenses *api.ExpenseServiceClient
	dues     *api.DueServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("service-test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, bcrypt.MinCost)
	isAdmin := func(email string) bool { return email == adminEmail }

	interceptors := connect.WithInterceptors(
		middleware.Authenticate(jwtManager,
			api.AuthServiceRegisterProcedure,
			api.AuthServiceLoginProcedure,
			api.GroupServiceListGroupsProcedure,
		),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, isAdmin, logger), interceptors))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(store, logger), interceptors))
	mux.Handle(api.NewDueServiceHandler(NewDueService(store, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		url:      server.URL,
		store:    store,
		auth:     api.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:   api.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: api.NewExpenseServiceClient(http.DefaultClient, server.URL),
		dues:     api.NewDueServiceClient(http.DefaultClient, server.URL),
	}
}

// household creates a group straight in the store.
func (e *testEnv) household(t *testing.T, name string) string {
	t.Helper()
	g := &models.Group{Name: name}
	if err := e.store.CreateGroup(context.Background(), g); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return g.ID
}

// session is a registered user and their token.
type session struct {
	User  api.User
	Token string
}

func (e *testEnv) register(t *testing.T, email, name, groupID string) session {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "correct-horse",
		GroupID:     groupID,
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return session{User: resp.Msg.User, Token: resp.Msg.Token}
}

func (e *testEnv) expenseGroup(t *testing.T, s session, name string) string {
	t.Helper()
	resp, err := e.groups.CreateExpenseGroup(context.Background(), authed(s, &api.CreateExpenseGroupRequest{
		Name:        name,
		Description: name + " costs",
	}))
	if err != nil {
		t.Fatalf("CreateExpenseGroup failed: %v", err)
	}
	return resp.Msg.ExpenseGroup.ID
}

// authed wraps msg in a request carrying the session's bearer token.
func authed[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.Token)
	return req
}

func wantCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got success", code)
	}
	if got := connect.CodeOf(err); got != code {
		t.Fatalf("expected %v, got %v (%v)", code, got, err)
	}
}
