package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillera/internal/delivery/http/middleware"
	"skillera/internal/domain/match"
	"skillera/internal/domain/matching"
	"skillera/internal/domain/session"
	"skillera/internal/domain/user"
	"skillera/internal/pkg/jwt"
	"skillera/internal/pkg/response"
	"skillera/internal/usecase"
	ucauth "skillera/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	return app
}

// asUser stands in for the JWT middleware.
func asUser(id uuid.UUID) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(middleware.CtxUserIDKey, id)
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, envelope) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, env
}

type fakeAuthUC struct {
	registered []ucauth.RegisterInput
	err        error
}

func (f *fakeAuthUC) Register(_ context.Context, in ucauth.RegisterInput) (usecase.AuthResult, error) {
	f.registered = append(f.registered, in)
	if f.err != nil {
		return usecase.AuthResult{}, f.err
	}
	return usecase.AuthResult{
		User:   user.User{ID: uuid.New(), Email: in.Email, Name: in.Name},
		Tokens: jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 15 * time.Minute},
	}, nil
}

func (f *fakeAuthUC) Login(context.Context, ucauth.LoginInput) (usecase.AuthResult, error) {
	return usecase.AuthResult{}, ucauth.ErrInvalidCredentials
}

func (f *fakeAuthUC) Refresh(context.Context, string) (jwt.TokenPair, error) {
	return jwt.TokenPair{}, usecase.ErrRefreshTokenExpired
}

func (f *fakeAuthUC) Me(context.Context, uuid.UUID) (user.Profile, error) {
	return user.Profile{}, nil
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		ucErr      error
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "created",
			body:       map[string]any{"name": "Emma", "email": "emma@example.com", "password": "password123"},
			wantStatus: fiber.StatusCreated,
			wantCalls:  1,
		},
		{
			name:       "short password fails validation",
			body:       map[string]any{"name": "Emma", "email": "emma@example.com", "password": "short"},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "missing email fails validation",
			body:       map[string]any{"name": "Emma", "password": "password123"},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			body:       map[string]any{"name": "Emma", "email": "emma@example.com", "password": "password123"},
			ucErr:      ucauth.ErrEmailAlreadyRegistered,
			wantStatus: fiber.StatusConflict,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAuthUC{err: tt.ucErr}
			app := newTestApp()
			NewAuthHandler(uc, nil).RegisterRoutes(app.Group("/auth"), asUser(uuid.New()))

			resp, env := doJSON(t, app, http.MethodPost, "/auth/signup", tt.body)
			if resp.StatusCode != tt.wantStatus || env.Status != tt.wantStatus {
				t.Fatalf("expected %d, got http=%d envelope=%d (%s)", tt.wantStatus, resp.StatusCode, env.Status, env.Message)
			}
			if len(uc.registered) != tt.wantCalls {
				t.Fatalf("expected %d usecase calls, got %d", tt.wantCalls, len(uc.registered))
			}
		})
	}
}

func TestAuthHandler_SignupValidationReportsFields(t *testing.T) {
	app := newTestApp()
	NewAuthHandler(&fakeAuthUC{}, nil).RegisterRoutes(app.Group("/auth"), asUser(uuid.New()))

	_, env := doJSON(t, app, http.MethodPost, "/auth/signup", map[string]any{"name": "Emma", "email": "not-an-email", "password": "password123"})

	var fields map[string]string
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if _, ok := fields["email"]; !ok {
		t.Fatalf("expected email field error, got %v", fields)
	}
}

func TestAuthHandler_LoginAndRefreshErrors(t *testing.T) {
	app := newTestApp()
	NewAuthHandler(&fakeAuthUC{}, nil).RegisterRoutes(app.Group("/auth"), asUser(uuid.New()))

	resp, _ := doJSON(t, app, http.MethodPost, "/auth/login", map[string]any{"email": "a@b.c", "password": "nope"})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("login: expected 401, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/refresh", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("refresh without token: expected 401, got %d", resp.StatusCode)
	}
}

type fakeMatchingUC struct {
	getErr    error
	createRes usecase.CreateMatchResult
	deckSeen  matching.DeckFilter
}

func (f *fakeMatchingUC) Deck(_ context.Context, _ uuid.UUID, flt matching.DeckFilter) ([]usecase.DeckItem, error) {
	f.deckSeen = flt
	return nil, nil
}

func (f *fakeMatchingUC) CreateMatch(context.Context, uuid.UUID, uuid.UUID) (usecase.CreateMatchResult, error) {
	return f.createRes, nil
}

func (f *fakeMatchingUC) ListMatches(context.Context, uuid.UUID) ([]usecase.MatchView, error) {
	return nil, nil
}

func (f *fakeMatchingUC) GetMatch(context.Context, uuid.UUID, uuid.UUID) (usecase.MatchDetail, error) {
	return usecase.MatchDetail{}, f.getErr
}

func TestMatchHandler_GetMapsErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "outsider", path: "/matches/" + uuid.NewString(), err: usecase.ErrForbidden, wantStatus: fiber.StatusForbidden},
		{name: "unknown", path: "/matches/" + uuid.NewString(), err: usecase.ErrMatchNotFound, wantStatus: fiber.StatusNotFound},
		{name: "unexpected", path: "/matches/" + uuid.NewString(), err: errors.New("boom"), wantStatus: fiber.StatusInternalServerError},
		{name: "bad id", path: "/matches/not-a-uuid", wantStatus: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			NewMatchHandler(&fakeMatchingUC{getErr: tt.err}).RegisterRoutes(app.Group("/matches", asUser(uuid.New())))

			resp, env := doJSON(t, app, http.MethodGet, tt.path, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, resp.StatusCode, env.Message)
			}
			if tt.wantStatus == fiber.StatusInternalServerError && env.Message != response.MessageInternalServerError {
				t.Fatalf("internal errors must not leak details, got %q", env.Message)
			}
		})
	}
}

func TestMatchHandler_CreateStatusReflectsIdempotency(t *testing.T) {
	for _, created := range []bool{true, false} {
		uc := &fakeMatchingUC{createRes: usecase.CreateMatchResult{Match: match.Match{ID: uuid.New()}, Created: created}}
		app := newTestApp()
		NewMatchHandler(uc).RegisterRoutes(app.Group("/matches", asUser(uuid.New())))

		resp, _ := doJSON(t, app, http.MethodPost, "/matches", map[string]any{"otherUserId": uuid.NewString()})
		want := fiber.StatusOK
		if created {
			want = fiber.StatusCreated
		}
		if resp.StatusCode != want {
			t.Fatalf("created=%v: expected %d, got %d", created, want, resp.StatusCode)
		}
	}
}

func TestMatchHandler_DeckFilters(t *testing.T) {
	uc := &fakeMatchingUC{}
	app := newTestApp()
	NewMatchHandler(uc).RegisterRoutes(app.Group("/matches", asUser(uuid.New())))

	resp, env := doJSON(t, app, http.MethodGet, "/matches/deck?onlineOnly=true&category=Arts", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !uc.deckSeen.OnlineOnly || uc.deckSeen.Category != "Arts" {
		t.Fatalf("filters not passed through: %+v", uc.deckSeen)
	}
	if string(env.Data) != "[]" {
		t.Fatalf("empty deck must encode as [], got %s", env.Data)
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/matches/deck?onlineOnly=maybe", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("invalid onlineOnly: expected 400, got %d", resp.StatusCode)
	}
}

type fakeSessionUC struct {
	lastUpdate usecase.UpdateSessionInput
	updateErr  error
}

func (f *fakeSessionUC) CreateSession(context.Context, uuid.UUID, usecase.CreateSessionInput) (session.Session, error) {
	return session.Session{}, nil
}

func (f *fakeSessionUC) ListSessions(context.Context, uuid.UUID, session.Status) ([]usecase.SessionView, error) {
	return nil, nil
}

func (f *fakeSessionUC) UpdateSession(_ context.Context, _, id uuid.UUID, in usecase.UpdateSessionInput) (session.Session, error) {
	f.lastUpdate = in
	if f.updateErr != nil {
		return session.Session{}, f.updateErr
	}
	return session.Session{ID: id, Status: *in.Status}, nil
}

func TestSessionHandler_UpdateNormalizesStatus(t *testing.T) {
	uc := &fakeSessionUC{}
	app := newTestApp()
	NewSessionHandler(uc).RegisterRoutes(app.Group("/sessions", asUser(uuid.New())))

	resp, _ := doJSON(t, app, http.MethodPatch, "/sessions/"+uuid.NewString(), map[string]any{"status": " accepted "})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if uc.lastUpdate.Status == nil || *uc.lastUpdate.Status != session.StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %v", uc.lastUpdate.Status)
	}

	uc.updateErr = usecase.ErrInvalidTransition
	resp, _ = doJSON(t, app, http.MethodPatch, "/sessions/"+uuid.NewString(), map[string]any{"status": "COMPLETED"})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("invalid transition: expected 409, got %d", resp.StatusCode)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name       string
		db, cache  Pinger
		wantStatus int
		wantCache  string
	}{
		{name: "all up", db: fakePinger{}, cache: fakePinger{}, wantStatus: fiber.StatusOK, wantCache: "up"},
		{name: "cache down is degraded", db: fakePinger{}, cache: fakePinger{err: down}, wantStatus: fiber.StatusOK, wantCache: "down"},
		{name: "cache disabled", db: fakePinger{}, wantStatus: fiber.StatusOK, wantCache: "disabled"},
		{name: "database down", db: fakePinger{err: down}, cache: fakePinger{}, wantStatus: fiber.StatusServiceUnavailable, wantCache: "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			NewHealthHandler(tt.db, tt.cache).RegisterRoutes(app)

			resp, env := doJSON(t, app, http.MethodGet, "/health", nil)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			var body healthResponse
			if err := json.Unmarshal(env.Data, &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Cache != tt.wantCache {
				t.Fatalf("expected cache=%s, got %s", tt.wantCache, body.Cache)
			}
		})
	}
}
