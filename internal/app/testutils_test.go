package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/booking"
	"github.com/cinemaster/cinemaster-api/internal/mailer"
	"github.com/cinemaster/cinemaster-api/internal/mocks"
	appvalidator "github.com/cinemaster/cinemaster-api/internal/validator"
	"github.com/go-chi/chi/v5"
)

// mockLoginLimiter counts failures in memory; set locked to force a lockout.
type mockLoginLimiter struct {
	mu       sync.Mutex
	failures map[string]int
	locked   bool
}

func (m *mockLoginLimiter) RecordFailure(ctx context.Context, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failures == nil {
		m.failures = make(map[string]int)
	}
	m.failures[ip]++

	return nil
}

func (m *mockLoginLimiter) TooManyFailures(ctx context.Context, ip string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.locked || m.failures[ip] >= maxLoginAttempts, nil
}

func (m *mockLoginLimiter) Reset(ctx context.Context, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.failures, ip)

	return nil
}

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:          Config{BaseUrl: "http://localhost:3000"},
		validator:       appvalidator.NewValidator(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager:  scs.New(),
		loginLimiter:    &mockLoginLimiter{},
		mailer:          mailer.NewMockMailer(),
		userRepo:        &mocks.MockUserRepo{},
		tokenRepo:       &mocks.MockTokenRepo{},
		movieRepo:       &mocks.MockMovieRepo{},
		theaterRepo:     &mocks.MockTheaterRepo{},
		showtimeRepo:    &mocks.MockShowtimeRepo{},
		bookingRepo:     &mocks.MockBookingRepo{},
		auditRepo:       &mocks.MockAuditRepo{},
		reportRepo:      &mocks.MockReportRepo{},
		paymentProvider: &mocks.MockPaymentProvider{},
	}

	for _, opt := range opts {
		opt(app)
	}

	// The engine sees the same repos the handlers do, including any swapped
	// in by the options above.
	app.engine = booking.NewEngine(
		app.showtimeRepo,
		app.bookingRepo,
		app.movieRepo,
		app.theaterRepo,
		app.auditRepo,
		app.logger,
	)

	return app
}

// loadTestSession attaches a fresh session to the request, as the
// LoadAndSave middleware would.
func loadTestSession(t *testing.T, app *Application, r *http.Request) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	return r.WithContext(ctx)
}

// setupTestSession logs the given user in: session data plus the context
// value that requireAuthentication would have set.
func setupTestSession(t *testing.T, app *Application, r *http.Request, userId int) *http.Request {
	r = loadTestSession(t, app, r)

	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), userId)

	return r.WithContext(context.WithValue(r.Context(), SessionKeyUserId, userId))
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.Errors {
			errorSet[vErr.Message] = true
		}

		if !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

// withURLParam injects a chi route parameter, as the router would when
// dispatching the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func ptr[T any](v T) *T {
	return &v
}
