package app

import (
	"context"
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/cinemaster/cinemaster-api/internal/mocks"
)

func TestRequireAuthentication(t *testing.T) {
	app := newTestApplication()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := app.contextGetUserId(r); got != 7 {
			t.Errorf("context user id = %v, want 7", got)
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("logged in user passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		r = loadTestSession(t, app, r)

		app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), 7)

		app.requireAuthentication(next).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %v, want %v", w.Code, http.StatusOK)
		}
	})

	t.Run("anonymous request is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		r = loadTestSession(t, app, r)

		app.requireAuthentication(next).ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %v, want %v", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		role       domain.Role
		wantStatus int
	}{
		{"admin passes through", domain.RoleAdmin, http.StatusOK},
		{"regular user is forbidden", domain.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.userRepo = &mocks.MockUserRepo{
					GetByIdFunc: func(ctx context.Context, id int) (*domain.User, error) {
						return &domain.User{ID: id, Role: tt.role}, nil
					},
				}
			})

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
			r = setupTestSession(t, app, r, 3)

			app.requireAdmin(next).ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRestoreRememberedSession(t *testing.T) {
	plaintext := "O8N3AqxZYwWDq2pXWZXM4yqpyoXKUYXzV5bV0z5dL5k"
	hash := sha256.Sum256([]byte(plaintext))

	userRepo := func(userID int) *mocks.MockUserRepo {
		return &mocks.MockUserRepo{
			GetByTokenFunc: func(ctx context.Context, gotHash []byte, scope string) (*domain.User, error) {
				if scope != domain.RememberMeScope {
					t.Errorf("scope = %v, want %v", scope, domain.RememberMeScope)
				}
				if string(gotHash) != string(hash[:]) {
					return nil, domain.ErrRecordNotFound
				}
				return &domain.User{ID: userID, IsVerified: true}, nil
			},
		}
	}

	tests := []struct {
		name       string
		cookie     *http.Cookie
		tokenUser  int
		wantUserId int
	}{
		{
			name:       "valid cookie restores the session",
			cookie:     &http.Cookie{Name: rememberMeCookieName, Value: "7:" + plaintext},
			tokenUser:  7,
			wantUserId: 7,
		},
		{
			name:       "no cookie",
			tokenUser:  7,
			wantUserId: 0,
		},
		{
			name:       "malformed cookie value",
			cookie:     &http.Cookie{Name: rememberMeCookieName, Value: "no-separator"},
			tokenUser:  7,
			wantUserId: 0,
		},
		{
			name:       "token minted for a different user",
			cookie:     &http.Cookie{Name: rememberMeCookieName, Value: "8:" + plaintext},
			tokenUser:  7,
			wantUserId: 0,
		},
		{
			name:       "unknown token",
			cookie:     &http.Cookie{Name: rememberMeCookieName, Value: "7:some-other-token-value-of-the-right-shape"},
			tokenUser:  7,
			wantUserId: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.userRepo = userRepo(tt.tokenUser)
			})

			var gotUserId int
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserId = app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/movies", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			r = loadTestSession(t, app, r)

			app.restoreRememberedSession(next).ServeHTTP(w, r)

			if gotUserId != tt.wantUserId {
				t.Errorf("session user id = %v, want %v", gotUserId, tt.wantUserId)
			}
		})
	}
}
