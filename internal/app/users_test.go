package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/cinemaster/cinemaster-api/internal/mocks"
	"github.com/cinemaster/cinemaster-api/internal/validator"
)

func TestGetCurrentUser(t *testing.T) {
	app := newTestApplication(func(a *Application) {
		a.userRepo = &mocks.MockUserRepo{
			GetByIdFunc: func(ctx context.Context, id int) (*domain.User, error) {
				return &domain.User{ID: id, Name: "Freddie Mercury", Email: "freddie@example.com", Role: domain.RoleUser}, nil
			},
		}
	})

	w, r := executeRequest(t, http.MethodGet, "/users/me", nil)
	r = setupTestSession(t, app, r, 7)

	app.GetCurrentUser(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GetCurrentUser() status = %v, want %v", w.Code, http.StatusOK)
	}

	var response api.UserResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Id != 7 {
		t.Errorf("Id = %v, want 7", response.Id)
	}
}

func TestUpdateUser(t *testing.T) {
	tests := []struct {
		name           string
		input          api.UpdateUserRequest
		updateFunc     func(context.Context, *domain.User) error
		wantStatus     int
		wantErrMessage string
		wantName       string
		wantEmail      string
	}{
		{
			name:  "update name only",
			input: api.UpdateUserRequest{Name: ptr("Farrokh Bulsara")},
			updateFunc: func(ctx context.Context, u *domain.User) error {
				return nil
			},
			wantStatus: http.StatusOK,
			wantName:   "Farrokh Bulsara",
			wantEmail:  "freddie@example.com",
		},
		{
			name:  "update email only",
			input: api.UpdateUserRequest{Email: ptr("farrokh@example.com")},
			updateFunc: func(ctx context.Context, u *domain.User) error {
				return nil
			},
			wantStatus: http.StatusOK,
			wantName:   "Freddie Mercury",
			wantEmail:  "farrokh@example.com",
		},
		{
			name:           "invalid email",
			input:          api.UpdateUserRequest{Email: ptr("not-an-email")},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrInvalidEmail,
		},
		{
			name:  "email already in use",
			input: api.UpdateUserRequest{Email: ptr("taken@example.com")},
			updateFunc: func(ctx context.Context, u *domain.User) error {
				return domain.ErrUserAlreadyExists
			},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "that email address is already in use",
		},
		{
			name:  "concurrent edit",
			input: api.UpdateUserRequest{Name: ptr("Farrokh Bulsara")},
			updateFunc: func(ctx context.Context, u *domain.User) error {
				return domain.ErrEditConflict
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: "Unable to update the record due to an edit conflict, please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.userRepo = &mocks.MockUserRepo{
					GetByIdFunc: func(ctx context.Context, id int) (*domain.User, error) {
						return &domain.User{ID: id, Name: "Freddie Mercury", Email: "freddie@example.com"}, nil
					},
					UpdateFunc: tt.updateFunc,
				}
			})

			w, r := executeRequest(t, http.MethodPatch, "/users/me", tt.input)
			r = setupTestSession(t, app, r, 7)

			app.UpdateUser(w, r)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("UpdateUser() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var response api.UserResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				if err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if response.Name != tt.wantName {
					t.Errorf("Name = %v, want %v", response.Name, tt.wantName)
				}
				if response.Email != tt.wantEmail {
					t.Errorf("Email = %v, want %v", response.Email, tt.wantEmail)
				}
			}

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		input          api.ChangePasswordRequest
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:       "successful change",
			input:      api.ChangePasswordRequest{CurrentPassword: "Pass123!@#", NewPassword: "NewPass123!@#"},
			wantStatus: http.StatusNoContent,
		},
		{
			name:           "wrong current password",
			input:          api.ChangePasswordRequest{CurrentPassword: "WrongPass1!", NewPassword: "NewPass123!@#"},
			wantStatus:     http.StatusUnauthorized,
			wantErrMessage: "Invalid email or password",
		},
		{
			name:           "weak new password",
			input:          api.ChangePasswordRequest{CurrentPassword: "Pass123!@#", NewPassword: "weak"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newVerifiedUser(t)

			app := newTestApplication(func(a *Application) {
				a.userRepo = &mocks.MockUserRepo{
					GetByIdFunc: func(ctx context.Context, id int) (*domain.User, error) {
						return user, nil
					},
					UpdateFunc: func(ctx context.Context, u *domain.User) error {
						return nil
					},
				}
				a.tokenRepo = &mocks.MockTokenRepo{
					DeleteAllForUserFunc: func(ctx context.Context, scope string, userID int) error {
						return nil
					},
				}
			})

			w, r := executeRequest(t, http.MethodPut, "/users/me/password", tt.input)
			r = setupTestSession(t, app, r, 1)

			app.ChangePassword(w, r)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("ChangePassword() status = %v, want %v", got, tt.wantStatus)
			}

			checkErrorResponse(t, w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}
