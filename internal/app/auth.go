package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/cinemaster/cinemaster-api/internal/domain"
)

const (
	rememberMeCookieName = "remember_me"
	rememberMeTTL        = 30 * 24 * time.Hour
	verificationTokenTTL = 3 * 24 * time.Hour
	passwordResetTTL     = 45 * time.Minute
)

func (app *Application) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.RegisterRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := domain.User{
		Name:  input.Name,
		Email: input.Email,
		Role:  domain.RoleUser,
	}

	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	token, err := app.userRepo.CreateWithToken(r.Context(), &user, func(user *domain.User) (*domain.Token, error) {
		return domain.GenerateToken(int64(user.ID), verificationTokenTTL, domain.UserVerificationScope)
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			logger.Warn("registration attempt for existing email")
			// do not return the info of existence of email to avoid user enumeration attacks
			app.badRequestResponse(w, r, fmt.Errorf("invalid input data"))
		default:
			logger.Error("failed to create user", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.audit(r, &domain.AuditLog{
		UserID: &user.ID,
		Action: "User registered",
		Type:   domain.AuditTypeAuth,
	})

	go func(ctx context.Context) {
		// new logger for this goroutine, inheriting context from the request
		// important for tracing across async boundaries
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic occurred during sending verification mail", "panic", err)
			}
		}()

		data := map[string]any{
			"Name":          user.Name,
			"ActivationURL": fmt.Sprintf("%s/verify?token=%s", app.config.BaseUrl, token.Plaintext),
		}

		err = app.mailer.Send(user.Email, "user_welcome.tmpl", data)
		if err != nil {
			gLogger.Error("failed to send verification email", "error", err)
		} else {
			gLogger.Info("verification email sent successfully")
		}
	}(r.Context())

	resp := toUserResponse(&user)

	err = app.writeJSON(w, http.StatusAccepted, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *Application) VerifyUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.UserActivationRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	hash := sha256.Sum256([]byte(input.Token))
	user, err := app.userRepo.GetByToken(r.Context(), hash[:], domain.UserVerificationScope)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	if user.IsVerified {
		logger.Warn("attempt to verify already verified user")
		app.editConflictResponse(w, r)
		return
	}

	err = app.userRepo.Verify(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.audit(r, &domain.AuditLog{
		UserID: &user.ID,
		Action: "User verified account",
		Type:   domain.AuditTypeAuth,
	})

	resp := api.UserActivationResponse{Verified: true}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
	if userId != 0 {
		resp := api.AlreadyLoggedInResponse{
			Message: "You are already logged in",
		}

		err := app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		logger.Warn("login validation failed")
		app.invalidCredentialsResponse(w, r)
		return
	}

	ip := clientIP(r)

	locked, err := app.loginLimiter.TooManyFailures(r.Context(), ip)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if locked {
		logger.Warn("login attempt from locked out IP")
		app.accountLockedResponse(w, r)
		return
	}

	user, err := app.userRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("login attempt for non-existent user")
			app.recordLoginFailure(r, nil, input.Email)
			app.invalidCredentialsResponse(w, r)
		default:
			logger.Error("failed to get user by email during login", "error", err)
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	match, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		logger.Warn("login failed due to incorrect password")
		app.recordLoginFailure(r, &user.ID, input.Email)
		app.invalidCredentialsResponse(w, r)
		return
	}

	if !user.IsVerified {
		logger.Warn("login attempt for unverified account")
		app.accountNotVerifiedResponse(w, r)
		return
	}

	// To help prevent session fixation attacks we should renew the session token after any privilege level change.
	// https://github.com/OWASP/CheatSheetSeries/blob/master/cheatsheets/Session_Management_Cheat_Sheet.md#renew-the-session-id-after-any-privilege-level-change
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), user.ID)

	err = app.loginLimiter.Reset(r.Context(), ip)
	if err != nil {
		logger.Error("failed to reset login attempt counter", "error", err)
	}

	if input.RememberMe {
		err = app.issueRememberMeCookie(w, r, user)
		if err != nil {
			logger.Error("failed to issue remember-me cookie", "error", err)
		}
	}

	app.audit(r, &domain.AuditLog{
		UserID: &user.ID,
		Action: "User logged in",
		Type:   domain.AuditTypeAuth,
	})

	resp := toUserResponse(user)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) recordLoginFailure(r *http.Request, userID *int, email string) {
	logger := app.contextGetLogger(r)

	err := app.loginLimiter.RecordFailure(r.Context(), clientIP(r))
	if err != nil {
		logger.Error("failed to record login failure", "error", err)
	}

	app.audit(r, &domain.AuditLog{
		UserID:  userID,
		Action:  "Failed login attempt",
		Type:    domain.AuditTypeAuth,
		Details: map[string]any{"email": email},
	})
}

func (app *Application) issueRememberMeCookie(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	token, err := domain.GenerateToken(int64(user.ID), rememberMeTTL, domain.RememberMeScope)
	if err != nil {
		return err
	}

	err = app.tokenRepo.Create(r.Context(), token)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rememberMeCookieName,
		Value:    fmt.Sprintf("%d:%s", user.ID, token.Plaintext),
		Path:     "/",
		Expires:  time.Now().Add(rememberMeTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (app *Application) Logout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
	if userId == 0 {
		app.notFoundResponse(w, r)
		return
	}

	err := app.tokenRepo.DeleteAllForUser(r.Context(), domain.RememberMeScope, userId)
	if err != nil {
		logger.Error("failed to delete remember-me tokens", "error", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rememberMeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	app.sessionManager.Destroy(r.Context())

	app.audit(r, &domain.AuditLog{
		UserID: &userId,
		Action: "User logged out",
		Type:   domain.AuditTypeAuth,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ForgotPasswordRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	// The response is identical whether or not the email exists.
	resp := api.MessageResponse{
		Message: "If that email address is registered, a password reset link is on its way",
	}

	user, err := app.userRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("password reset requested for non-existent email")
			app.writeJSON(w, http.StatusAccepted, resp, nil)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	token, err := domain.GenerateToken(int64(user.ID), passwordResetTTL, domain.PasswordResetScope)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.tokenRepo.Create(r.Context(), token)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	go func(ctx context.Context) {
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic occurred during sending password reset mail", "panic", err)
			}
		}()

		data := map[string]any{
			"Name":     user.Name,
			"ResetURL": fmt.Sprintf("%s/reset-password?token=%s", app.config.BaseUrl, token.Plaintext),
		}

		err := app.mailer.Send(user.Email, "password_reset.tmpl", data)
		if err != nil {
			gLogger.Error("failed to send password reset email", "error", err)
		}
	}(r.Context())

	app.audit(r, &domain.AuditLog{
		UserID: &user.ID,
		Action: "Password reset requested",
		Type:   domain.AuditTypeAuth,
	})

	err = app.writeJSON(w, http.StatusAccepted, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input api.ResetPasswordRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	hash := sha256.Sum256([]byte(input.Token))
	user, err := app.userRepo.GetByToken(r.Context(), hash[:], domain.PasswordResetScope)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Update(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEditConflict):
			app.editConflictResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.tokenRepo.DeleteAllForUser(r.Context(), domain.PasswordResetScope, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.audit(r, &domain.AuditLog{
		UserID: &user.ID,
		Action: "Password reset completed",
		Type:   domain.AuditTypeAuth,
	})

	resp := api.MessageResponse{Message: "Your password has been reset"}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// audit records the action with the request's network facts. Failures only log.
func (app *Application) audit(r *http.Request, entry *domain.AuditLog) {
	entry.IPAddress = clientIP(r)
	entry.UserAgent = r.UserAgent()

	err := app.auditRepo.Insert(context.WithoutCancel(r.Context()), entry)
	if err != nil {
		app.contextGetLogger(r).Error("failed to write audit log entry", "action", entry.Action, "error", err)
	}
}

func toUserResponse(user *domain.User) api.UserResponse {
	return api.UserResponse{
		Id:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Verified:  user.IsVerified,
		CreatedAt: user.CreatedAt,
		Version:   user.Version,
	}
}
