package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestLogger stashes a request-scoped logger in the context so handlers
// and the goroutines they spawn share the same request id.
func (app *Application) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With("requestId", middleware.GetReqID(r.Context()))

		next.ServeHTTP(w, r.WithContext(contextWithLogger(r.Context(), logger)))
	})
}

// restoreRememberedSession logs a user back in from the remember-me cookie
// when the server-side session has expired. The cookie carries
// "<userID>:<token>"; the token is only usable for the user it was minted
// for.
func (app *Application) restoreRememberedSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String()) != 0 {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(rememberMeCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userIdStr, token, ok := strings.Cut(cookie.Value, ":")
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		userId, err := strconv.Atoi(userIdStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		hash := sha256.Sum256([]byte(token))
		user, err := app.userRepo.GetByToken(r.Context(), hash[:], domain.RememberMeScope)
		if err != nil || user.ID != userId {
			next.ServeHTTP(w, r)
			return
		}

		err = app.sessionManager.RenewToken(r.Context())
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.sessionManager.Put(r.Context(), SessionKeyUserId.String(), user.ID)

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId := app.sessionManager.GetInt(r.Context(), SessionKeyUserId.String())
		if userId == 0 {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKeyUserId, userId)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// requireAdmin re-reads the user so a role downgrade takes effect without
// waiting for the session to expire.
func (app *Application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userId := app.contextGetUserId(r)

		user, err := app.userRepo.GetById(r.Context(), userId)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if user.Role != domain.RoleAdmin {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
