package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cinemaster/cinemaster-api/api"
	appvalidator "github.com/cinemaster/cinemaster-api/internal/validator"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "Unable to update the record due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "Invalid email or password"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	message := "You must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	message := "You do not have permission to access this resource"
	app.errorResponse(w, r, http.StatusForbidden, message)
}

func (app *Application) accountNotVerifiedResponse(w http.ResponseWriter, r *http.Request) {
	message := "Your account must be verified before you can log in"
	app.errorResponse(w, r, http.StatusForbidden, message)
}

func (app *Application) accountLockedResponse(w http.ResponseWriter, r *http.Request) {
	message := "Too many failed login attempts, please try again later"
	app.errorResponse(w, r, http.StatusTooManyRequests, message)
}

func (app *Application) seatConflictResponse(w http.ResponseWriter, r *http.Request, seats []string) {
	message := fmt.Sprintf("The following seats are no longer available: %s", strings.Join(seats, ", "))
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) schedulingConflictResponse(w http.ResponseWriter, r *http.Request, movieTitle string, startTime time.Time) {
	message := fmt.Sprintf(
		"The slot overlaps with %q starting at %s in the same theater",
		movieTitle,
		startTime.Format("2006-01-02 15:04"),
	)
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) priceMismatchResponse(w http.ResponseWriter, r *http.Request) {
	message := "The quoted total no longer matches the current price, please request a new quote"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) paymentFailedResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusPaymentRequired, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		app.badRequestResponse(w, r, err)
		return
	}

	errs := make([]api.ValidationError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		errs = append(errs, api.ValidationError{
			Field:   fieldError.Field(),
			Message: appvalidator.ValidationMessage(fieldError),
		})
	}

	resp := api.ValidationErrorResponse{
		Message:   "The request contains invalid fields",
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
		Errors:    errs,
	}

	writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(500)
	}
}
