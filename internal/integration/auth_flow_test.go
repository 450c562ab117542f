package integration_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/cinemaster/cinemaster-api/api"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthFlowSuite struct {
	BaseSuite
}

func TestAuthFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(AuthFlowSuite))
}

// activationToken digs the plaintext token out of the last verification email.
func activationToken(t testing.TB, app *TestApp) string {
	email, ok := app.Mailer.LastEmail()
	require.True(t, ok, "no verification email sent")

	data, ok := email.Data.(map[string]any)
	require.True(t, ok, "unexpected email data payload")

	url, ok := data["ActivationURL"].(string)
	require.True(t, ok, "no activation URL in email data")

	_, token, found := strings.Cut(url, "token=")
	require.True(t, found, "no token in activation URL")

	return token
}

func (s *AuthFlowSuite) TestRegistrationToFirstLogin() {
	t := s.T()

	register := Scenario{
		Name:   "register a new account",
		Method: http.MethodPost,
		URL:    "/users",
		Body: jsonBody(t, map[string]any{
			"name":     "Brian May",
			"email":    "brian@example.com",
			"password": TestUserPassword,
		}),
		ExpectedStatus: http.StatusAccepted,
	}
	register.Run(t, s.app)

	unverifiedLogin := Scenario{
		Name:   "unverified accounts cannot log in",
		Method: http.MethodPost,
		URL:    "/auth/login",
		Body: jsonBody(t, map[string]any{
			"email":    "brian@example.com",
			"password": TestUserPassword,
		}),
		ExpectedStatus: http.StatusForbidden,
	}
	unverifiedLogin.Run(t, s.app)

	verify := Scenario{
		Name:           "verify the account with the emailed token",
		Method:         http.MethodPut,
		URL:            "/users/verification",
		Body:           jsonBody(t, map[string]any{"token": activationToken(t, s.app)}),
		ExpectedStatus: http.StatusOK,
		ExpectedResponse: `{
			"verified": true
		}`,
	}
	verify.Run(t, s.app)

	cookie := login(t, s.app, "brian@example.com", TestUserPassword)

	me := Scenario{
		Name:           "session grants access to the profile",
		Method:         http.MethodGet,
		URL:            "/users/me",
		Cookies:        []*http.Cookie{cookie},
		ExpectedStatus: http.StatusOK,
		AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
			var user api.UserResponse
			require.NoError(t, json.NewDecoder(res.Body).Decode(&user))

			require.Equal(t, "brian@example.com", user.Email)
			require.True(t, user.Verified)
		},
	}
	me.Run(t, s.app)

	adminArea := Scenario{
		Name:           "customers cannot reach the admin area",
		Method:         http.MethodGet,
		URL:            "/admin/dashboard",
		Cookies:        []*http.Cookie{cookie},
		ExpectedStatus: http.StatusForbidden,
	}
	adminArea.Run(t, s.app)
}
