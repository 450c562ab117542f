package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req, nil
}

func jsonBody(t testing.TB, v any) io.Reader {
	data, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(data)
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "reference" || k == "id" || k == "paymentRef"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

// sessionCookie extracts the session cookie from a login response.
func sessionCookie(t testing.TB, res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}

	t.Fatal("no session cookie in response")
	return nil
}

// login walks through the login endpoint and returns the session cookie.
func login(t testing.TB, testApp *TestApp, email, password string) *http.Cookie {
	body := jsonBody(t, map[string]any{"email": email, "password": password})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	testApp.App.Routes().ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode, "login failed")

	return sessionCookie(t, res)
}

// seedUser inserts a user row directly and returns its id.
func seedUser(t testing.TB, testApp *TestApp, name, email, password string, role string, verified bool) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	require.NoError(t, err)

	var id int
	err = testApp.DB.QueryRow(
		context.Background(),
		`INSERT INTO users (name, email, password_hash, role, is_verified) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, email, hash, role, verified,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedMovie(t testing.TB, testApp *TestApp, title string, durationMinutes int) int {
	var id int
	err := testApp.DB.QueryRow(
		context.Background(),
		`INSERT INTO movies (title, description, duration_minutes, rating, release_date, status)
		 VALUES ($1, $2, $3, 'PG-13', now()::date, 'now_showing') RETURNING id`,
		title, fmt.Sprintf("%s description", title), durationMinutes,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func seedShowtime(t testing.TB, testApp *TestApp, movieID, theaterID int, startTime string, price string) int {
	var id int
	err := testApp.DB.QueryRow(
		context.Background(),
		`INSERT INTO showtimes (movie_id, theater_id, start_time, price) VALUES ($1, $2, $3::timestamptz, $4) RETURNING id`,
		movieID, theaterID, startTime, price,
	).Scan(&id)
	require.NoError(t, err)

	return id
}
