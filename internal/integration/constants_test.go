package integration_test

const (
	// User related constants
	TestUserName     = "Freddie Mercury"
	TestUserEmail    = "freddie@example.com"
	TestUserPassword = "Test123!@#"

	// Movie related constants
	TestMovieTitle    = "Inception"
	TestMovieDuration = 148
)
