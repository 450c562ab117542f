package integration_test

import (
	"log/slog"
	"os"

	"github.com/cinemaster/cinemaster-api/internal/app"
	"github.com/cinemaster/cinemaster-api/internal/mailer"
	"github.com/cinemaster/cinemaster-api/internal/payment"
	"github.com/cinemaster/cinemaster-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Mailer *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	application := app.NewTestApplication(
		cfg,
		logger,
		db,
		redisClient,
		mockMailer,
		payment.NewSimulatedPaymentProvider(),
		repository.NewPostgresUserRepository(db),
		repository.NewPostgresTokenRepository(db),
		repository.NewPostgresMovieRepository(db),
		repository.NewPostgresTheaterRepository(db),
		repository.NewPostgresShowtimeRepository(db),
		repository.NewPostgresBookingRepository(db),
		repository.NewPostgresAuditLogRepository(db),
		repository.NewPostgresReportRepository(db),
		app.NewSessionManager(redisClient),
		app.NewRedisLoginLimiter(redisClient),
	)

	return &TestApp{
		App:    application,
		DB:     db,
		Mailer: mockMailer,
	}, nil
}
