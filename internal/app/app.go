package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/cinemaster/cinemaster-api/internal/booking"
	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/cinemaster/cinemaster-api/internal/mailer"
	"github.com/cinemaster/cinemaster-api/internal/payment"
	"github.com/cinemaster/cinemaster-api/internal/repository"
	appvalidator "github.com/cinemaster/cinemaster-api/internal/validator"
	"github.com/cinemaster/cinemaster-api/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager
	loginLimiter   LoginLimiter
	engine         *booking.Engine

	userRepo     domain.UserRepository
	tokenRepo    domain.TokenRepository
	movieRepo    domain.MovieRepository
	theaterRepo  domain.TheaterRepository
	showtimeRepo domain.ShowtimeRepository
	bookingRepo  domain.BookingRepository
	auditRepo    domain.AuditLogRepository
	reportRepo   domain.ReportRepository

	paymentProvider domain.PaymentProvider
}

type Config struct {
	Port             int
	Env              string
	BaseUrl          string
	OtelCollectorUrl string
	DB               struct {
		Dsn          string
		MaxOpenConns int
		MaxIdleTime  time.Duration
	}
	Redis struct {
		Url          string
		MaxOpenConns int
		MaxIdleConns int
		MaxIdleTime  time.Duration
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		Sender   string
	}
	Payment struct {
		Provider  string // simulated|stripe
		StripeKey string
	}
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.BaseUrl, "base-url", "http://localhost:3000", "Public base URL used in emails")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.DB.Dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.Url, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Smtp.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.Smtp.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.Smtp.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.Smtp.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.Smtp.Sender, "smtp-sender", "CineMaster <no-reply@cinemaster.example.com>", "SMTP sender")

	flag.StringVar(&cfg.Payment.Provider, "payment-provider", "simulated", "Payment provider (simulated|stripe)")
	flag.StringVar(&cfg.Payment.StripeKey, "stripe-key", "", "Stripe secret key")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := repository.NewPostgresUserRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	theaterRepo := repository.NewPostgresTheaterRepository(db)
	showtimeRepo := repository.NewPostgresShowtimeRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	auditRepo := repository.NewPostgresAuditLogRepository(db)
	reportRepo := repository.NewPostgresReportRepository(db)

	var paymentProvider domain.PaymentProvider
	if cfg.Payment.Provider == "stripe" {
		paymentProvider = payment.NewStripePaymentProvider(cfg.Payment.StripeKey)
	} else {
		paymentProvider = payment.NewSimulatedPaymentProvider()
	}

	app := &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       appvalidator.NewValidator(),
		mailer:          mailer.NewSMTPMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.Sender),
		sessionManager:  NewSessionManager(redisClient),
		loginLimiter:    NewRedisLoginLimiter(redisClient),
		engine:          booking.NewEngine(showtimeRepo, bookingRepo, movieRepo, theaterRepo, auditRepo, logger),
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		movieRepo:       movieRepo,
		theaterRepo:     theaterRepo,
		showtimeRepo:    showtimeRepo,
		bookingRepo:     bookingRepo,
		auditRepo:       auditRepo,
		reportRepo:      reportRepo,
		paymentProvider: paymentProvider,
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		otelHandler := otelslog.NewHandler("cinemaster-api", otelslog.WithLoggerProvider(global.GetLoggerProvider()))
		app.logger = slog.New(NewMultiHandler(logger.Handler(), otelHandler))
	}

	return app.run()
}

// NewTestApplication wires an Application from pre-built collaborators. It is
// intended for tests, which swap in mocks or containers as needed.
func NewTestApplication(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	mailer mailer.Mailer,
	paymentProvider domain.PaymentProvider,
	userRepo domain.UserRepository,
	tokenRepo domain.TokenRepository,
	movieRepo domain.MovieRepository,
	theaterRepo domain.TheaterRepository,
	showtimeRepo domain.ShowtimeRepository,
	bookingRepo domain.BookingRepository,
	auditRepo domain.AuditLogRepository,
	reportRepo domain.ReportRepository,
	sessionManager *scs.SessionManager,
	limiter LoginLimiter,
) *Application {
	return &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       appvalidator.NewValidator(),
		mailer:          mailer,
		sessionManager:  sessionManager,
		loginLimiter:    limiter,
		engine:          booking.NewEngine(showtimeRepo, bookingRepo, movieRepo, theaterRepo, auditRepo, logger),
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		movieRepo:       movieRepo,
		theaterRepo:     theaterRepo,
		showtimeRepo:    showtimeRepo,
		bookingRepo:     bookingRepo,
		auditRepo:       auditRepo,
		reportRepo:      reportRepo,
		paymentProvider: paymentProvider,
	}
}

func (app *Application) Config() Config {
	return app.config
}

func NewSessionManager(client redis.UniversalClient) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client.(*redis.Client))
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Url,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := redisotel.InstrumentTracing(rdb)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.Dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinemaster-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.restoreRememberedSession)

	r.Get("/health", app.GetHealth)

	r.Post("/users", app.RegisterUser)
	r.Put("/users/verification", app.VerifyUser)
	r.Post("/auth/login", app.Login)
	r.Post("/auth/logout", app.Logout)
	r.Post("/auth/password-reset-request", app.ForgotPassword)
	r.Put("/auth/password", app.ResetPassword)

	r.Get("/movies", app.GetMovies)
	r.Get("/movies/{movieId}", app.GetMovieById)
	r.Get("/genres", app.GetGenres)
	r.Get("/theaters", app.GetTheaters)
	r.Get("/showtimes/{showtimeId}/seats", app.GetSeatMapByShowtime)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Get("/users/me", app.GetCurrentUser)
		r.Patch("/users/me", app.UpdateUser)
		r.Put("/users/me/password", app.ChangePassword)

		r.Post("/checkout/quote", app.QuoteBooking)
		r.Post("/checkout", app.Checkout)

		r.Get("/users/me/bookings", app.GetUserBookings)
		r.Get("/users/me/bookings/{reference}", app.GetUserBookingByReference)
		r.Delete("/users/me/bookings/{bookingId}", app.CancelUserBooking)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(app.requireAuthentication)
		r.Use(app.requireAdmin)

		r.Get("/dashboard", app.GetDashboard)

		r.Post("/movies", app.CreateMovie)
		r.Put("/movies/{movieId}", app.UpdateMovie)
		r.Delete("/movies/{movieId}", app.DeleteMovie)

		r.Post("/showtimes", app.CreateShowtime)
		r.Patch("/showtimes/{showtimeId}/price", app.UpdateShowtimePrice)
		r.Delete("/showtimes/{showtimeId}", app.DeleteShowtime)

		r.Get("/bookings", app.GetAllBookings)
		r.Delete("/bookings/{bookingId}", app.CancelAnyBooking)
		r.Post("/bookings/{bookingId}/confirm", app.ConfirmBooking)

		r.Get("/users", app.GetAllUsers)
		r.Delete("/users/{userId}", app.DeleteUser)

		r.Get("/logs", app.GetAuditLogs)
	})

	return r
}
