// Package app wires configuration, the database and the service layer shared by
// the server, the cron runner and the admin CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "github.com/javicara/beonbike-sub000/internal/api/http"
	"github.com/javicara/beonbike-sub000/internal/config"
	"github.com/javicara/beonbike-sub000/internal/i18n"
	"github.com/javicara/beonbike-sub000/internal/jobs"
	"github.com/javicara/beonbike-sub000/internal/logger"
	"github.com/javicara/beonbike-sub000/internal/repository/postgres"
	"github.com/javicara/beonbike-sub000/internal/security"
	"github.com/javicara/beonbike-sub000/internal/service"
	"github.com/javicara/beonbike-sub000/internal/storage"
	"github.com/javicara/beonbike-sub000/internal/web"
)

// App holds the process-wide dependencies built from a Config.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Store   *postgres.Store
	Catalog *i18n.Catalog
	Storage storage.StorageInterface

	Email     service.EmailService
	Auth      service.AuthService
	Bikes     service.BikeService
	Bookings  service.BookingService
	Rentals   service.RentalService
	Payments  service.PaymentService
	Settings  service.SettingsService
	Interest  service.InterestService
	Dashboard service.DashboardService
	Inquiries service.InquiryService
	Images    service.ImageStorageService
}

// OpenDB connects to Postgres and verifies the connection. Schema migrations
// run when database.auto_migrate is set.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		n, err := postgres.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Database migrations applied", "count", n)
	}
	return db, nil
}

func New(cfg *config.Config, db *sql.DB) (*App, error) {
	catalog, err := i18n.Load(cfg.Site.DefaultLocale, cfg.Site.Locales)
	if err != nil {
		return nil, err
	}

	var store storage.StorageInterface
	switch cfg.Storage.Type {
	case "local", "":
		logger.Info("Using local image storage", "upload_dir", cfg.Storage.UploadDir)
		local, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			return nil, err
		}
		store = local
	default:
		return nil, fmt.Errorf("storage type %q not implemented", cfg.Storage.Type)
	}

	mailer, err := service.NewMailer(cfg.Email)
	if err != nil {
		return nil, err
	}
	emailSvc, err := service.NewEmailService(mailer, catalog, cfg.Email.BusinessEmail, cfg.Site.Name, cfg.Server.BaseURL)
	if err != nil {
		return nil, err
	}

	repos := postgres.NewStore(db)
	loc := cfg.Location()
	locale := cfg.Site.DefaultLocale

	return &App{
		Config:  cfg,
		DB:      db,
		Store:   repos,
		Catalog: catalog,
		Storage: store,
		Email:   emailSvc,

		Auth:      service.NewAuthService(repos.UserRepository, repos.SessionRepository, security.NewTokenManager(cfg.Session.Secret), cfg.SessionTTL()),
		Bikes:     service.NewBikeService(repos.BikeRepository, repos.BookingRepository),
		Bookings:  service.NewBookingService(repos.BookingRepository, repos.PaymentRepository, repos.BikeRepository, repos.SettingsRepository, emailSvc, loc, locale),
		Rentals:   service.NewRentalService(repos.BookingRepository, repos.BikeRepository, repos.SettingsRepository, repos.InterestRepository, emailSvc, loc, locale),
		Payments:  service.NewPaymentService(repos.PaymentRepository, repos.BookingRepository, emailSvc, loc),
		Settings:  service.NewSettingsService(repos.SettingsRepository),
		Interest:  service.NewInterestService(repos.InterestRepository),
		Dashboard: service.NewDashboardService(repos.BookingRepository, repos.PaymentRepository, repos.BikeRepository, loc),
		Inquiries: service.NewInquiryService(emailSvc, locale),
		Images:    service.NewImageStorageService(repos.BikeRepository, store, cfg.Storage.AllowedTypes),
	}, nil
}

// Router builds the full HTTP handler: JSON API, image endpoints and website.
func (a *App) Router() (http.Handler, error) {
	site, err := web.NewSite(a.Catalog, a.Bikes, a.Settings, a.Rentals, a.Inquiries, web.Options{
		Name:         a.Config.Site.Name,
		SecureCookie: a.Config.Session.Secure,
		Location:     a.Config.Location(),
	})
	if err != nil {
		return nil, err
	}
	h := httpapi.NewHandler(httpapi.Services{
		Auth:      a.Auth,
		Bikes:     a.Bikes,
		Bookings:  a.Bookings,
		Rentals:   a.Rentals,
		Payments:  a.Payments,
		Settings:  a.Settings,
		Interest:  a.Interest,
		Dashboard: a.Dashboard,
		Inquiries: a.Inquiries,
		Images:    a.Images,
	}, a.Storage, a.Catalog, httpapi.Options{
		CookieName:         a.Config.Session.CookieName,
		SecureCookie:       a.Config.Session.Secure,
		MaxUploadBytes:     a.Config.Storage.MaxFileSize << 20,
		AllowedTypes:       a.Config.Storage.AllowedTypes,
		MetricsEnabled:     a.Config.Server.MetricsEnabled,
		RateLimitPerMinute: a.Config.Server.RateLimitPerMinute,
		RateLimitBurst:     a.Config.Server.RateLimitBurst,
		TrustedProxies:     a.Config.Server.TrustedProxies,
	})
	return httpapi.NewRouter(h, site), nil
}

// JobRunner builds the runner used by the cron process.
func (a *App) JobRunner() *jobs.JobRunner {
	return jobs.NewJobRunner(a.DB, a.Store, &jobs.Services{
		Email:    a.Email,
		Bookings: a.Bookings,
		Rentals:  a.Rentals,
	}, a.Config)
}
