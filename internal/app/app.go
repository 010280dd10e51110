// Package app assembles the clinicore core: it resolves the master key,
// opens and migrates the store, seeds the default operator and wires the
// services together, then waits for shutdown.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/config"
	"github.com/arturpetrov/clinicore/internal/cryptox"
	"github.com/arturpetrov/clinicore/internal/keyring"
	"github.com/arturpetrov/clinicore/internal/logging"
	"github.com/arturpetrov/clinicore/internal/services"
	"github.com/arturpetrov/clinicore/internal/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	Auth         *services.AuthService
	Patients     *services.PatientService
	Appointments *services.AppointmentService
	Billing      *services.BillingService
	Inventory    *services.InventoryService
	Messages     *services.MessageService
	Settings     *services.SettingsService
	Audit        *services.AuditService
}

// NewApp builds the full service graph from the given config. The returned
// App owns the database handle; call Close when done.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	key, err := keyring.Resolve(nil, cfg.KeyFilePath)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	crypto, err := cryptox.New(key)
	// The cipher and lookup subkey are derived; the raw key is not needed
	// past this point.
	common.WipeByteArray(key)
	if err != nil {
		return nil, fmt.Errorf("crypto init error: %w", err)
	}

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := storage.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migrate error: %w", err)
	}

	repos := storage.NewSQLiteRepositoryManager()

	if err := storage.EnsureDefaults(ctx, db, repos, crypto); err != nil {
		db.Close()
		return nil, fmt.Errorf("db seed error: %w", err)
	}

	auth, err := services.NewAuthService(db, repos, crypto, []byte(cfg.SessionSecret), cfg.SessionTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("auth init error: %w", err)
	}

	app := &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		Auth:         auth,
		Patients:     services.NewPatientService(db, repos, crypto),
		Appointments: services.NewAppointmentService(db, repos),
		Billing:      services.NewBillingService(db, repos),
		Inventory:    services.NewInventoryService(db, repos),
		Messages:     services.NewMessageService(db, repos),
		Settings:     services.NewSettingsService(db, repos),
		Audit:        services.NewAuditService(db, repos),
	}
	return app, nil
}

// Logger exposes the app-level logger for callers wiring their own surfaces.
func (app *App) Logger() logging.Logger {
	return app.logger
}

// Close releases the database handle.
func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until the context is cancelled or a termination signal arrives,
// then closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "core started",
		"db", app.config.DatabasePath,
		"session_ttl", app.config.SessionTTL.String())

	app.initSignalHandler(cancelFunc)

	<-ctx.Done()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "store close error", "error", err)
	}
	app.logger.Info(context.Background(), "core stopped")
}
