// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	accessRepository "github.com/allisson/proxyadmin/internal/access/repository"
	accessUsecase "github.com/allisson/proxyadmin/internal/access/usecase"
	accessListHTTP "github.com/allisson/proxyadmin/internal/accesslist/http"
	accessListRepository "github.com/allisson/proxyadmin/internal/accesslist/repository"
	accessListUsecase "github.com/allisson/proxyadmin/internal/accesslist/usecase"
	auditHTTP "github.com/allisson/proxyadmin/internal/audit/http"
	auditRepository "github.com/allisson/proxyadmin/internal/audit/repository"
	auditUsecase "github.com/allisson/proxyadmin/internal/audit/usecase"
	certificateHTTP "github.com/allisson/proxyadmin/internal/certificate/http"
	certificateRepository "github.com/allisson/proxyadmin/internal/certificate/repository"
	certificateUsecase "github.com/allisson/proxyadmin/internal/certificate/usecase"
	"github.com/allisson/proxyadmin/internal/config"
	"github.com/allisson/proxyadmin/internal/database"
	hostDomain "github.com/allisson/proxyadmin/internal/host/domain"
	hostHTTP "github.com/allisson/proxyadmin/internal/host/http"
	hostRepository "github.com/allisson/proxyadmin/internal/host/repository"
	hostUsecase "github.com/allisson/proxyadmin/internal/host/usecase"
	"github.com/allisson/proxyadmin/internal/http"
	"github.com/allisson/proxyadmin/internal/metrics"
	settingHTTP "github.com/allisson/proxyadmin/internal/setting/http"
	settingRepository "github.com/allisson/proxyadmin/internal/setting/repository"
	settingUsecase "github.com/allisson/proxyadmin/internal/setting/usecase"
	streamHTTP "github.com/allisson/proxyadmin/internal/stream/http"
	streamRepository "github.com/allisson/proxyadmin/internal/stream/repository"
	streamUsecase "github.com/allisson/proxyadmin/internal/stream/usecase"
	tokenHTTP "github.com/allisson/proxyadmin/internal/token/http"
	tokenService "github.com/allisson/proxyadmin/internal/token/service"
	tokenUsecase "github.com/allisson/proxyadmin/internal/token/usecase"
	userHTTP "github.com/allisson/proxyadmin/internal/user/http"
	userRepository "github.com/allisson/proxyadmin/internal/user/repository"
	userUsecase "github.com/allisson/proxyadmin/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Repositories
	userRepo       userUsecase.UserRepository
	authRepo       userUsecase.AuthRepository
	ownershipRepo  accessUsecase.OwnershipRepository
	hostRepo       hostUsecase.HostRepository
	streamRepo     streamUsecase.StreamRepository
	accessListRepo accessListUsecase.AccessListRepository
	certRepo       certificateUsecase.CertificateRepository
	settingRepo    settingUsecase.SettingRepository
	auditLogRepo   auditUsecase.AuditLogRepository

	// Services
	signer          tokenService.Signer
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	engine          *accessUsecase.Engine

	// Use Cases
	tokenUseCase      tokenUsecase.TokenUseCase
	userUseCase       userUsecase.UserUseCase
	hostUseCase       hostUsecase.HostUseCase
	streamUseCase     streamUsecase.StreamUseCase
	accessListUseCase accessListUsecase.AccessListUseCase
	certUseCase       certificateUsecase.CertificateUseCase
	settingUseCase    settingUsecase.SettingUseCase
	auditLogUseCase   auditUsecase.AuditLogUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	userRepoInit          sync.Once
	authRepoInit          sync.Once
	ownershipRepoInit     sync.Once
	hostRepoInit          sync.Once
	streamRepoInit        sync.Once
	accessListRepoInit    sync.Once
	certRepoInit          sync.Once
	settingRepoInit       sync.Once
	auditLogRepoInit      sync.Once
	signerInit            sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	engineInit            sync.Once
	tokenUseCaseInit      sync.Once
	userUseCaseInit       sync.Once
	hostUseCaseInit       sync.Once
	streamUseCaseInit     sync.Once
	accessListUseCaseInit sync.Once
	certUseCaseInit       sync.Once
	settingUseCaseInit    sync.Once
	auditLogUseCaseInit   sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// AuthRepository returns the authentication repository instance.
func (c *Container) AuthRepository() (userUsecase.AuthRepository, error) {
	var err error
	c.authRepoInit.Do(func() {
		c.authRepo, err = c.initAuthRepository()
		if err != nil {
			c.initErrors["authRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authRepo"]; exists {
		return nil, storedErr
	}
	return c.authRepo, nil
}

// OwnershipRepository returns the ownership repository instance.
func (c *Container) OwnershipRepository() (accessUsecase.OwnershipRepository, error) {
	var err error
	c.ownershipRepoInit.Do(func() {
		c.ownershipRepo, err = c.initOwnershipRepository()
		if err != nil {
			c.initErrors["ownershipRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ownershipRepo"]; exists {
		return nil, storedErr
	}
	return c.ownershipRepo, nil
}

// HostRepository returns the host repository instance.
func (c *Container) HostRepository() (hostUsecase.HostRepository, error) {
	var err error
	c.hostRepoInit.Do(func() {
		c.hostRepo, err = c.initHostRepository()
		if err != nil {
			c.initErrors["hostRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hostRepo"]; exists {
		return nil, storedErr
	}
	return c.hostRepo, nil
}

// StreamRepository returns the stream repository instance.
func (c *Container) StreamRepository() (streamUsecase.StreamRepository, error) {
	var err error
	c.streamRepoInit.Do(func() {
		c.streamRepo, err = c.initStreamRepository()
		if err != nil {
			c.initErrors["streamRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["streamRepo"]; exists {
		return nil, storedErr
	}
	return c.streamRepo, nil
}

// AccessListRepository returns the access list repository instance.
func (c *Container) AccessListRepository() (accessListUsecase.AccessListRepository, error) {
	var err error
	c.accessListRepoInit.Do(func() {
		c.accessListRepo, err = c.initAccessListRepository()
		if err != nil {
			c.initErrors["accessListRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessListRepo"]; exists {
		return nil, storedErr
	}
	return c.accessListRepo, nil
}

// CertificateRepository returns the certificate repository instance.
func (c *Container) CertificateRepository() (certificateUsecase.CertificateRepository, error) {
	var err error
	c.certRepoInit.Do(func() {
		c.certRepo, err = c.initCertificateRepository()
		if err != nil {
			c.initErrors["certRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certRepo"]; exists {
		return nil, storedErr
	}
	return c.certRepo, nil
}

// SettingRepository returns the setting repository instance.
func (c *Container) SettingRepository() (settingUsecase.SettingRepository, error) {
	var err error
	c.settingRepoInit.Do(func() {
		c.settingRepo, err = c.initSettingRepository()
		if err != nil {
			c.initErrors["settingRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingRepo"]; exists {
		return nil, storedErr
	}
	return c.settingRepo, nil
}

// AuditLogRepository returns the audit log repository instance.
func (c *Container) AuditLogRepository() (auditUsecase.AuditLogRepository, error) {
	var err error
	c.auditLogRepoInit.Do(func() {
		c.auditLogRepo, err = c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditLogRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// Signer returns the credential signer backed by the configured key pair.
func (c *Container) Signer() (tokenService.Signer, error) {
	var err error
	c.signerInit.Do(func() {
		c.signer, err = c.initSigner()
		if err != nil {
			c.initErrors["signer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signer"]; exists {
		return nil, storedErr
	}
	return c.signer, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// Returns nil when metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Engine returns the authorization engine.
func (c *Container) Engine() (*accessUsecase.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// TokenUseCase returns the token use case instance.
func (c *Container) TokenUseCase() (tokenUsecase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// HostUseCase returns the host use case instance shared by all host kinds.
func (c *Container) HostUseCase() (hostUsecase.HostUseCase, error) {
	var err error
	c.hostUseCaseInit.Do(func() {
		c.hostUseCase, err = c.initHostUseCase()
		if err != nil {
			c.initErrors["hostUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hostUseCase"]; exists {
		return nil, storedErr
	}
	return c.hostUseCase, nil
}

// StreamUseCase returns the stream use case instance.
func (c *Container) StreamUseCase() (streamUsecase.StreamUseCase, error) {
	var err error
	c.streamUseCaseInit.Do(func() {
		c.streamUseCase, err = c.initStreamUseCase()
		if err != nil {
			c.initErrors["streamUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["streamUseCase"]; exists {
		return nil, storedErr
	}
	return c.streamUseCase, nil
}

// AccessListUseCase returns the access list use case instance.
func (c *Container) AccessListUseCase() (accessListUsecase.AccessListUseCase, error) {
	var err error
	c.accessListUseCaseInit.Do(func() {
		c.accessListUseCase, err = c.initAccessListUseCase()
		if err != nil {
			c.initErrors["accessListUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessListUseCase"]; exists {
		return nil, storedErr
	}
	return c.accessListUseCase, nil
}

// CertificateUseCase returns the certificate use case instance.
func (c *Container) CertificateUseCase() (certificateUsecase.CertificateUseCase, error) {
	var err error
	c.certUseCaseInit.Do(func() {
		c.certUseCase, err = c.initCertificateUseCase()
		if err != nil {
			c.initErrors["certUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certUseCase"]; exists {
		return nil, storedErr
	}
	return c.certUseCase, nil
}

// SettingUseCase returns the setting use case instance.
func (c *Container) SettingUseCase() (settingUsecase.SettingUseCase, error) {
	var err error
	c.settingUseCaseInit.Do(func() {
		c.settingUseCase, err = c.initSettingUseCase()
		if err != nil {
			c.initErrors["settingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settingUseCase"]; exists {
		return nil, storedErr
	}
	return c.settingUseCase, nil
}

// AuditLogUseCase returns the audit log use case instance.
func (c *Container) AuditLogUseCase() (auditUsecase.AuditLogUseCase, error) {
	var err error
	c.auditLogUseCaseInit.Do(func() {
		c.auditLogUseCase, err = c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// HTTPServer returns the HTTP server instance with all routes configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil when metrics are disabled in configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics pipeline if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuthRepository creates the authentication repository instance.
func (c *Container) initAuthRepository() (userUsecase.AuthRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for auth repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLAuthRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLAuthRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOwnershipRepository creates the ownership repository instance.
func (c *Container) initOwnershipRepository() (accessUsecase.OwnershipRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for ownership repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return accessRepository.NewMySQLOwnershipRepository(db), nil
	case "postgres":
		return accessRepository.NewPostgreSQLOwnershipRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initHostRepository creates the host repository instance.
func (c *Container) initHostRepository() (hostUsecase.HostRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for host repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return hostRepository.NewMySQLHostRepository(db), nil
	case "postgres":
		return hostRepository.NewPostgreSQLHostRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStreamRepository creates the stream repository instance.
func (c *Container) initStreamRepository() (streamUsecase.StreamRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for stream repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return streamRepository.NewMySQLStreamRepository(db), nil
	case "postgres":
		return streamRepository.NewPostgreSQLStreamRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccessListRepository creates the access list repository instance.
func (c *Container) initAccessListRepository() (accessListUsecase.AccessListRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access list repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return accessListRepository.NewMySQLAccessListRepository(db), nil
	case "postgres":
		return accessListRepository.NewPostgreSQLAccessListRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCertificateRepository creates the certificate repository instance.
func (c *Container) initCertificateRepository() (certificateUsecase.CertificateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for certificate repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return certificateRepository.NewMySQLCertificateRepository(db), nil
	case "postgres":
		return certificateRepository.NewPostgreSQLCertificateRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSettingRepository creates the setting repository instance.
func (c *Container) initSettingRepository() (settingUsecase.SettingRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for setting repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return settingRepository.NewMySQLSettingRepository(db), nil
	case "postgres":
		return settingRepository.NewPostgreSQLSettingRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogRepository creates the audit log repository instance.
func (c *Container) initAuditLogRepository() (auditUsecase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditLogRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSigner loads the signing key pair and wraps it in a Signer.
func (c *Container) initSigner() (tokenService.Signer, error) {
	keys, err := tokenService.LoadOrGenerateKeyPair(
		c.config.TokenPrivateKeyPath,
		c.config.TokenPublicKeyPath,
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key pair: %w", err)
	}
	return tokenService.NewSigner(keys), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initEngine creates the authorization engine with all its collaborators.
// The user repository doubles as the identity resolver.
func (c *Container) initEngine() (*accessUsecase.Engine, error) {
	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for engine: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for engine: %w", err)
	}

	ownershipRepo, err := c.OwnershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get ownership repository for engine: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for engine: %w", err)
	}

	return accessUsecase.NewEngine(signer, userRepo, ownershipRepo, businessMetrics, c.Logger()), nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUsecase.TokenUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for token use case: %w", err)
	}

	authRepo, err := c.AuthRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth repository for token use case: %w", err)
	}

	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for token use case: %w", err)
	}

	useCase, err := tokenUsecase.NewTokenUseCase(c.config, userRepo, authRepo, signer)
	if err != nil {
		return nil, fmt.Errorf("failed to create token use case: %w", err)
	}
	return useCase, nil
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUsecase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	authRepo, err := c.AuthRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth repository for user use case: %w", err)
	}

	useCase, err := userUsecase.NewUserUseCase(txManager, userRepo, authRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create user use case: %w", err)
	}
	return useCase, nil
}

// initHostUseCase creates the host use case with all its dependencies.
// The stream repository doubles as the stream counter for the hosts report.
func (c *Container) initHostUseCase() (hostUsecase.HostUseCase, error) {
	hostRepo, err := c.HostRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get host repository for host use case: %w", err)
	}

	streamRepo, err := c.StreamRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get stream repository for host use case: %w", err)
	}

	auditor, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for host use case: %w", err)
	}

	return hostUsecase.NewHostUseCase(hostRepo, streamRepo, auditor, c.Logger()), nil
}

// initStreamUseCase creates the stream use case with all its dependencies.
func (c *Container) initStreamUseCase() (streamUsecase.StreamUseCase, error) {
	streamRepo, err := c.StreamRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get stream repository for stream use case: %w", err)
	}

	auditor, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for stream use case: %w", err)
	}

	return streamUsecase.NewStreamUseCase(streamRepo, auditor, c.Logger()), nil
}

// initAccessListUseCase creates the access list use case with all its dependencies.
func (c *Container) initAccessListUseCase() (accessListUsecase.AccessListUseCase, error) {
	listRepo, err := c.AccessListRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access list repository for access list use case: %w", err)
	}

	auditor, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for access list use case: %w", err)
	}

	return accessListUsecase.NewAccessListUseCase(listRepo, auditor, c.Logger()), nil
}

// initCertificateUseCase creates the certificate use case with all its dependencies.
func (c *Container) initCertificateUseCase() (certificateUsecase.CertificateUseCase, error) {
	certRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate repository for certificate use case: %w", err)
	}

	auditor, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for certificate use case: %w", err)
	}

	return certificateUsecase.NewCertificateUseCase(certRepo, auditor, c.Logger()), nil
}

// initSettingUseCase creates the setting use case with all its dependencies.
func (c *Container) initSettingUseCase() (settingUsecase.SettingUseCase, error) {
	settingRepo, err := c.SettingRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get setting repository for setting use case: %w", err)
	}

	auditor, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for setting use case: %w", err)
	}

	return settingUsecase.NewSettingUseCase(settingRepo, auditor, c.Logger()), nil
}

// initAuditLogUseCase creates the audit log use case.
func (c *Container) initAuditLogUseCase() (auditUsecase.AuditLogUseCase, error) {
	auditLogRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	return auditUsecase.NewAuditLogUseCase(auditLogRepo), nil
}

// initHTTPServer creates the HTTP server with all handlers and routes wired up.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for HTTP server: %w", err)
	}

	logger := c.Logger()

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for HTTP server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for HTTP server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for HTTP server: %w", err)
	}

	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for HTTP server: %w", err)
	}

	hostUseCase, err := c.HostUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get host use case for HTTP server: %w", err)
	}

	streamUseCase, err := c.StreamUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get stream use case for HTTP server: %w", err)
	}

	accessListUseCase, err := c.AccessListUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access list use case for HTTP server: %w", err)
	}

	certUseCase, err := c.CertificateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate use case for HTTP server: %w", err)
	}

	settingUseCase, err := c.SettingUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get setting use case for HTTP server: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for HTTP server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRoutes(http.RouterDeps{
		Config:          c.config,
		Logger:          logger,
		Engine:          engine,
		MetricsProvider: metricsProvider,

		TokenHandler:           tokenHTTP.NewTokenHandler(tokenUseCase, logger),
		UserHandler:            userHTTP.NewUserHandler(userUseCase, tokenUseCase, logger),
		ProxyHostHandler:       hostHTTP.NewHostHandler(hostDomain.TypeProxy, hostUseCase, logger),
		RedirectionHostHandler: hostHTTP.NewHostHandler(hostDomain.TypeRedirection, hostUseCase, logger),
		DeadHostHandler:        hostHTTP.NewHostHandler(hostDomain.TypeDead, hostUseCase, logger),
		ReportHandler:          hostHTTP.NewReportHandler(hostUseCase, logger),
		StreamHandler:          streamHTTP.NewStreamHandler(streamUseCase, logger),
		AccessListHandler:      accessListHTTP.NewAccessListHandler(accessListUseCase, logger),
		CertificateHandler:     certificateHTTP.NewCertificateHandler(certUseCase, logger),
		SettingHandler:         settingHTTP.NewSettingHandler(settingUseCase, logger),
		AuditLogHandler:        auditHTTP.NewAuditLogHandler(auditLogUseCase, logger),
	})

	return server, nil
}

// initMetricsServer creates the metrics server exposing the Prometheus endpoint.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
