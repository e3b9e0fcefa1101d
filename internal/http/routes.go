package http

import (
	"log/slog"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/proxyadmin/internal/config"
	"github.com/allisson/proxyadmin/internal/metrics"

	accessHTTP "github.com/allisson/proxyadmin/internal/access/http"
	accessUseCase "github.com/allisson/proxyadmin/internal/access/usecase"
	accesslistHTTP "github.com/allisson/proxyadmin/internal/accesslist/http"
	auditHTTP "github.com/allisson/proxyadmin/internal/audit/http"
	certificateHTTP "github.com/allisson/proxyadmin/internal/certificate/http"
	hostHTTP "github.com/allisson/proxyadmin/internal/host/http"
	settingHTTP "github.com/allisson/proxyadmin/internal/setting/http"
	streamHTTP "github.com/allisson/proxyadmin/internal/stream/http"
	tokenHTTP "github.com/allisson/proxyadmin/internal/token/http"
	userHTTP "github.com/allisson/proxyadmin/internal/user/http"
)

// RouterDeps bundles everything the API router mounts.
type RouterDeps struct {
	Config          *config.Config
	Logger          *slog.Logger
	Engine          *accessUseCase.Engine
	MetricsProvider *metrics.Provider

	TokenHandler           *tokenHTTP.TokenHandler
	UserHandler            *userHTTP.UserHandler
	ProxyHostHandler       *hostHTTP.HostHandler
	RedirectionHostHandler *hostHTTP.HostHandler
	DeadHostHandler        *hostHTTP.HostHandler
	ReportHandler          *hostHTTP.ReportHandler
	StreamHandler          *streamHTTP.StreamHandler
	AccessListHandler      *accesslistHTTP.AccessListHandler
	CertificateHandler     *certificateHTTP.CertificateHandler
	SettingHandler         *settingHTTP.SettingHandler
	AuditLogHandler        *auditHTTP.AuditLogHandler
}

// SetupRoutes builds the full API router and attaches it to the server.
//
// Every /v1 route runs behind the access-context middleware: it mints one
// lazy authorization context per request and never rejects on its own, so
// the unauthenticated token endpoint shares the chain.
func (s *Server) SetupRoutes(deps RouterDeps) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(deps.Logger))

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			deps.MetricsProvider.MeterProvider(),
			deps.Config.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(
		deps.Config.CORSEnabled,
		deps.Config.CORSAllowOrigins,
		deps.Logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.Use(accessHTTP.AccessContextMiddleware(deps.Engine, deps.Logger))

	// Token issuance is the door in: IP rate limited, not credential limited.
	tokens := v1.Group("/tokens")
	if deps.Config.RateLimitTokenEnabled {
		tokens.Use(tokenHTTP.IPRateLimitMiddleware(
			deps.Config.RateLimitTokenRequestsPerSec,
			deps.Config.RateLimitTokenBurst,
			deps.Logger,
		))
	}
	tokens.POST("", deps.TokenHandler.RequestTokenHandler)
	tokens.GET("", deps.TokenHandler.RefreshTokenHandler)

	api := v1.Group("")
	if deps.Config.RateLimitEnabled {
		api.Use(accessHTTP.RateLimitMiddleware(
			deps.Config.RateLimitRequestsPerSec,
			deps.Config.RateLimitBurst,
			deps.Logger,
		))
	}

	users := api.Group("/users")
	users.POST("", deps.UserHandler.CreateUserHandler)
	users.GET("", deps.UserHandler.ListUsersHandler)
	users.GET("/:user_id", deps.UserHandler.GetUserHandler)
	users.PUT("/:user_id", deps.UserHandler.UpdateUserHandler)
	users.DELETE("/:user_id", deps.UserHandler.DeleteUserHandler)
	users.PUT("/:user_id/auth", deps.UserHandler.SetPasswordHandler)
	users.PUT("/:user_id/permissions", deps.UserHandler.SetPermissionsHandler)
	users.POST("/:user_id/login", deps.UserHandler.SignInAsHandler)

	registerHostRoutes(api.Group("/nginx/proxy-hosts"), deps.ProxyHostHandler)
	registerHostRoutes(api.Group("/nginx/redirection-hosts"), deps.RedirectionHostHandler)
	registerHostRoutes(api.Group("/nginx/dead-hosts"), deps.DeadHostHandler)

	streams := api.Group("/nginx/streams")
	streams.POST("", deps.StreamHandler.CreateStreamHandler)
	streams.GET("", deps.StreamHandler.ListStreamsHandler)
	streams.GET("/:stream_id", deps.StreamHandler.GetStreamHandler)
	streams.PUT("/:stream_id", deps.StreamHandler.UpdateStreamHandler)
	streams.DELETE("/:stream_id", deps.StreamHandler.DeleteStreamHandler)
	streams.PUT("/:stream_id/enabled", deps.StreamHandler.SetEnabledHandler)

	accessLists := api.Group("/nginx/access-lists")
	accessLists.POST("", deps.AccessListHandler.CreateAccessListHandler)
	accessLists.GET("", deps.AccessListHandler.ListAccessListsHandler)
	accessLists.GET("/:access_list_id", deps.AccessListHandler.GetAccessListHandler)
	accessLists.PUT("/:access_list_id", deps.AccessListHandler.UpdateAccessListHandler)
	accessLists.DELETE("/:access_list_id", deps.AccessListHandler.DeleteAccessListHandler)

	certificates := api.Group("/nginx/certificates")
	certificates.POST("", deps.CertificateHandler.CreateCertificateHandler)
	certificates.GET("", deps.CertificateHandler.ListCertificatesHandler)
	certificates.GET("/:certificate_id", deps.CertificateHandler.GetCertificateHandler)
	certificates.PUT("/:certificate_id", deps.CertificateHandler.UpdateCertificateHandler)
	certificates.DELETE("/:certificate_id", deps.CertificateHandler.DeleteCertificateHandler)

	settings := api.Group("/settings")
	settings.GET("", deps.SettingHandler.ListSettingsHandler)
	settings.GET("/:setting_id", deps.SettingHandler.GetSettingHandler)
	settings.PUT("/:setting_id", deps.SettingHandler.UpdateSettingHandler)

	api.GET("/audit-log", deps.AuditLogHandler.ListHandler)
	api.GET("/reports/hosts", deps.ReportHandler.HostsReportHandler)

	s.router = router
}

// registerHostRoutes mounts the host CRUD surface for one host kind.
func registerHostRoutes(group *gin.RouterGroup, handler *hostHTTP.HostHandler) {
	group.POST("", handler.CreateHostHandler)
	group.GET("", handler.ListHostsHandler)
	group.GET("/:host_id", handler.GetHostHandler)
	group.PUT("/:host_id", handler.UpdateHostHandler)
	group.DELETE("/:host_id", handler.DeleteHostHandler)
	group.PUT("/:host_id/enabled", handler.SetEnabledHandler)
}
