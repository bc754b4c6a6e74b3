// Package http is the REST adapter: an echo server that resolves the calling
// actor, validates requests against the embedded OpenAPI document and hands
// them to the command and query handlers.
package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"

	"parceltrack/internal/adapters/out/redis/ratelimit"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

// Handler runs a command that yields no value.
type Handler[In any] interface {
	Handle(ctx context.Context, in In) error
}

// ResultHandler runs a command or query that yields a value.
type ResultHandler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// Handlers groups every use case the server exposes.
type Handlers struct {
	RegisterUser     Handler[commands.RegisterUserCommand]
	Login            ResultHandler[commands.LoginCommand, commands.LoginResult]
	AssignUserRole   Handler[commands.AssignUserRoleCommand]
	UpdateUserStatus Handler[commands.UpdateUserStatusCommand]

	CreateParcel         ResultHandler[commands.CreateParcelCommand, parcel.TrackingNumber]
	CancelParcel         Handler[commands.CancelParcelCommand]
	ConfirmDelivery      Handler[commands.ConfirmDeliveryCommand]
	BlockParcel          Handler[commands.BlockParcelCommand]
	UnblockParcel        Handler[commands.UnblockParcelCommand]
	UpdateDeliveryStatus Handler[commands.UpdateDeliveryStatusCommand]
	OverrideStatus       Handler[commands.OverrideParcelStatusCommand]
	AssignDeliveryMan    Handler[commands.AssignDeliveryManCommand]

	GetProfile  ResultHandler[queries.GetProfileQuery, queries.UserView]
	ListUsers   ResultHandler[queries.ListUsersQuery, queries.ListUsersResult]
	ListParcels ResultHandler[queries.ListParcelsQuery, queries.ListParcelsResult]
	GetParcel   ResultHandler[queries.GetParcelQuery, queries.ParcelView]
	TrackParcel ResultHandler[queries.TrackParcelQuery, queries.ParcelView]
	ParcelStats ResultHandler[queries.GetParcelStatsQuery, queries.ParcelStats]
}

// RateLimiter throttles the public tracking route.
type RateLimiter interface {
	Allow(ctx context.Context, subject string) (ratelimit.Decision, error)
}

// RequestObserver records per-route request metrics.
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, code int, elapsed time.Duration)
}

// Config carries the server's collaborators. Limiter and Observer are optional.
type Config struct {
	Handlers Handlers
	Users    ports.UserReader
	Parcels  ports.ParcelReader
	Tokens   ports.TokenIssuer
	Limiter  RateLimiter
	Observer RequestObserver
	Document *openapi3.T
	Logger   *slog.Logger

	// SecureCookies marks the access token cookie Secure and SameSite=None.
	SecureCookies bool
}

// Server implements the REST API on top of the use case handlers. It owns no
// state beyond its collaborators and is safe for concurrent use.
type Server struct {
	h        Handlers
	users    ports.UserReader
	parcels  ports.ParcelReader
	tokens   ports.TokenIssuer
	limiter  RateLimiter
	observer RequestObserver
	doc      *openapi3.T
	logger   *slog.Logger
	secure   bool
}

// NewServer creates a server from cfg. Nil Limiter and Observer disable rate
// limiting and request metrics.
//
// Example:
//
// 	srv := httpadapter.NewServer(httpadapter.Config{
// 	    Handlers: handlers,
// 	    Users:    users,
// 	    Parcels:  parcels,
// 	    Tokens:   issuer,
// 	    Document: doc,
// 	    Logger:   logger,
// 	})
// 	e := echo.New()
// 	if err := srv.Register(e); err != nil {
// 	    return err
// 	}
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		h:        cfg.Handlers,
		users:    cfg.Users,
		parcels:  cfg.Parcels,
		tokens:   cfg.Tokens,
		limiter:  cfg.Limiter,
		observer: cfg.Observer,
		doc:      cfg.Document,
		logger:   logger.With("component", "http"),
		secure:   cfg.SecureCookies,
	}
}

// Register installs middleware, the error handler and every route on e.
func (s *Server) Register(e *echo.Echo) error {
	e.HTTPErrorHandler = s.handleError
	e.Use(s.requestMetrics, s.requestLogger(), recoverer())

	if s.doc != nil {
		validator, err := openAPIValidator(s.doc)
		if err != nil {
			return err
		}
		e.Use(validator)
		if err := registerSwaggerDoc(s.doc); err != nil {
			return err
		}
		e.GET("/swagger/*", swaggerHandler)
	}

	v1 := e.Group("/api/v1")
	auth := s.authenticate

	v1.POST("/user/register", s.RegisterUser)
	v1.POST("/auth/login", s.Login)
	v1.POST("/auth/logout", s.Logout)
	v1.GET("/user/me", s.GetProfile, auth)
	v1.GET("/user/all-users", s.ListUsers, auth)
	v1.PATCH("/user/:id/assign-role", s.AssignUserRole, auth)
	v1.PATCH("/user/:id/status", s.UpdateUserStatus, auth)

	v1.POST("/parcels", s.CreateParcel, auth)
	v1.GET("/parcels/me", s.ListOwnParcels, auth)
	v1.GET("/parcels/incoming", s.ListIncomingParcels, auth)
	v1.GET("/parcels/my-deliveries", s.ListDeliveries, auth)
	v1.GET("/parcels/all", s.ListAllParcels, auth)
	v1.GET("/parcels/stats", s.GetParcelStats, auth)
	v1.GET("/parcels/track/:trackingNumber", s.TrackParcel, s.rateLimit)
	v1.GET("/parcels/:id", s.GetParcel, auth)
	v1.PATCH("/parcels/:id/cancel", s.CancelParcel, auth)
	v1.PATCH("/parcels/:id/assign", s.AssignDeliveryMan, auth)
	v1.PATCH("/parcels/:id/update-delivery-status", s.UpdateDeliveryStatus, auth)
	v1.PATCH("/parcels/:id/admin-update-status", s.OverrideParcelStatus, auth)
	v1.PATCH("/parcels/:id/block", s.BlockParcel, auth)
	v1.PATCH("/parcels/:id/unblock", s.UnblockParcel, auth)
	v1.PATCH("/parcels/:id/confirm-delivery", s.ConfirmDelivery, auth)

	return nil
}
