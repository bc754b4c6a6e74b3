package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpadapter "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/auth/bcrypthasher"
	"parceltrack/internal/adapters/out/auth/jwttoken"
	"parceltrack/internal/adapters/out/events"
	"parceltrack/internal/adapters/out/kafka"
	"parceltrack/internal/adapters/out/metrics"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/postgres/parcelrepo"
	"parceltrack/internal/adapters/out/postgres/userrepo"
	"parceltrack/internal/adapters/out/redis/ratelimit"
	"parceltrack/internal/adapters/out/redis/trackingcache"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/jobs"
)

// Infrastructure holds the connections opened by main. Redis and Kafka are
// optional; leaving them nil disables caching, rate limiting and streaming.
type Infrastructure struct {
	DB      *gorm.DB
	Redis   *goredis.Client
	Kafka   *kafka.Publisher
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// CompositionRoot builds the use case handlers and adapters from one Config
// and one set of connections. Handlers share the unit of work factory, the
// access policy and the optional Redis adapters.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	policy     services.AccessPolicy
	hasher     bcrypthasher.Hasher
	tokens     *jwttoken.Issuer
	cache      *trackingcache.Cache
	limiter    *ratelimit.FixedWindowLimiter
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewCompositionRoot creates the shared services. When Redis is present the
// tracking cache is registered as the write observer of every unit of work,
// so each committed parcel write drops the cached view.
//
// Example:
//
// 	root, err := cmd.NewCompositionRoot(cfg, cmd.Infrastructure{DB: db, Logger: logger})
// 	if err != nil {
// 		return err
// 	}
// 	server := root.CreateHTTPServer(doc)
func NewCompositionRoot(cfg Config, infra Infrastructure) (*CompositionRoot, error) {
	hasher, err := bcrypthasher.New(0)
	if err != nil {
		return nil, err
	}
	tokens, err := jwttoken.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("jwt issuer: %w", err)
	}

	c := &CompositionRoot{
		cfg:     cfg,
		gormDB:  infra.DB,
		hasher:  hasher,
		tokens:  tokens,
		metrics: infra.Metrics,
		logger:  infra.Logger,
	}

	var opts []services.AccessPolicyOption
	if cfg.UserListingAdminOnly {
		opts = append(opts, services.RestrictUserListingToAdmins())
	}
	c.policy = services.NewAccessPolicy(opts...)

	if infra.Redis != nil {
		if c.cache, err = trackingcache.New(infra.Redis, cfg.TrackingCacheTTL); err != nil {
			return nil, fmt.Errorf("tracking cache: %w", err)
		}
		if c.limiter, err = ratelimit.NewFixedWindowLimiter(infra.Redis, cfg.TrackingRateLimit, cfg.TrackingRateWindow); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var sinks []events.Named
	if infra.Metrics != nil {
		sinks = append(sinks, events.Named{Name: "metrics", Publisher: infra.Metrics})
	}
	if infra.Kafka != nil {
		sinks = append(sinks, events.Named{Name: "kafka", Publisher: infra.Kafka})
	}
	var uowOpts []postgres.FactoryOption
	if c.cache != nil {
		uowOpts = append(uowOpts, postgres.WithWriteObserver(c.cache))
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(infra.DB, events.NewFanout(sinks...), infra.Logger, uowOpts...)

	return c, nil
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) parcelUoW() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) userUoW() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW { return c.uowFactory.Create() })
}

// CreateRegisterUserCommandHandler creates the register user command handler.
func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoW(), c.hasher)
}

// CreateSeedAdminCommandHandler creates the seed admin command handler.
func (c *CompositionRoot) CreateSeedAdminCommandHandler() commands.SeedAdminCommandHandler {
	return commands.NewSeedAdminCommandHandler(c.userUoW(), c.hasher)
}

// CreateLoginCommandHandler creates the login command handler.
func (c *CompositionRoot) CreateLoginCommandHandler() commands.LoginCommandHandler {
	return commands.NewLoginCommandHandler(c.userUoW(), c.hasher, c.tokens)
}

// CreateAssignUserRoleCommandHandler creates the assign user role command handler.
func (c *CompositionRoot) CreateAssignUserRoleCommandHandler() commands.AssignUserRoleCommandHandler {
	return commands.NewAssignUserRoleCommandHandler(c.userUoW(), c.policy)
}

// CreateUpdateUserStatusCommandHandler creates the update user status command handler.
func (c *CompositionRoot) CreateUpdateUserStatusCommandHandler() commands.UpdateUserStatusCommandHandler {
	return commands.NewUpdateUserStatusCommandHandler(c.userUoW(), c.policy)
}

// CreateCreateParcelCommandHandler creates the create parcel command handler.
func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	return commands.NewCreateParcelCommandHandler(c.uow(), c.policy)
}

// CreateCancelParcelCommandHandler creates the cancel parcel command handler.
func (c *CompositionRoot) CreateCancelParcelCommandHandler() commands.CancelParcelCommandHandler {
	return commands.NewCancelParcelCommandHandler(c.parcelUoW(), c.policy)
}

// CreateConfirmDeliveryCommandHandler creates the confirm delivery command handler.
func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.parcelUoW(), c.policy)
}

// CreateBlockParcelCommandHandler creates the block parcel command handler.
func (c *CompositionRoot) CreateBlockParcelCommandHandler() commands.BlockParcelCommandHandler {
	return commands.NewBlockParcelCommandHandler(c.parcelUoW(), c.policy)
}

// CreateUnblockParcelCommandHandler creates the unblock parcel command handler.
func (c *CompositionRoot) CreateUnblockParcelCommandHandler() commands.UnblockParcelCommandHandler {
	return commands.NewUnblockParcelCommandHandler(c.parcelUoW(), c.policy)
}

// CreateUpdateDeliveryStatusCommandHandler creates the update delivery status command handler.
func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(c.parcelUoW(), services.NewTransitionEngine(c.policy))
}

// CreateOverrideParcelStatusCommandHandler creates the override parcel status command handler.
func (c *CompositionRoot) CreateOverrideParcelStatusCommandHandler() commands.OverrideParcelStatusCommandHandler {
	return commands.NewOverrideParcelStatusCommandHandler(c.parcelUoW(), c.policy)
}

// CreateAssignDeliveryManCommandHandler creates the assign delivery man command handler.
func (c *CompositionRoot) CreateAssignDeliveryManCommandHandler() commands.AssignDeliveryManCommandHandler {
	return commands.NewAssignDeliveryManCommandHandler(c.uow(), c.policy)
}

// CreateGetProfileQueryHandler creates the get profile query handler.
func (c *CompositionRoot) CreateGetProfileQueryHandler() queries.GetProfileQueryHandler {
	return queries.NewGetProfileQueryHandler(c.userReader(), c.policy)
}

// CreateListUsersQueryHandler creates the list users query handler.
func (c *CompositionRoot) CreateListUsersQueryHandler() queries.ListUsersQueryHandler {
	return queries.NewListUsersQueryHandler(c.gormDB, c.policy)
}

// CreateListParcelsQueryHandler creates the list parcels query handler.
func (c *CompositionRoot) CreateListParcelsQueryHandler() queries.ListParcelsQueryHandler {
	return queries.NewListParcelsQueryHandler(c.parcelReader(), c.policy)
}

// CreateGetParcelQueryHandler creates the get parcel query handler.
func (c *CompositionRoot) CreateGetParcelQueryHandler() queries.GetParcelQueryHandler {
	return queries.NewGetParcelQueryHandler(c.parcelReader(), c.policy)
}

// CreateTrackParcelQueryHandler creates the public tracking handler. It reads
// through the tracking cache when Redis is configured.
func (c *CompositionRoot) CreateTrackParcelQueryHandler() queries.TrackParcelQueryHandler {
	var cache ports.TrackingCache
	if c.cache != nil {
		cache = c.cache
	}
	return queries.NewTrackParcelQueryHandler(c.parcelReader(), cache, c.logger)
}

// CreateGetParcelStatsQueryHandler creates the stats handler, also used by
// the stats job.
func (c *CompositionRoot) CreateGetParcelStatsQueryHandler() queries.GetParcelStatsQueryHandler {
	return queries.NewGetParcelStatsQueryHandler(c.gormDB, c.policy)
}

func (c *CompositionRoot) parcelReader() ports.ParcelReader {
	return parcelrepo.NewGormParcelReader(c.gormDB)
}

func (c *CompositionRoot) userReader() ports.UserReader {
	return userrepo.NewGormUserRepository(c.gormDB)
}

// CreateHTTPServer wires every use case into the echo adapter.
func (c *CompositionRoot) CreateHTTPServer(doc *openapi3.T) *httpadapter.Server {
	registerUser := c.CreateRegisterUserCommandHandler()
	login := c.CreateLoginCommandHandler()
	assignUserRole := c.CreateAssignUserRoleCommandHandler()
	updateUserStatus := c.CreateUpdateUserStatusCommandHandler()
	createParcel := c.CreateCreateParcelCommandHandler()
	cancelParcel := c.CreateCancelParcelCommandHandler()
	confirmDelivery := c.CreateConfirmDeliveryCommandHandler()
	blockParcel := c.CreateBlockParcelCommandHandler()
	unblockParcel := c.CreateUnblockParcelCommandHandler()
	updateDeliveryStatus := c.CreateUpdateDeliveryStatusCommandHandler()
	overrideStatus := c.CreateOverrideParcelStatusCommandHandler()
	assignDeliveryMan := c.CreateAssignDeliveryManCommandHandler()

	cfg := httpadapter.Config{
		Handlers: httpadapter.Handlers{
			RegisterUser:         &registerUser,
			Login:                &login,
			AssignUserRole:       &assignUserRole,
			UpdateUserStatus:     &updateUserStatus,
			CreateParcel:         &createParcel,
			CancelParcel:         &cancelParcel,
			ConfirmDelivery:      &confirmDelivery,
			BlockParcel:          &blockParcel,
			UnblockParcel:        &unblockParcel,
			UpdateDeliveryStatus: &updateDeliveryStatus,
			OverrideStatus:       &overrideStatus,
			AssignDeliveryMan:    &assignDeliveryMan,
			GetProfile:           c.CreateGetProfileQueryHandler(),
			ListUsers:            c.CreateListUsersQueryHandler(),
			ListParcels:          c.CreateListParcelsQueryHandler(),
			GetParcel:            c.CreateGetParcelQueryHandler(),
			TrackParcel:          c.CreateTrackParcelQueryHandler(),
			ParcelStats:          c.CreateGetParcelStatsQueryHandler(),
		},
		Users:         c.userReader(),
		Parcels:       c.parcelReader(),
		Tokens:        c.tokens,
		Document:      doc,
		Logger:        c.logger,
		SecureCookies: c.cfg.SecureCookies,
	}
	if c.limiter != nil {
		cfg.Limiter = c.limiter
	}
	if c.metrics != nil {
		cfg.Observer = c.metrics
	}
	return httpadapter.NewServer(cfg)
}

// MetricsHandler serves the Prometheus registry; without metrics it reports 404.
func (c *CompositionRoot) MetricsHandler() http.Handler {
	if c.metrics == nil {
		return http.NotFoundHandler()
	}
	return c.metrics.Handler()
}

// CreateJobManager registers the background jobs. The stats job only runs
// when metrics are enabled.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	manager := jobs.NewJobManager(c.logger)
	if c.metrics != nil {
		manager.Add("parcel_stats", jobs.NewParcelStatsJob(
			c.CreateGetParcelStatsQueryHandler(), c.metrics, c.cfg.StatsRefreshCron, c.logger,
		))
	}
	return manager
}

// FuncUserUoWFactory adapts a function to commands.UserUoWFactory.
type FuncUserUoWFactory func() commands.UserUoW

// Create calls f.
func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

// FuncParcelUoWFactory adapts a function to commands.ParcelUoWFactory.
type FuncParcelUoWFactory func() commands.ParcelUoW

// Create calls f.
func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create calls f.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
