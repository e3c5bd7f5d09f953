package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skillera/internal/config"
	"skillera/internal/database"
	"skillera/internal/database/migration"
	dbpostgres "skillera/internal/database/postgres"
	"skillera/internal/delivery/http/handler"
	"skillera/internal/delivery/http/middleware"
	v1 "skillera/internal/delivery/http/routes/v1"
	"skillera/internal/infrastructure/cache"
	"skillera/internal/infrastructure/persistence/postgres"
	"skillera/internal/pkg/jwt"
	"skillera/internal/repository"
	"skillera/internal/usecase"
	"skillera/internal/ws"
	"skillera/migrations"
)

// Container owns every long-lived dependency of the API process.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB      database.DB
	Cache   *cache.Redis
	Hub     *ws.Hub
	JWT     jwt.Service
	Limiter *middleware.LimiterStore

	Handlers  v1.Handlers
	Health    *handler.HealthHandler
	WS        *ws.Handler
	AuthGuard *middleware.AuthMiddleware

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Migration.RunOnStart {
		r := migration.Runner{FS: migrations.FS, Logger: logger}
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		JWT: jwt.NewHMACService(
			cfg.App.AppName,
			cfg.JWT.AccessSecret,
			cfg.JWT.RefreshSecret,
			cfg.JWT.AccessExpiresIn,
			cfg.JWT.RefreshExpiresIn,
		),
		Limiter: middleware.NewLimiterStore(cfg.HTTP.AuthRateLimitPerMin, cfg.HTTP.AuthRateLimitBurst, time.Minute),
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger)
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	c.wire()
	return c, nil
}

func (c *Container) wire() {
	users := postgres.NewUserRepository(c.DB)
	userQuery := repository.NewPostgresUserQueryRepository(c.DB)
	userSkills := repository.NewPostgresUserSkillRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	matches := repository.NewPostgresMatchRepository(c.DB)
	sessions := repository.NewPostgresSessionRepository(c.DB)
	messages := repository.NewPostgresMessageRepository(c.DB)
	feedbacks := repository.NewPostgresFeedbackRepository(c.DB)

	authUC := usecase.NewAuthUsecase(users, userSkills, c.JWT)
	userUC := usecase.NewUserUsecase(users, userSkills, sessions, feedbacks)
	userSkillUC := usecase.NewUserSkillUsecase(userSkills, c.Cache)
	skillUC := usecase.NewSkillUsecase(skills)
	matchingUC := usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Users:      users,
		UserQuery:  userQuery,
		UserSkills: userSkills,
		Matches:    matches,
		Sessions:   sessions,
		Cache:      c.Cache,
		CacheTTL:   c.Config.Matching.DeckCacheTTL,
		Events:     c.Hub,
		Logger:     c.Logger,
	})
	sessionUC := usecase.NewSessionUsecase(matches, sessions, skills, userQuery, c.Hub, c.Config.Matching.StrictSessionTransitions)
	messageUC := usecase.NewMessageUsecase(matches, messages, sessions, userQuery, c.Hub)
	feedbackUC := usecase.NewFeedbackUsecase(matches, sessions, feedbacks)

	c.AuthGuard = middleware.NewAuthMiddleware(c.JWT)
	c.Handlers = v1.Handlers{
		Auth:     handler.NewAuthHandler(authUC, middleware.RateLimit(c.Limiter)),
		Users:    handler.NewUserHandler(userUC, userSkillUC),
		Skills:   handler.NewSkillHandler(skillUC),
		Matches:  handler.NewMatchHandler(matchingUC),
		Sessions: handler.NewSessionHandler(sessionUC),
		Messages: handler.NewMessageHandler(messageUC),
		Feedback: handler.NewFeedbackHandler(feedbackUC),
	}
	c.Health = handler.NewHealthHandler(c.DB, c.Cache)
	c.WS = ws.NewHandler(c.Hub, c.JWT, ws.NewMatchAuthorizer(matches), c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Limiter != nil {
		c.Limiter.Stop()
	}

	var errs []error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
