package app

import (
	"log/slog"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/wannawatch/core/internal/config"
	http_init "github.com/humanbelnik/wannawatch/core/internal/delivery/http/init"
	http_metrics "github.com/humanbelnik/wannawatch/core/internal/delivery/http/metrics"
	http_identity_middleware "github.com/humanbelnik/wannawatch/core/internal/delivery/http/middleware/identity"
	http_session "github.com/humanbelnik/wannawatch/core/internal/delivery/http/session"
	http_swagger "github.com/humanbelnik/wannawatch/core/internal/delivery/http/swagger"
	http_vote "github.com/humanbelnik/wannawatch/core/internal/delivery/http/voting"
	infra_postgres_group "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/group"
	infra_pg_init "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/init"
	infra_postgres_movie "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/movie"
	infra_postgres_session "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/session"
	infra_postgres_vote "github.com/humanbelnik/wannawatch/core/internal/infra/postgres/vote"
	infra_redis_init "github.com/humanbelnik/wannawatch/core/internal/infra/redis/init"
	infra_redis_voted_set "github.com/humanbelnik/wannawatch/core/internal/infra/redis/voted_set"
	usecase_session "github.com/humanbelnik/wannawatch/core/internal/usecase/session"
	usecase_vote "github.com/humanbelnik/wannawatch/core/internal/usecase/vote"
	"github.com/jmoiron/sqlx"
)

func Go(cfg *config.Config) {
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)

	controllerPool := New(cfg, pgConn, redisConn)
	slog.Info("starting HTTP server",
		slog.String("addr", cfg.HTTP.Host+":"+cfg.HTTP.Port),
		slog.String("mode", cfg.HTTP.Mode))
	controllerPool.RunAll(cfg.HTTP.Host, cfg.HTTP.Port)
}

// New wires repositories, usecases and controllers. A nil redisConn
// disables the voted set cache.
func New(cfg *config.Config, pgConn *sqlx.DB, redisConn *redis.Client) *http_init.ControllerPool {
	logger := slog.Default().With(slog.String("service", "wannawatch"))

	sessionRepository := infra_postgres_session.New(pgConn)
	voteRepository := infra_postgres_vote.New(pgConn)
	movieRepository := infra_postgres_movie.New(pgConn)
	groupRepository := infra_postgres_group.New(pgConn)

	voteOpts := []usecase_vote.Option{usecase_vote.WithLogger(logger)}
	if redisConn != nil {
		votedSet := infra_redis_voted_set.New(
			redisConn,
			cfg.Voting.QueueCacheKey,
			cfg.Voting.QueueCacheTTL,
			infra_redis_voted_set.WithLogger(logger),
		)
		voteOpts = append(voteOpts, usecase_vote.WithVotedSetCache(votedSet))
	}

	sessionUC := usecase_session.New(sessionRepository, voteRepository, groupRepository,
		usecase_session.WithLogger(logger))
	voteUC := usecase_vote.New(voteRepository, sessionRepository, groupRepository, movieRepository, voteOpts...)

	identity := http_identity_middleware.New(http_identity_middleware.WithLogger(logger)).Required()

	controllerPool := http_init.NewControllerPool(cfg.HTTP.Mode)
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_metrics.New())
	controllerPool.Add(http_session.New(sessionUC, identity, http_session.WithLogger(logger)))
	controllerPool.Add(http_vote.New(voteUC, identity, http_vote.WithLogger(logger)))

	controllerPool.Register()
	return controllerPool
}
