package xcontext

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/playhub-lab/backend/config"
	"github.com/playhub-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey struct{}
	loggerKey  struct{}
	dbKey      struct{}
	txKey      struct{}
	clockKey   struct{}
	userIDKey  struct{}
)

func WithConfigs(ctx context.Context, configs config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, configs)
}

func Configs(ctx context.Context) config.Configs {
	configs, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("configs was not setup in context")
	}

	return configs
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("logger was not setup in context")
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current transaction if one was begun with WithDBTransaction,
// otherwise the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if tx := dbTransaction(ctx); tx != nil && tx.current != nil {
		return tx.current
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("db was not setup in context")
	}

	return db
}

func WithClock(ctx context.Context, clock clockwork.Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, clock)
}

// Clock returns the injected clock, falling back to the real one so that
// callers which never set it up still work.
func Clock(ctx context.Context) clockwork.Clock {
	clock, ok := ctx.Value(clockKey{}).(clockwork.Clock)
	if !ok {
		return clockwork.NewRealClock()
	}

	return clock
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}
