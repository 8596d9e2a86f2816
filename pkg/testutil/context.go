package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/playhub-lab/backend/config"
	"github.com/playhub-lab/backend/migration"
	"github.com/playhub-lab/backend/pkg/logger"
	"github.com/playhub-lab/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockContext builds a context carrying an in-memory database, a quiet logger
// and test configurations, the same shape request contexts have in
// production.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithConfigs(ctx, config.Configs{
		Env: "testing",
		ApiServer: config.ServerConfigs{
			DefaultLimit: 50,
			MaxLimit:     100,
		},
		Engage: config.EngageConfigs{
			InvitationExpiration: 7 * 24 * time.Hour,
			ScoreCacheTTL:        time.Minute,
			ModeratorIDs:         []string{"moderator"},
		},
	})

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// SnowflakeNode returns an id generator for tests.
func SnowflakeNode() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return node
}
