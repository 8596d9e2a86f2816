package main

import (
	"github.com/playhub-lab/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.loadConfig()
	s.loadContext()
	s.loadLogger()
	s.loadDatabase()

	if err := migration.AutoMigrate(s.ctx); err != nil {
		return err
	}

	s.logger.Infof("Migration completed")
	return nil
}
