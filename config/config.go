package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Redis     RedisConfigs
	Engage    EngageConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string

	DefaultLimit int
	MaxLimit     int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RedisConfigs struct {
	Addr string
}

// EngageConfigs tunes the engagement rule engines.
type EngageConfigs struct {
	// ForbidSelfVote rejects votes from a submission's own author. Self votes
	// are allowed by default.
	ForbidSelfVote bool

	// InvitationExpiration is how long a team invitation stays pending.
	InvitationExpiration time.Duration

	// Challenge scoring weights.
	VoteWeight        int
	ContentBonus      int
	ContentBonusAfter int
	MediaBonus        int

	// ScoreCacheTTL bounds how stale a cached engagement score may be.
	ScoreCacheTTL time.Duration

	// ModeratorIDs may answer challenge Q&A.
	ModeratorIDs []string
}
