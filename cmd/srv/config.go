package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/playhub-lab/backend/config"
)

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "playhub"),
			User:     getEnv("MYSQL_USER", "playhub"),
			Password: getEnv("MYSQL_PASSWORD", ""),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", ""),
			Port:         getEnv("PORT", "8080"),
			DefaultLimit: getEnvAsInt("API_DEFAULT_LIMIT", 50),
			MaxLimit:     getEnvAsInt("API_MAX_LIMIT", 100),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Engage: config.EngageConfigs{
			ForbidSelfVote:       getEnvAsBool("FORBID_SELF_VOTE", false),
			InvitationExpiration: getEnvAsDuration("INVITATION_EXPIRATION", 7*24*time.Hour),
			VoteWeight:           getEnvAsInt("VOTE_WEIGHT", 10),
			ContentBonus:         getEnvAsInt("CONTENT_BONUS", 25),
			ContentBonusAfter:    getEnvAsInt("CONTENT_BONUS_AFTER", 50),
			MediaBonus:           getEnvAsInt("MEDIA_BONUS", 15),
			ScoreCacheTTL:        getEnvAsDuration("SCORE_CACHE_TTL", 5*time.Minute),
			ModeratorIDs:         getEnvAsList("MODERATOR_IDS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	values := []string{}
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return values
}
