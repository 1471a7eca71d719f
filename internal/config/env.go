package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr            string
	GinMode            string
	DBUser             string
	DBPass             string
	DBHost             string
	DBName             string
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	MigrationPause     time.Duration
	InvitationTTL      time.Duration
	DefaultSeatsPerRow int
}

func LoadEnv() Env {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	return Env{
		AppAddr:            getString("APP_ADDR", ":8080"),
		GinMode:            strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:             getString("DB_USER", "root"),
		DBPass:             os.Getenv("DB_PASS"),
		DBHost:             getString("DB_HOST", "127.0.0.1:3306"),
		DBName:             getString("DB_NAME", "bus_agency"),
		JWTSecret:          getString("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		MigrationPause:     getDuration("SEATMAP_MIGRATION_PAUSE", 100*time.Millisecond),
		InvitationTTL:      getDuration("INVITATION_TTL", 7*24*time.Hour),
		DefaultSeatsPerRow: getInt("SEATS_PER_ROW", 4),
	}
}

func getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
