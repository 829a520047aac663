package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string
	BankPath string

	DBDriver string // sqlite|postgres|memory
	DBDSN    string

	ArtifactBasePath string

	AuthHMACSecret string
	AdminUser      string
	AdminPassHash  string // bcrypt
	ExtraUsers     string // "name:bcrypt-hash:role" entries, comma separated

	CORSOrigins []string

	// RNGSeed fixes the server's random source when non-zero, for
	// reproducible test assembly runs.
	RNGSeed int64
}

func FromEnv() Config {
	return Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8080"),
		BankPath:         envOr("BANK_PATH", "questions.json"),
		DBDriver:         envOr("DB_DRIVER", "sqlite"),
		DBDSN:            envOr("DB_DSN", ""),
		ArtifactBasePath: envOr("ARTIFACT_BASE_PATH", "./data"),
		AuthHMACSecret:   envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:        envOr("ADMIN_USER", "admin"),
		AdminPassHash:    envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		ExtraUsers:       os.Getenv("USERS"),
		CORSOrigins:      csvOr("CORS_ORIGINS", "http://localhost:3000"),
		RNGSeed:          envInt64("RNG_SEED", 0),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
