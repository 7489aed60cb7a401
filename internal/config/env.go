package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	// GoogleUserinfoURL is queried with ?access_token= to verify Google logins.
	GoogleUserinfoURL string

	CORSOrigins []string
}

func LoadEnv() Env {
	origins := []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Env{
		AppAddr:           envOr("APP_ADDR", ":8080"),
		GinMode:           strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:            envOr("DB_USER", "root"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            envOr("DB_HOST", "127.0.0.1:3306"),
		DBName:            envOr("DB_NAME", "travelplan"),
		JWTSecret:         envOr("JWT_SECRET", "super-secret-key-change-me"),
		GoogleUserinfoURL: envOr("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
		CORSOrigins:       origins,
	}
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
