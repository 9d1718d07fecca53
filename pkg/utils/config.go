package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
	// AdminPasswordHash is a bcrypt hash; empty disables password login.
	AdminPasswordHash string
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("MANGAPARSERS_JWT_SECRET")
	if secret == "" {
		// dev default (change for production)
		secret = "dev-secret-change-me"
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   getenv("MANGAPARSERS_JWT_ISSUER", "mangaparsers"),
		JWTDuration: time.Duration(getenvInt("MANGAPARSERS_JWT_TTL_HOURS", 24)) * time.Hour,

		AdminPasswordHash: os.Getenv("MANGAPARSERS_ADMIN_PASSWORD_HASH"),
	}
}

// KomikcastConfig configures the Komikcast source plugin.
type KomikcastConfig struct {
	Domain string
	APIURL string
	NSFW   bool
}

func LoadKomikcastConfig() KomikcastConfig {
	return KomikcastConfig{
		Domain: getenv("MANGAPARSERS_KOMIKCAST_DOMAIN", "v1.komikcast.fit"),
		APIURL: strings.TrimRight(getenv("MANGAPARSERS_KOMIKCAST_API", "https://be.komikcast.fit"), "/"),
		NSFW:   getenvBool("MANGAPARSERS_KOMIKCAST_NSFW", false),
	}
}

// HTTPConfig configures the outbound web client shared by source plugins.
type HTTPConfig struct {
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
	UserAgent     string
}

func LoadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:       time.Duration(getenvInt("MANGAPARSERS_HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		RetryCount:    getenvInt("MANGAPARSERS_HTTP_RETRIES", 3),
		RetryWaitTime: time.Duration(getenvInt("MANGAPARSERS_HTTP_RETRY_WAIT_SECONDS", 2)) * time.Second,
		UserAgent: getenv("MANGAPARSERS_USER_AGENT",
			"Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0"),
	}
}

type ServerConfig struct {
	APIAddr    string
	GRPCAddr   string
	SyncAddr   string // plain TCP event feed
	NotifyAddr string // UDP datagrams per stored series
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		APIAddr:  getenv("MANGAPARSERS_API_ADDR", ":8080"),
		GRPCAddr: getenv("MANGAPARSERS_GRPC_ADDR", ":9090"),
		SyncAddr: getenv("MANGAPARSERS_SYNC_ADDR", ":9100"),

		NotifyAddr: getenv("MANGAPARSERS_NOTIFY_ADDR", ":9200"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getenvInt falls back to def when the variable is unset or not a non-negative integer.
func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
