package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	APIKey          string
	Remote          RemoteConfig
	AllowOrigins    []string
	RateLimitPublic RateLimitConfig
	DBDSN           string
	RedisURL        string
	SubmitGuardTTL  time.Duration
	MetricsEnabled  bool
	LogLevel        string
}

// RemoteConfig descreve o backend de upload/busca.
type RemoteConfig struct {
	Provider    string
	BaseURL     string
	Timeout     time.Duration
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	// A chave vazia é aceita: o gateway responde 403 e o erro aparece no status do upload.
	cfg.APIKey = strings.TrimSpace(getEnv("API_KEY", ""))

	remote, err := loadRemote()
	if err != nil {
		return nil, err
	}
	cfg.Remote = remote

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))

	rps, err := parseFloatEnv("RATE_LIMIT_RPS", 10)
	if err != nil {
		return nil, err
	}
	burst, err := parseIntEnv("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}

	cfg.DBDSN = strings.TrimSpace(getEnv("DB_DSN", ""))
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	guardTTL, err := parseDurationEnv("SUBMIT_GUARD_TTL", 0)
	if err != nil {
		return nil, err
	}
	if guardTTL > 0 && cfg.RedisURL == "" {
		return nil, errors.New("SUBMIT_GUARD_TTL exige REDIS_URL")
	}
	cfg.SubmitGuardTTL = guardTTL

	metrics, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, errors.New("METRICS_ENABLED inválido")
	}
	cfg.MetricsEnabled = metrics

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info")))

	return cfg, nil
}

func loadRemote() (RemoteConfig, error) {
	rc := RemoteConfig{
		Provider:    strings.ToLower(strings.TrimSpace(getEnv("REMOTE_PROVIDER", "gateway"))),
		BaseURL:     strings.TrimSpace(getEnv("API_BASE_URL", "")),
		S3Endpoint:  strings.TrimSpace(getEnv("S3_ENDPOINT", "")),
		S3Region:    strings.TrimSpace(getEnv("S3_REGION", "")),
		S3Bucket:    strings.TrimSpace(getEnv("S3_BUCKET", "")),
		S3AccessKey: strings.TrimSpace(getEnv("S3_ACCESS_KEY", "")),
		S3SecretKey: strings.TrimSpace(getEnv("S3_SECRET_KEY", "")),
	}

	timeout, err := parseDurationEnv("REMOTE_TIMEOUT", 30*time.Second)
	if err != nil {
		return RemoteConfig{}, err
	}
	rc.Timeout = timeout

	switch rc.Provider {
	case "noop":
	case "gateway":
		if rc.BaseURL == "" {
			return RemoteConfig{}, errors.New("API_BASE_URL obrigatório")
		}
	case "minio", "s3":
		if rc.S3Endpoint == "" || rc.S3Bucket == "" {
			return RemoteConfig{}, errors.New("S3_ENDPOINT e S3_BUCKET obrigatórios")
		}
	default:
		return RemoteConfig{}, errors.New("REMOTE_PROVIDER inválido")
	}

	return rc, nil
}

// getEnv trata variável vazia como ausente.
func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return n, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return f, nil
}
