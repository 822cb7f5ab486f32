package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mymai1208/AntiBot/internal/pkg/validate"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort       string `validate:"required"`
	AppEnv        string
	PublicBaseURL string `validate:"required,url"` // prefix of the link handed to members

	DiscordToken       string `validate:"required"`
	TurnstileSecret    string `validate:"required"`
	TurnstileSiteKey   string
	TurnstileVerifyURL string `validate:"required,url"`

	ConfigBackend     string `validate:"oneof=file s3 dynamodb"`
	ConfigPath        string `validate:"required_if=ConfigBackend file"`
	ConfigS3Bucket    string `validate:"required_if=ConfigBackend s3"`
	ConfigS3Key       string `validate:"required_if=ConfigBackend s3"`
	ConfigDynamoTable string `validate:"required_if=ConfigBackend dynamodb"`

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	ChallengeTimeout time.Duration `validate:"gt=0"`
	GrantTimeout     time.Duration `validate:"gt=0"`
	KeyTTL           time.Duration `validate:"gte=0"` // 0 disables expiry
	KeySweepInterval time.Duration `validate:"gt=0"`
	SetupTimeout     time.Duration `validate:"gt=0,lt=15m"` // follow-up tokens live 15 minutes

	AllowedOrigins []string       // CORS allowed origins
	TrustedProxies []netip.Prefix // peers whose X-Forwarded-For / X-Real-Ip are honoured
}

// Load reads all configuration from environment variables and validates it.
// A missing secret is an error: the process must not start without one.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "3000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		DiscordToken:       os.Getenv("DISCORD_TOKEN"),
		TurnstileSecret:    os.Getenv("TURNSTILE_SECRET"),
		TurnstileSiteKey:   getEnv("TURNSTILE_SITE_KEY", ""),
		TurnstileVerifyURL: getEnv("TURNSTILE_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),

		ConfigBackend:     getEnv("CONFIG_BACKEND", "file"),
		ConfigPath:        getEnv("CONFIG_PATH", "config.json"),
		ConfigS3Bucket:    getEnv("CONFIG_S3_BUCKET", ""),
		ConfigS3Key:       getEnv("CONFIG_S3_KEY", "config.json"),
		ConfigDynamoTable: getEnv("CONFIG_DYNAMO_TABLE", "antibot_config"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		ChallengeTimeout: getEnvDuration("CHALLENGE_TIMEOUT", 10*time.Second),
		GrantTimeout:     getEnvDuration("GRANT_TIMEOUT", 10*time.Second),
		KeyTTL:           getEnvDuration("KEY_TTL", 30*time.Minute),
		KeySweepInterval: getEnvDuration("KEY_SWEEP_INTERVAL", time.Minute),
		SetupTimeout:     getEnvDuration("SETUP_TIMEOUT", 15*time.Second),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
	proxies, err := parsePrefixes(getEnv("TRUSTED_PROXIES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "15m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := getEnvInt(key, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// parsePrefixes reads a comma-separated list of CIDRs or bare addresses.
func parsePrefixes(v string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, f := range strings.Split(v, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !strings.Contains(f, "/") {
			addr, err := netip.ParseAddr(f)
			if err != nil {
				return nil, err
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		p, err := netip.ParsePrefix(f)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Masked())
	}
	return out, nil
}
