package config

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "VITALIS"
	keyAPIBaseURL        = "API_BASE_URL"
	keyIdentityTimeout   = "IDENTITY_TIMEOUT"
	keyTokenStore        = "TOKEN_STORE"
	keyTokenDir          = "TOKEN_DIR"
	keyRedisAddr         = "REDIS_ADDR"
	keyRedisPassword     = "REDIS_PASSWORD"
	keyTokenNamespace    = "TOKEN_NAMESPACE"
	keySupplementReviews = "SUPPLEMENT_REVIEWS"
	keyLogLevel          = "LOG_LEVEL"
)

const defaultIdentityTimeout = 3 * time.Second

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

var global *config

func init() {
	c := &config{
		viper: viper.New(),
	}
	c.viper.SetEnvPrefix(envPrefix)
	c.viper.AutomaticEnv()
	c.loadDefaults()
	global = c
}

type config struct {
	viper *viper.Viper
}

func (c *config) loadDefaults() {
	tokenDir := ".vitalis"
	if home, err := os.UserHomeDir(); err == nil {
		tokenDir = filepath.Join(home, ".vitalis")
	}

	c.viper.SetDefault(keyAPIBaseURL, "http://localhost:8000")
	c.viper.SetDefault(keyIdentityTimeout, defaultIdentityTimeout)
	c.viper.SetDefault(keyTokenStore, TokenStoreFile)
	c.viper.SetDefault(keyTokenDir, tokenDir)
	c.viper.SetDefault(keyRedisAddr, "localhost:6379")
	c.viper.SetDefault(keyRedisPassword, "")
	c.viper.SetDefault(keyTokenNamespace, "")
	c.viper.SetDefault(keySupplementReviews, "")
	c.viper.SetDefault(keyLogLevel, "warn")
}

func APIBaseURL() string {
	return global.viper.GetString(keyAPIBaseURL)
}

// IdentityTimeout bounds a single identity fetch. A value without a unit is
// read as seconds. Values that are not positive fall back to the default.
func IdentityTimeout() time.Duration {
	return global.identityTimeout()
}

func (c *config) identityTimeout() time.Duration {
	timeout := c.viper.GetDuration(keyIdentityTimeout)

	raw := strings.TrimSpace(c.viper.GetString(keyIdentityTimeout))
	if seconds, err := strconv.ParseFloat(raw, 64); err == nil && math.Abs(seconds) < math.MaxInt32 {
		timeout = time.Duration(seconds * float64(time.Second))
	}

	if timeout <= 0 {
		return defaultIdentityTimeout
	}
	return timeout
}

// TokenStore is one of TokenStoreFile, TokenStoreRedis or TokenStoreMemory.
func TokenStore() string {
	return global.viper.GetString(keyTokenStore)
}

func TokenDir() string {
	return global.viper.GetString(keyTokenDir)
}

func RedisAddr() string {
	return global.viper.GetString(keyRedisAddr)
}

func RedisPassword() string {
	return global.viper.GetString(keyRedisPassword)
}

func TokenNamespace() string {
	return global.viper.GetString(keyTokenNamespace)
}

// SupplementReviews is the raw value of the supplement reviews feature flag.
func SupplementReviews() string {
	return global.viper.GetString(keySupplementReviews)
}

func LogLevel() string {
	return global.viper.GetString(keyLogLevel)
}
