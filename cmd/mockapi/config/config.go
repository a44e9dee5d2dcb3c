package config

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix          = "MOCKAPI"
	keyPort            = "PORT"
	keyLogLevel        = "LOG_LEVEL"
	keyCookieDomain    = "COOKIE_DOMAIN"
	keyCookieSecure    = "COOKIE_SECURE"
	keyCookieSameSite  = "COOKIE_SAMESITE"
	keyMinDuration     = "MIN_DURATION"
	keyOmitAccessToken = "OMIT_ACCESS_TOKEN"
	keyOmitCookies     = "OMIT_COOKIES"
	keySeedPassword    = "SEED_PASSWORD"
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
	c.viper.SetDefault(keyPort, 8000)
	c.viper.SetDefault(keyLogLevel, "debug")
	c.viper.SetDefault(keyCookieDomain, "")
	c.viper.SetDefault(keyCookieSecure, false)
	c.viper.SetDefault(keyCookieSameSite, "lax")
	c.viper.SetDefault(keyMinDuration, 250*time.Millisecond)
	c.viper.SetDefault(keyOmitAccessToken, false)
	c.viper.SetDefault(keyOmitCookies, false)
	c.viper.SetDefault(keySeedPassword, "1ValidPassword!")
}

func Port() int {
	return global.viper.GetInt(keyPort)
}

func LogLevel() string {
	return global.viper.GetString(keyLogLevel)
}

func CookieDomain() string {
	return global.viper.GetString(keyCookieDomain)
}

func CookieSecure() bool {
	return global.viper.GetBool(keyCookieSecure)
}

func CookieSameSite() http.SameSite {
	sameSiteStr := global.viper.GetString(keyCookieSameSite)

	var sameSite http.SameSite
	switch sameSiteStr {
	case "off":
		sameSite = http.SameSiteDefaultMode
	case "lax":
		sameSite = http.SameSiteLaxMode
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	default:
		panic("unrecognized Same-Site cookie configuration value")
	}

	return sameSite
}

// MinDuration is the minimum response time of the login and register
// endpoints.
func MinDuration() time.Duration {
	return global.viper.GetDuration(keyMinDuration)
}

func OmitAccessToken() bool {
	return global.viper.GetBool(keyOmitAccessToken)
}

func OmitCookies() bool {
	return global.viper.GetBool(keyOmitCookies)
}

// SeedPassword is the password of every seeded user.
func SeedPassword() string {
	return global.viper.GetString(keySeedPassword)
}
