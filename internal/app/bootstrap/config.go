// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/firebaseapp"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// appConfigKeys defines the configuration keys for StudyHub, loadable from
// config files, STUDYHUB_* environment variables and --flags.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "studyhub", Desc: "MongoDB database name"},

	{Name: "session_key", Default: "", Desc: "Admin session signing key (random per process when blank)"},
	{Name: "session_name", Default: "studyhub-admin", Desc: "Admin session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Admin session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Admin session lifetime"},

	{Name: "admin_emails", Default: "", Desc: "Comma-separated admin allow-list"},

	// Firebase service account
	{Name: "firebase_service_account_key", Default: "", Desc: "Base64-encoded service account JSON"},
	{Name: "firebase_project_id", Default: "", Desc: "Firebase project id (when no key blob is given)"},
	{Name: "firebase_client_email", Default: "", Desc: "Service account client email"},
	{Name: "firebase_private_key", Default: "", Desc: "Service account private key (\\n escapes allowed)"},

	// Cache
	{Name: "cache_backend", Default: CacheMemory, Desc: "Cache backend: 'memory' or 'redis'"},
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address for the shared cache"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "redis_prefix", Default: "studyhub", Desc: "Redis key prefix"},

	// Premium revenue estimate
	{Name: "premium_price_monthly", Default: "29", Desc: "Monthly plan price used for revenue estimates"},
	{Name: "premium_price_yearly", Default: "200", Desc: "Yearly plan price used for revenue estimates"},

	{Name: "stats_sample_size", Default: 1000, Desc: "Users sampled to extrapolate total study minutes"},
	{Name: "scheduled_dispatch_interval", Default: "1m", Desc: "Polling interval for scheduled notifications"},

	{Name: "audit_log", Default: auditlog.ModeAll, Desc: "Admin audit logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "session_rate_limit", Default: 10, Desc: "Session endpoint attempts per IP per window"},
	{Name: "session_rate_window", Default: "15m", Desc: "Session endpoint rate limit window"},

	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and counts"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-collection mutations and analytics"},
	{Name: "timeout_batch", Default: "5m", Desc: "Deadline for a notification fan-out"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	monthly, err := parsePrice("premium_price_monthly", appValues.String("premium_price_monthly"))
	if err != nil {
		return nil, AppConfig{}, err
	}
	yearly, err := parsePrice("premium_price_yearly", appValues.String("premium_price_yearly"))
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		AdminEmails: appValues.String("admin_emails"),

		FirebaseServiceAccountKey: appValues.String("firebase_service_account_key"),
		FirebaseProjectID:         appValues.String("firebase_project_id"),
		FirebaseClientEmail:       appValues.String("firebase_client_email"),
		FirebasePrivateKey:        appValues.String("firebase_private_key"),

		CacheBackend:  strings.ToLower(strings.TrimSpace(appValues.String("cache_backend"))),
		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		RedisPrefix:   appValues.String("redis_prefix"),

		PremiumPriceMonthly: monthly,
		PremiumPriceYearly:  yearly,

		StatsSampleSize:           int64(appValues.Int("stats_sample_size")),
		ScheduledDispatchInterval: appValues.Duration("scheduled_dispatch_interval", time.Minute),

		AuditLogMode: appValues.String("audit_log"),

		SessionRateLimit:  appValues.Int("session_rate_limit"),
		SessionRateWindow: appValues.Duration("session_rate_window", 15*time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
		TimeoutBatch:  appValues.Duration("timeout_batch", 5*time.Minute),
	}

	return coreCfg, appCfg, nil
}

func parsePrice(key, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", key, raw)
	}
	return v, nil
}

func (c AppConfig) firebaseCredentials() firebaseapp.Credentials {
	return firebaseapp.Credentials{
		ServiceAccountKey: c.FirebaseServiceAccountKey,
		ProjectID:         c.FirebaseProjectID,
		ClientEmail:       c.FirebaseClientEmail,
		PrivateKey:        c.FirebasePrivateKey,
	}
}

// ValidateConfig rejects configurations that cannot start: a malformed Mongo
// URI, partial Firebase credentials, an unknown cache backend or audit mode.
// An empty admin allow-list only warns; the service then admits nobody.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if creds := appCfg.firebaseCredentials(); creds.Configured() {
		if _, _, err := creds.Resolve(); err != nil {
			return err
		}
	} else {
		logger.Warn("no firebase credentials configured; admin tokens will be rejected and pushes will fail")
	}

	switch appCfg.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if appCfg.RedisAddr == "" {
			return fmt.Errorf("cache_backend redis requires redis_addr")
		}
	default:
		return fmt.Errorf("cache_backend must be %q or %q, got %q", CacheMemory, CacheRedis, appCfg.CacheBackend)
	}

	switch appCfg.AuditLogMode {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log must be all, db, log or off, got %q", appCfg.AuditLogMode)
	}

	if appCfg.SessionRateLimit <= 0 {
		return fmt.Errorf("session_rate_limit must be positive")
	}
	if appCfg.ScheduledDispatchInterval <= 0 {
		return fmt.Errorf("scheduled_dispatch_interval must be positive")
	}

	if len(strings.TrimSpace(appCfg.AdminEmails)) == 0 {
		logger.Warn("admin_emails is empty; no one can use the admin API")
	}
	return nil
}
