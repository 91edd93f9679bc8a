// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig carries the framework settings (ports, TLS, logging,
// CORS, body limits). Everything below is specific to the study-app admin
// backend and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string
	MongoDatabase string

	// Admin session cookie. The cookie only gates page navigation; every API
	// call still carries a bearer token that is verified on its own.
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// AdminEmails is the comma-separated admin allow-list.
	AdminEmails string

	// Firebase service account: either one base64 JSON blob or the three
	// fields. Leaving all of them blank runs without an identity provider
	// (every token is rejected, bans and pushes are not mirrored).
	FirebaseServiceAccountKey string
	FirebaseProjectID         string
	FirebaseClientEmail       string
	FirebasePrivateKey        string

	// Cache backend: "memory" (per process) or "redis" (shared).
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Revenue estimate prices.
	PremiumPriceMonthly float64
	PremiumPriceYearly  float64

	// StatsSampleSize bounds the users read to extrapolate total minutes.
	StatsSampleSize int64

	// ScheduledDispatchInterval is how often due scheduled notifications are
	// polled.
	ScheduledDispatchInterval time.Duration

	// Audit logging mode: all, db, log or off.
	AuditLogMode string

	// Session endpoint rate limit, per client IP.
	SessionRateLimit  int
	SessionRateWindow time.Duration

	// Backend call deadlines.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration
}
