// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"path/filepath"

	analyticsfeature "github.com/dalemusser/studyhub/internal/app/features/analytics"
	auditlogfeature "github.com/dalemusser/studyhub/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/studyhub/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/studyhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/studyhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/studyhub/internal/app/features/logout"
	notificationsfeature "github.com/dalemusser/studyhub/internal/app/features/notifications"
	premiumfeature "github.com/dalemusser/studyhub/internal/app/features/premium"
	publicstatsfeature "github.com/dalemusser/studyhub/internal/app/features/publicstats"
	reportsfeature "github.com/dalemusser/studyhub/internal/app/features/reports"
	roomsfeature "github.com/dalemusser/studyhub/internal/app/features/rooms"
	statsfeature "github.com/dalemusser/studyhub/internal/app/features/stats"
	usersfeature "github.com/dalemusser/studyhub/internal/app/features/users"
	auditstore "github.com/dalemusser/studyhub/internal/app/store/audit"
	metricsstore "github.com/dalemusser/studyhub/internal/app/store/metrics"
	reportstore "github.com/dalemusser/studyhub/internal/app/store/reports"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/accounts"
	"github.com/dalemusser/studyhub/internal/app/system/adminauth"
	"github.com/dalemusser/studyhub/internal/app/system/auditlog"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// publicDir holds the static admin shells and their assets.
const publicDir = "public"

// BuildHandler constructs the root HTTP handler.
//
// Layout:
//
//	/health                   liveness of MongoDB and the cache
//	/api/public/stats         landing-page counters (no auth)
//	/api/admin/session        POST sign in, DELETE sign out
//	/api/admin/verify         token check for the admin shell
//	/api/admin/...            admin API, bearer token on every request
//	/api/admin/audit          admin action trail
//	/admin, /admin/login      static admin shells
//	/static/*                 shell assets
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	c := deps.Cache
	audit := auditlog.NewStore(auditstore.New(db), logger, auditlog.Config{Mode: appCfg.AuditLogMode})

	var (
		tokens  adminauth.TokenVerifier
		userAcc usersfeature.Accounts = accounts.Noop{}
	)
	if deps.Firebase != nil {
		tokens = deps.Firebase.Auth
		userAcc = accounts.NewFirebase(deps.Firebase.Auth)
	}
	verifier := adminauth.NewVerifier(tokens, adminauth.NewAllowList(appCfg.AdminEmails), logger)

	// Only the shared backend can be down; the in-process cache reports "memory".
	var cachePinger healthfeature.Pinger
	if p, ok := deps.Cache.(healthfeature.Pinger); ok {
		cachePinger = p
	}

	limiter := ratelimit.New(appCfg.SessionRateLimit, appCfg.SessionRateWindow)
	if deps.Background != nil {
		limiter = deps.Background.SessionLimiter
	}

	metrics := metricsstore.NewReader(db, appCfg.StatsSampleSize)
	pricing := premiumfeature.Pricing{Monthly: appCfg.PremiumPriceMonthly, Yearly: appCfg.PremiumPriceYearly}

	loginHandler := loginfeature.NewHandler(verifier, sessionMgr, limiter, audit, logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
	usersHandler := usersfeature.NewHandler(db, userAcc, c, audit, logger)
	roomsHandler := roomsfeature.NewHandler(db, c, audit, logger)
	reportsHandler := reportsfeature.NewHandler(db, c, audit, logger)
	premiumHandler := premiumfeature.NewHandler(db, pricing, c, audit, logger)
	notificationsHandler := notificationsfeature.NewHandler(db, deps.Fanout, c, audit, logger)
	statsHandler := statsfeature.NewHandler(metrics, c, logger)
	analyticsHandler := analyticsfeature.NewHandler(metrics, roomstore.New(db), c, logger)
	auditHandler := auditlogfeature.NewHandler(db, logger)
	dashboardHandler := dashboardfeature.NewHandler(metrics, userstore.New(db), reportstore.NewUserReports(db), c, logger)

	r := chi.NewRouter()

	// Admin pages need a session cookie; admin API calls need one too except
	// on the session and verify endpoints.
	r.Use(sessionMgr.RequireAdminSession)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(healthfeature.MongoPinger{Client: deps.MongoClient}, cachePinger, logger)))
	r.Mount("/api/public/stats", publicstatsfeature.Routes(publicstatsfeature.NewHandler(metrics, c, logger)))

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			loginHandler.MountSession(r)
			logoutHandler.MountRoutes(r)
		})
		r.Route("/verify", func(r chi.Router) {
			loginHandler.MountVerify(r, verifier.RequireAdmin)
		})

		r.Group(func(r chi.Router) {
			r.Use(verifier.RequireAdmin)
			r.Route("/users", usersHandler.MountRoutes)
			r.Route("/rooms", roomsHandler.MountRoutes)
			r.Route("/reports", reportsHandler.MountUserReports)
			r.Route("/message-reports", reportsHandler.MountMessageReports)
			r.Route("/user-reports", reportsHandler.MountRoomUserReports)
			r.Route("/premium", premiumHandler.MountRoutes)
			r.Route("/notifications", notificationsHandler.MountRoutes)
			r.Route("/stats", statsHandler.MountRoutes)
			r.Route("/analytics", analyticsHandler.MountRoutes)
			r.Route("/dashboard", dashboardHandler.MountRoutes)
			r.Route("/audit", auditHandler.MountRoutes)
		})
	})

	r.Handle("/static/*", fileserver.Handler("/static", filepath.Join(publicDir, "static")))
	r.Get("/admin/login", shell("login.html"))
	r.Get("/admin", shell("index.html"))
	r.Get("/admin/*", shell("index.html"))

	return r, nil
}

// shell serves one static admin page; the page itself talks to the API.
func shell(name string) http.HandlerFunc {
	path := filepath.Join(publicDir, "admin", name)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, path)
	}
}
