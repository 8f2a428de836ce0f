// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"strings"

	authgooglefeature "github.com/dalemusser/storeadmin/internal/app/features/authgoogle"
	consolefeature "github.com/dalemusser/storeadmin/internal/app/features/console"
	dashboardfeature "github.com/dalemusser/storeadmin/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/storeadmin/internal/app/features/errors"
	healthfeature "github.com/dalemusser/storeadmin/internal/app/features/health"
	loginfeature "github.com/dalemusser/storeadmin/internal/app/features/login"
	logoutfeature "github.com/dalemusser/storeadmin/internal/app/features/logout"
	productsfeature "github.com/dalemusser/storeadmin/internal/app/features/products"
	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/auth"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// It boots the template engine, applies CORS and session middleware, and
// mounts the JSON API, the auth endpoints and the console route tree.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request: role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	images, err := buildImageStore(appCfg)
	if err != nil {
		logger.Error("image store init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	googleEnabled := appCfg.GoogleEnabled()

	r := chi.NewRouter()

	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/assets/*", fileserver.Handler("/assets", "public"))
	if appCfg.StorageType == "local" {
		prefix := localURLPrefix(appCfg)
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/api/auth", loginfeature.APIRoutes(loginHandler, sessionMgr))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(db, sessionMgr, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// JSON API
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/api/admin/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	productsHandler := productsfeature.NewHandler(db, images, logger)
	r.Mount("/api/products", productsfeature.Routes(productsHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)

	// Console route tree (sign-in page, home, /dashboard/...)
	consoleHandler := consolefeature.NewHandler(db, googleEnabled, errorsHandler.NotFound, logger)
	r.Mount("/", consolefeature.Routes(consoleHandler))

	r.NotFound(errorsHandler.NotFound)

	return r, nil
}

// buildImageStore picks the product image backend named by storage_type.
func buildImageStore(appCfg AppConfig) (storage.Store, error) {
	if appCfg.StorageType == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()
		return storage.NewS3(ctx, storage.S3Config{
			Region:  appCfg.StorageS3Region,
			Bucket:  appCfg.StorageS3Bucket,
			Prefix:  appCfg.StorageS3Prefix,
			BaseURL: appCfg.StorageS3URL,
		})
	}
	return storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  localURLPrefix(appCfg),
	})
}

// localURLPrefix is where local images are served and what their URLs start with.
func localURLPrefix(appCfg AppConfig) string {
	return "/" + strings.Trim(appCfg.StorageLocalURL, "/")
}
