// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/storeadmin/internal/app/resources"
	userstore "github.com/dalemusser/storeadmin/internal/app/store/users"
	"github.com/dalemusser/storeadmin/internal/app/system/authutil"
	"github.com/dalemusser/storeadmin/internal/app/system/normalize"
	"github.com/dalemusser/storeadmin/internal/app/system/timeouts"
	"github.com/dalemusser/storeadmin/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("overrides", n))
	}

	resources.LoadSharedTemplates()

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("admin bootstrap: %w", err)
		}
	}
	return nil
}

// ensureAdmin makes sure the configured console admin exists.
//
// A missing account is created: with a password when one is configured,
// otherwise as a Google account. An existing account is promoted to an
// active admin, and gets the configured password only if it has none.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	email = normalize.Email(email)
	if !authutil.IsValidEmail(email) {
		return fmt.Errorf("invalid admin email %q", email)
	}

	users := userstore.New(deps.MongoDatabase)
	existing, err := users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		return err
	}

	if existing == nil {
		u := models.User{
			FullName:   "Administrator",
			Email:      email,
			Role:       models.RoleAdmin,
			Status:     models.StatusActive,
			AuthMethod: models.AuthMethodGoogle,
		}
		if password != "" {
			hash, err := hashAdminPassword(password)
			if err != nil {
				return err
			}
			u.AuthMethod = models.AuthMethodPassword
			u.PasswordHash = hash
		}
		if _, err := users.Create(ctx, u); err != nil {
			return err
		}
		logger.Info("admin account created",
			zap.String("email", email),
			zap.String("auth_method", u.AuthMethod))
		return nil
	}

	if existing.Role != models.RoleAdmin || existing.Status != models.StatusActive {
		if err := users.Promote(ctx, existing.ID); err != nil {
			return err
		}
		logger.Info("account promoted to admin",
			zap.String("email", email),
			zap.String("previous_role", existing.Role))
	}

	if existing.PasswordHash == "" && password != "" {
		hash, err := hashAdminPassword(password)
		if err != nil {
			return err
		}
		if err := users.SetPassword(ctx, existing.ID, hash); err != nil {
			return err
		}
		logger.Info("admin password set", zap.String("email", email))
	}
	return nil
}

func hashAdminPassword(pw string) (string, error) {
	if err := authutil.ValidatePassword(pw); err != nil {
		return "", fmt.Errorf("admin password: %w", err)
	}
	return authutil.HashPassword(pw)
}
