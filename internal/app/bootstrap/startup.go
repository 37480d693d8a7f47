// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	credentialstore "github.com/dalemusser/kinhub/internal/app/store/credentials"
	"github.com/dalemusser/kinhub/internal/app/system/timeouts"
	"github.com/dalemusser/kinhub/internal/app/system/workers"
	"github.com/dalemusser/kinhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// lockoutSweep runs for the life of the process; Shutdown stops it.
var lockoutSweep *workers.LockoutSweep

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminUsername != "" {
		if err := ensureBootstrapAdmin(ctx, deps, appCfg, logger); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	lockoutSweep = workers.NewLockoutSweep(
		credentialstore.New(deps.MongoDatabase), logger, 5*time.Minute)
	lockoutSweep.Start()

	return nil
}

// ensureBootstrapAdmin guarantees an admin credential exists: a missing
// one is created from admin_username/admin_password, an existing one is
// promoted to dba. The member serNo stays 0; the bootstrap admin is an
// operator account, not a registry member.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	creds := credentialstore.New(deps.MongoDatabase)

	lookupCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	existing, err := creds.GetByUsername(lookupCtx, appCfg.AdminUsername)
	if err != nil && !errors.Is(err, credentialstore.ErrNotFound) {
		return err
	}

	if existing != nil {
		if existing.Role == "dba" {
			return nil
		}
		if err := creds.SetRole(ctx, existing.ID, "dba"); err != nil {
			return err
		}
		logger.Info("promoted bootstrap admin",
			zap.String("username", existing.Username),
			zap.String("previous_role", existing.Role))
		return nil
	}

	if appCfg.AdminPassword == "" {
		logger.Warn("bootstrap admin does not exist and admin_password is empty; skipping creation",
			zap.String("username", appCfg.AdminUsername))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), appCfg.BcryptCost)
	if err != nil {
		return err
	}

	_, err = creds.Insert(ctx, models.LoginCredential{
		Username:     appCfg.AdminUsername,
		Email:        appCfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         "dba",
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	logger.Info("created bootstrap admin",
		zap.String("username", appCfg.AdminUsername))
	return nil
}
