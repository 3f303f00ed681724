package bootstrap

import (
	"context"
	"fmt"

	"medcare-api/config"
	"medcare-api/internal/infrastructure/database"
	"medcare-api/internal/repository"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/jwt"
)

// Migrate applies ("up") or rolls back one step of ("down") the embedded schema migrations.
func Migrate(configPath, direction string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := NewLogger(cfg.App)

	switch direction {
	case "", "up":
		return database.MigrateUp(cfg.DB.URL(), log)
	case "down":
		return database.MigrateDown(cfg.DB.URL(), log)
	default:
		return fmt.Errorf("unknown migration direction %q, expected up or down", direction)
	}
}

// AdminAccount is the input for CreateAdmin.
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// CreateAdmin seeds a verified administrator directly in the database.
func CreateAdmin(ctx context.Context, configPath string, account AdminAccount) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := NewLogger(cfg.App)

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	userRepo := repository.NewUserRepository(db)
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository(db))

	// Seeding never issues tokens, so no token store is attached.
	authUsecase := usecase.NewAuthUsecase(log, userRepo, nil, jwt.NewJWTService(cfg.JWT), auditService)

	user, err := authUsecase.CreateAdmin(ctx, account.Email, account.Password, account.FirstName, account.LastName)
	if err != nil {
		return err
	}

	log.Infof("Admin %s (%s) is ready", user.Email, user.ID)
	return nil
}
