package main

import (
	"context"
	"fmt"

	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/database"
	"github.com/stemsi/daycare-backend/internal/logger"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/repository"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	roleRepo := repository.NewRoleRepository(pool)

	fmt.Println("=== Fix Owner Permissions ===")
	fmt.Println("This command registers every permission the server knows and grants all of them to the owner role.")

	codes := make([]string, 0, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		codes = append(codes, string(p))
	}

	// 1. Register permission codes added since the last migration.
	if err := roleRepo.SyncPermissionCodes(ctx, codes); err != nil {
		log.Fatal().Err(err).Msg("Failed to sync permission codes")
	}

	// 2. Make sure the owner role exists.
	roleID, err := roleRepo.EnsureRole(ctx, "owner")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure owner role")
	}

	// 3. Grant whatever it is missing.
	granted, err := roleRepo.GrantPermissions(ctx, roleID, codes)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to grant permissions to owner role")
	}

	fmt.Printf("\nSuccess! Owner role (ID %d) has all %d permissions; %d were newly granted.\n", roleID, len(codes), granted)
}
