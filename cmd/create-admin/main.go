package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/database"
	"github.com/stemsi/daycare-backend/internal/logger"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/repository"
	"github.com/stemsi/daycare-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// ownerRole is created on first use and always holds every permission.
const ownerRole = "owner"

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

	// ─── Initialize Service ────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	adminService := service.NewAdminService(adminRepo, roleRepo)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// Role
	fmt.Printf("Enter Role (default %s): ", ownerRole)
	roleName, _ := reader.ReadString('\n')
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		roleName = ownerRole
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	// The owner role is bootstrapped here so a fresh database needs no manual SQL.
	if roleName == ownerRole {
		codes := make([]string, 0, len(model.AllPermissions))
		for _, p := range model.AllPermissions {
			codes = append(codes, string(p))
		}
		if err := roleRepo.SyncPermissionCodes(ctx, codes); err != nil {
			log.Fatal().Err(err).Msg("Failed to sync permission codes")
		}
		roleID, err := roleRepo.EnsureRole(ctx, ownerRole)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure owner role")
		}
		if _, err := roleRepo.GrantPermissions(ctx, roleID, codes); err != nil {
			log.Fatal().Err(err).Msg("Failed to grant owner permissions")
		}
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newAdmin := &model.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
	}

	// Create Admin
	if err := adminService.Create(ctx, newAdmin, roleName); err != nil {
		log.Fatal().Err(err).Str("role", roleName).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d, role %s\n", newAdmin.Name, newAdmin.Email, newAdmin.ID, newAdmin.RoleName)
}
