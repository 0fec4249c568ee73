package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/database"
	"github.com/stemsi/bonafide-backend/internal/logger"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/repository"
	"github.com/stemsi/bonafide-backend/internal/service"
	"github.com/stemsi/bonafide-backend/internal/session"
	"github.com/stemsi/bonafide-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "create-admin")

	if cfg.StoreBackend != config.BackendPostgres {
		fmt.Println("Error: create-admin needs STORE_BACKEND=postgres; the memory store does not outlive this process")
		os.Exit(1)
	}

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	validator.Setup()
	authService := service.NewAuthService(cfg, session.NewMemoryStore())
	identityService := service.NewIdentityService(repository.NewPostgresIdentityRepository(pool), authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin & College ===")

	name := prompt(reader, "Enter Full Name: ")
	email := prompt(reader, "Enter Email: ")

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println() // Newline after password input

	fmt.Print("Confirm Password: ")
	byteConfirm, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println()

	collegeName := prompt(reader, "Enter College Name: ")
	collegeAddress := prompt(reader, "Enter College Address: ")
	collegeLogo := prompt(reader, "Enter College Logo URL (optional): ")

	req := &model.SignupRequest{
		FullName:        name,
		Email:           email,
		Password:        string(bytePassword),
		ConfirmPassword: string(byteConfirm),
		Role:            model.RoleAdmin,
		CollegeName:     collegeName,
		CollegeAddress:  collegeAddress,
		CollegeLogo:     collegeLogo,
	}
	if fields := validator.Struct(req); fields != nil {
		for field, msg := range fields {
			fmt.Printf("Error: %s: %s\n", field, msg)
		}
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := identityService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			fmt.Println("Error: Email is already registered")
		case errors.Is(err, service.ErrPasswordMismatch):
			fmt.Println("Error: Passwords do not match")
		case errors.Is(err, service.ErrPasswordTooShort):
			fmt.Printf("Error: Password must be at least %d characters\n", service.MinPasswordLength)
		default:
			log.Fatal().Err(err).Msg("Failed to create admin")
		}
		os.Exit(1)
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %s\n", user.FullName, user.Email, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
