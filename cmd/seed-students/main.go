package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/bonafide-backend/internal/config"
	"github.com/stemsi/bonafide-backend/internal/database"
	"github.com/stemsi/bonafide-backend/internal/logger"
	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/stemsi/bonafide-backend/internal/repository"
	"github.com/stemsi/bonafide-backend/internal/service"
	"github.com/stemsi/bonafide-backend/internal/session"
)

const (
	demoCollege  = "Greenwood University"
	demoPassword = "password123"
)

var names = []string{
	"Asha Rao", "Ben Ito", "Chidi Okafor", "Dana Levi", "Elif Demir",
	"Farah Khan", "Gabriel Costa", "Hana Sato", "Ivan Petrov", "Jia Li",
	"Kofi Mensah", "Lucia Romero", "Mateo Silva", "Nadia Haddad", "Omar Aziz",
	"Priya Nair", "Quinn Walsh", "Rina Tanaka", "Samir Gupta", "Tara Byrne",
}

func main() {
	count := flag.Int("n", len(names), "Number of students to seed")
	flag.Parse()
	if *count > len(names) {
		*count = len(names)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "seed-students")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if cfg.StoreBackend != config.BackendPostgres {
		log.Fatal().Msg("seed-students needs STORE_BACKEND=postgres")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	authService := service.NewAuthService(cfg, session.NewMemoryStore())
	identityService := service.NewIdentityService(repository.NewPostgresIdentityRepository(pool), authService, log)
	ledgerService := service.NewLedgerService(repository.NewPostgresLedgerRepository(pool), identityService,
		nil, nil, service.PolicyFromConfig(cfg), log)

	if err := identityService.SeedDemo(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo admin")
	}

	colleges, err := identityService.ListColleges(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list colleges")
	}
	var collegeID string
	for _, c := range colleges {
		if c.Name == demoCollege {
			collegeID = c.ID
			break
		}
	}
	if collegeID == "" {
		log.Fatal().Str("college", demoCollege).Msg("Demo college not found")
	}

	fmt.Printf("=== Seeding %d Students into %s ===\n", *count, demoCollege)

	successCount := 0
	for i := 0; i < *count; i++ {
		user, err := identityService.Register(ctx, &model.SignupRequest{
			FullName:        names[i],
			Email:           fmt.Sprintf("student%02d@greenwood.edu", i+1),
			Password:        demoPassword,
			ConfirmPassword: demoPassword,
			Role:            model.RoleStudent,
			RollNo:          fmt.Sprintf("GW-%04d", i+1),
			Department:      model.Departments[i%len(model.Departments)],
			Course:          model.Courses[i%len(model.Courses)],
			CollegeID:       collegeID,
		})
		if err != nil {
			if errors.Is(err, service.ErrDuplicateEmail) {
				continue
			}
			fmt.Printf("Error creating student %s: %v\n", names[i], err)
			continue
		}

		student, err := identityService.StudentForUser(ctx, user.ID)
		if err != nil {
			fmt.Printf("Error loading student %s: %v\n", names[i], err)
			continue
		}

		_, err = ledgerService.Submit(ctx, student, &model.SubmitRequestRequest{
			Purpose:      model.Purposes[i%len(model.Purposes)],
			AcademicYear: "2024-2025",
			Year:         fmt.Sprintf("%d%s", i%4+1, ordinalSuffix(i%4+1)),
			ContactInfo:  fmt.Sprintf("+1 555 01%02d", i+1),
		})
		if err != nil {
			fmt.Printf("Error submitting request for %s: %v\n", names[i], err)
			continue
		}

		successCount++
		if successCount%5 == 0 {
			fmt.Printf("Created %d students...\n", successCount)
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d students with a pending request each. Password: %s\n", successCount, *count, demoPassword)
}

func ordinalSuffix(n int) string {
	switch n {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
