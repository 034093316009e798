package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/daycare-backend/internal/billing"
	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/database"
	"github.com/stemsi/daycare-backend/internal/logger"
	"github.com/stemsi/daycare-backend/internal/model"
	"github.com/stemsi/daycare-backend/internal/repository"
	"github.com/stemsi/daycare-backend/internal/service"
)

// quietActivity keeps seeded rows out of the history log.
type quietActivity struct{}

func (quietActivity) Record(context.Context, model.ActivityEntry) {}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	studentService := service.NewStudentService(repository.NewStudentRepository(pool), quietActivity{}, cfg.Now, zerolog.Nop())
	staffService := service.NewStaffService(repository.NewStaffRepository(pool), quietActivity{}, cfg.Now)

	names := []string{
		"Alice Moreau", "Bruno Costa", "Clara Nguyen", "Diego Alves", "Emma Schmidt",
		"Felix Dubois", "Gaia Rossi", "Hugo Martins", "Iris Tanaka", "Jonas Weber",
		"Kira Novak", "Liam O'Brien", "Maya Haddad", "Noah Fischer", "Olivia Santos",
		"Pablo Ruiz", "Quinn Harper", "Rosa Lima", "Samir Khan", "Tara Jensen",
	}

	// Spread start dates from four months ago into next month so every
	// billing window and tier has examples.
	today := billing.DateOf(cfg.Now())
	first := billing.PeriodOf(today).First()

	fmt.Printf("=== Seeding %d Students ===\n", len(names))

	successCount := 0
	for i, name := range names {
		sched := config.Schedules[i%len(config.Schedules)]
		start := first.AddDays(-120 + i*8)

		req := &model.CreateStudentRequest{
			Name:              name,
			GuardianName:      "Guardian of " + name,
			GuardianPhone:     fmt.Sprintf("+1555%07d", i+1),
			StartDate:         start.String(),
			ScheduleID:        sched.ID,
			ExtendedSchedule:  i%5 == 0,
			EnrollmentFeePaid: i%3 == 0,
		}
		// Every fourth child leaves at the end of next month.
		if i%4 == 3 {
			req.PlannedEndDate = billing.PeriodOf(today).Next().Last().String()
		}

		if _, err := studentService.Create(ctx, 0, req); err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		successCount++
		if (i+1)%5 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
	}

	staff := []model.CreateStaffRequest{
		{Name: "Helen Park", Role: "teacher"},
		{Name: "Marco Bianchi", Role: "assistant"},
		{Name: "Nadia Petrova", Role: "front desk"},
	}
	for _, s := range staff {
		req := s
		if _, err := staffService.Create(ctx, 0, &req); err != nil {
			fmt.Printf("Error creating staff %s: %v\n", s.Name, err)
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students and %d staff.\n", successCount, len(names), len(staff))
}
