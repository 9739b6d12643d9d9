package facade

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/store"
)

// Demo account credentials created by SeedDemo.
const (
	DemoPatientEmail   = "patient@example.com"
	DemoCaretakerEmail = "caretaker@example.com"
	DemoPassword       = "password123"
)

// SeedDemo creates a linked demo patient and caretaker with a sample
// schedule, medication, walking route and the three games. It does nothing
// when the demo patient already exists.
func (f *Facade) SeedDemo(ctx context.Context) error {
	patient, err := f.Identity.SignUp(ctx, DemoPatientEmail, DemoPassword, domain.RolePatient, "John Patient")
	if errors.Is(err, store.ErrEmailExists) {
		f.logger.Info("demo data already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed patient: %w", err)
	}
	caretaker, err := f.Identity.SignUp(ctx, DemoCaretakerEmail, DemoPassword, domain.RoleCaretaker, "Sarah Caretaker")
	if err != nil {
		return fmt.Errorf("seed caretaker: %w", err)
	}
	if err := f.Identity.ConnectToPatient(ctx, caretaker.ID, patient.ID); err != nil {
		return fmt.Errorf("seed link: %w", err)
	}

	pid := patient.ID
	for _, item := range []domain.ScheduleItem{
		{Time: "08:00 AM", Title: "Morning Medication", Type: "medication"},
		{Time: "09:30 AM", Title: "Memory Game Session", Type: "activity"},
		{Time: "10:30 AM", Title: "Morning Walk", Type: "exercise"},
		{Time: "12:00 PM", Title: "Lunch Time", Type: "meal"},
		{Time: "02:00 PM", Title: "Afternoon Medication", Type: "medication"},
	} {
		item.PatientID = pid
		if _, err := f.Schedule.Add(ctx, caretaker.ID, item); err != nil {
			return fmt.Errorf("seed schedule: %w", err)
		}
	}

	if _, err := f.Medications.Add(ctx, caretaker.ID, domain.Medication{
		PatientID:    pid,
		Name:         "Donepezil",
		Dosage:       "5mg",
		Time:         "08:00 AM",
		Frequency:    "Daily",
		Instructions: "Take with breakfast",
	}); err != nil {
		return fmt.Errorf("seed medication: %w", err)
	}

	if _, err := f.Routes.Add(ctx, caretaker.ID, domain.WalkingRoute{
		PatientID: pid,
		Name:      "Morning Walk",
		Coordinates: []domain.Coordinate{
			{Latitude: 37.78825, Longitude: -122.4324},
			{Latitude: 37.78925, Longitude: -122.4344},
			{Latitude: 37.79025, Longitude: -122.4354},
		},
	}); err != nil {
		return fmt.Errorf("seed route: %w", err)
	}

	home := domain.Coordinate{Latitude: 37.78825, Longitude: -122.4324}
	if _, err := f.SetSafeZone(ctx, caretaker.ID, pid, home, domain.DefaultSafeZoneRadius); err != nil {
		return fmt.Errorf("seed safe zone: %w", err)
	}

	for _, def := range []domain.GameDefinition{
		{Title: "Memory Match", Description: "Match pairs of cards", Variant: domain.VariantPairMatching,
			Difficulty: domain.DifficultyEasy, Duration: "5 min"},
		{Title: "Word Puzzle", Description: "Unscramble the letters", Variant: domain.VariantWordUnscramble,
			Difficulty: domain.DifficultyMedium, Duration: "10 min"},
		{Title: "Pattern Recognition", Description: "Find the next number", Variant: domain.VariantSequenceInference,
			Difficulty: domain.DifficultyHard, Duration: "8 min"},
	} {
		def.PatientID = pid
		if _, err := f.Games.Add(ctx, caretaker.ID, def); err != nil {
			return fmt.Errorf("seed game: %w", err)
		}
	}

	f.logger.Info("demo data seeded", "patient_id", pid, "caretaker_id", caretaker.ID)
	return nil
}
