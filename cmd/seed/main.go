package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chorebattle/backend/internal/auth"
	"github.com/chorebattle/backend/internal/config"
	"github.com/chorebattle/backend/internal/db"
	"github.com/chorebattle/backend/internal/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	if err := gdb.AutoMigrate(
		&model.User{},
		&model.Household{},
		&model.ChoreRank{},
		&model.ChoreFrequency{},
		&model.Chore{},
		&model.ChoreCompletion{},
		&model.PointHistory{},
		&model.Reward{},
		&model.RewardClaim{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var userCount int64
	if err := gdb.WithContext(ctx).Model(&model.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("users already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hash, err := auth.HashPassword("password123")
		if err != nil {
			return err
		}

		alice := &model.User{Email: "alice@example.com", Name: "Alice", Password: hash}
		bob := &model.User{Email: "bob@example.com", Name: "Bob", Password: hash}
		if err := tx.Create(alice).Error; err != nil {
			return err
		}
		if err := tx.Create(bob).Error; err != nil {
			return err
		}

		household := &model.Household{Name: "Demo Household", InviteCode: "DEMO1234", OwnerID: alice.ID}
		if err := tx.Create(household).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.User{}).
			Where("id IN ?", []string{alice.ID, bob.ID}).
			Update("household_id", household.ID).Error; err != nil {
			return err
		}

		ranks := []model.ChoreRank{
			{Name: "QUICK_WIN", DisplayName: "Quick Win", PointValue: 5, IsSystem: true, HouseholdID: household.ID},
			{Name: "PIECE_OF_CAKE", DisplayName: "Piece of Cake", PointValue: 10, IsSystem: true, HouseholdID: household.ID},
			{Name: "STANDARD", DisplayName: "Standard", PointValue: 15, IsSystem: true, HouseholdID: household.ID},
			{Name: "CHALLENGE", DisplayName: "Challenge", PointValue: 25, IsSystem: true, HouseholdID: household.ID},
			{Name: "DEEP_CLEAN", DisplayName: "Deep Clean", PointValue: 40, IsSystem: true, HouseholdID: household.ID},
			{Name: "HEROIC", DisplayName: "Heroic Effort", PointValue: 60, HouseholdID: household.ID},
		}
		if err := tx.Create(&ranks).Error; err != nil {
			return err
		}

		freqs := []model.ChoreFrequency{
			{Name: "DAILY", DisplayName: "Daily", DaysInterval: 1, IsSystem: true, HouseholdID: household.ID},
			{Name: "WEEKLY", DisplayName: "Weekly", DaysInterval: 7, IsSystem: true, HouseholdID: household.ID},
			{Name: "BIWEEKLY", DisplayName: "Every Two Weeks", DaysInterval: 14, IsSystem: true, HouseholdID: household.ID},
			{Name: "MONTHLY", DisplayName: "Monthly", DaysInterval: 30, IsSystem: true, HouseholdID: household.ID},
		}
		if err := tx.Create(&freqs).Error; err != nil {
			return err
		}

		now := time.Now()
		chores := []model.Chore{
			{
				Title:       "Wash the dishes",
				Description: "Everything in the sink, plus wiping the counter.",
				HouseholdID: household.ID,
				RankID:      ranks[0].ID,
				FrequencyID: freqs[0].ID,
				CreatedByID: alice.ID,
				LastReset:   now,
				NextReset:   now.Add(24 * time.Hour),
			},
			{
				Title:        "Vacuum the living room",
				Description:  "Including under the sofa.",
				HouseholdID:  household.ID,
				RankID:       ranks[2].ID,
				FrequencyID:  freqs[1].ID,
				AssignedToID: &bob.ID,
				CreatedByID:  alice.ID,
				LastReset:    now,
				NextReset:    now.Add(7 * 24 * time.Hour),
			},
			{
				Title:       "Deep clean the bathroom",
				Description: "Tub, tiles, mirror, floor.",
				HouseholdID: household.ID,
				RankID:      ranks[4].ID,
				FrequencyID: freqs[3].ID,
				CreatedByID: alice.ID,
				LastReset:   now,
				NextReset:   now.Add(30 * 24 * time.Hour),
			},
		}
		if err := tx.Create(&chores).Error; err != nil {
			return err
		}

		oneClaim := 1
		rewards := []model.Reward{
			{Title: "Pick the movie", Description: "Choose the next movie night film.", PointsCost: 50, IsRepeatable: true, HouseholdID: household.ID},
			{Title: "Sleep in Saturday", Description: "Skip morning chores once.", PointsCost: 100, IsRepeatable: true, HouseholdID: household.ID},
			{Title: "Dinner of choice", Description: "One-time takeout treat.", PointsCost: 200, IsRepeatable: false, MaxClaims: &oneClaim, HouseholdID: household.ID},
		}
		if err := tx.Create(&rewards).Error; err != nil {
			return err
		}

		log.Printf("seeded household %s with %d chores and %d rewards", household.ID, len(chores), len(rewards))
		return nil
	})
}
