package service

import (
	"testing"
	"time"
)

func TestContinuedStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name          string
		prevStreak    int
		lastCompleted time.Time
		daysInterval  int
		want          int
	}{
		{"same day continues", 3, now.Add(-2 * time.Hour), 1, 4},
		{"exactly one day on daily continues", 1, now.Add(-24 * time.Hour), 1, 2},
		{"gap just under two days on daily continues", 5, now.Add(-47 * time.Hour), 1, 6},
		{"two whole days on daily resets", 5, now.Add(-48 * time.Hour), 1, 1},
		{"week gap on weekly continues", 2, now.Add(-7 * 24 * time.Hour), 7, 3},
		{"eight days on weekly resets", 2, now.Add(-8 * 24 * time.Hour), 7, 1},
		{"long gap resets", 10, now.Add(-90 * 24 * time.Hour), 30, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := continuedStreak(tt.prevStreak, tt.lastCompleted, tt.daysInterval, now)
			if got != tt.want {
				t.Fatalf("got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{0, 0},
		{1, 0},
		{4, 0},
		{5, 5},
		{9, 5},
		{10, 10},
		{14, 10},
		{25, 25},
	}
	for _, tt := range tests {
		if got := streakBonus(tt.streak); got != tt.want {
			t.Fatalf("streak=%d got=%d want=%d", tt.streak, got, tt.want)
		}
	}
}
