// Package seed generates realistic sample session records so a fresh
// deployment has something to chart. Dataset shape is driven by a Profile,
// loadable from a YAML file, with defaults matching a week of moderate
// single-developer activity.
package seed

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	v1 "github.com/codepulse-lab/codepulse/internal/api/v1"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Profile describes the shape of a generated dataset.
type Profile struct {
	// Days is the number of trailing days before today to cover; the
	// generated set spans Days+1 calendar days including today.
	Days              int      `yaml:"days"`
	MinSessionsPerDay int      `yaml:"min_sessions_per_day"`
	MaxSessionsPerDay int      `yaml:"max_sessions_per_day"`
	MinDurationSec    float64  `yaml:"min_duration_sec"`
	MaxDurationSec    float64  `yaml:"max_duration_sec"`
	Languages         []string `yaml:"languages"`
	Files             []string `yaml:"files"`

	// Seed fixes the RNG for reproducible datasets. 0 means "random".
	Seed int64 `yaml:"seed"`
}

// DefaultProfile returns a week of plausible mixed-language activity.
func DefaultProfile() Profile {
	return Profile{
		Days:              7,
		MinSessionsPerDay: 10,
		MaxSessionsPerDay: 20,
		MinDurationSec:    30,
		MaxDurationSec:    300,
		Languages:         []string{"C++", "Python", "JavaScript", "SQL", "CSS", "Other"},
		Files: []string{
			"src/main.cpp",
			"src/module.cpp",
			"src/utils.py",
			"src/test.py",
			"web/app.js",
			"web/dashboard.html",
			"web/style.css",
			"db/database.sql",
			"config.json",
			"README.md",
		},
	}
}

// LoadProfile reads a Profile from a YAML file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the profile for generation-breaking mistakes.
func (p Profile) Validate() error {
	if p.Days < 0 {
		return fmt.Errorf("days must be >= 0, got %d", p.Days)
	}
	if p.MinSessionsPerDay < 0 || p.MaxSessionsPerDay < p.MinSessionsPerDay {
		return fmt.Errorf("invalid sessions per day range [%d, %d]", p.MinSessionsPerDay, p.MaxSessionsPerDay)
	}
	if p.MinDurationSec < 0 || p.MaxDurationSec < p.MinDurationSec {
		return fmt.Errorf("invalid duration range [%v, %v]", p.MinDurationSec, p.MaxDurationSec)
	}
	if len(p.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	if len(p.Files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	return nil
}

// Generate builds the sample records for the Days+1 calendar days ending at
// asOf's day in loc. Session clock times fall between 06:00 and 23:59 local.
func Generate(p Profile, asOf time.Time, loc *time.Location) []*v1.SessionRecord {
	seedValue := p.Seed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	asOf = asOf.In(loc)
	lastDay := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, loc)

	var records []*v1.SessionRecord
	for offset := p.Days; offset >= 0; offset-- {
		day := lastDay.AddDate(0, 0, -offset)

		sessions := p.MinSessionsPerDay
		if span := p.MaxSessionsPerDay - p.MinSessionsPerDay; span > 0 {
			sessions += rng.Intn(span + 1)
		}

		for i := 0; i < sessions; i++ {
			hour := 6 + rng.Intn(18)
			minute := rng.Intn(60)
			second := rng.Intn(60)
			at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, loc)

			duration := p.MinDurationSec
			if span := p.MaxDurationSec - p.MinDurationSec; span > 0 {
				duration += rng.Float64() * span
			}

			file := p.Files[rng.Intn(len(p.Files))]
			language := p.Languages[rng.Intn(len(p.Languages))]

			records = append(records, &v1.SessionRecord{
				ID:          uuid.NewString(),
				Timestamp:   at.Unix(),
				File:        &file,
				Language:    &language,
				DurationSec: duration,
			})
		}
	}

	return records
}
