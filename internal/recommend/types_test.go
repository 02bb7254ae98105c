// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package recommend

import (
	"errors"
	"testing"

	"github.com/tomtom215/sakesensei/internal/validation"
)

func validProfile() *PreferenceProfile {
	return &PreferenceProfile{
		UserID:          "u1",
		Sweetness:       2,
		Acidity:         3,
		Richness:        4,
		AromaIntensity:  5,
		Budget:          3000,
		ExperienceLevel: ExperienceBeginner,
	}
}

func TestPreferenceProfile_Validation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(p *PreferenceProfile)
		wantField string
	}{
		{"valid", func(p *PreferenceProfile) {}, ""},
		{"sweetness below scale", func(p *PreferenceProfile) { p.Sweetness = 0 }, "sweetness"},
		{"aroma above scale", func(p *PreferenceProfile) { p.AromaIntensity = 6 }, "aroma_intensity"},
		{"zero budget", func(p *PreferenceProfile) { p.Budget = 0 }, "budget"},
		{"negative budget", func(p *PreferenceProfile) { p.Budget = -100 }, "budget"},
		{"unknown experience", func(p *PreferenceProfile) { p.ExperienceLevel = "expert" }, "experience_level"},
		{"missing user", func(p *PreferenceProfile) { p.UserID = "" }, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.modify(p)

			verr := validation.ValidateStruct(p)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if got := verr.First().Field; got != tt.wantField {
				t.Errorf("Field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestTastingRecord_RatingRange(t *testing.T) {
	for _, rating := range []int{-1, 0, 6, 10} {
		rec := TastingRecord{UserID: "u1", ItemID: "a", Rating: rating}
		if validation.ValidateStruct(&rec) == nil {
			t.Errorf("rating %d passed validation", rating)
		}
	}
	for rating := 1; rating <= 5; rating++ {
		rec := TastingRecord{UserID: "u1", ItemID: "a", Rating: rating}
		if verr := validation.ValidateStruct(&rec); verr != nil {
			t.Errorf("rating %d failed validation: %v", rating, verr)
		}
	}
}

func TestNewRequest(t *testing.T) {
	req := NewRequest("u1")
	if req.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", req.Limit, DefaultLimit)
	}
	if req.ExcludeTried {
		t.Error("ExcludeTried = true, want false")
	}
}

func TestFromFieldErrors(t *testing.T) {
	rec := TastingRecord{UserID: "u1", ItemID: "a", Rating: 9}
	verr := validation.ValidateStruct(&rec)
	if verr == nil {
		t.Fatal("expected validation error")
	}

	err := fromFieldErrors("history[3]", verr)
	if err.Field != "history[3].rating" {
		t.Errorf("Field = %q, want %q", err.Field, "history[3].rating")
	}
	if err.Value != 9 {
		t.Errorf("Value = %v, want 9", err.Value)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false")
	}
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&UpstreamError{Op: "get_tasting_history", Err: cause})

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("errors.Is(err, ErrUpstreamUnavailable) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("UpstreamError does not unwrap to its cause")
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Op != "get_tasting_history" {
		t.Errorf("errors.As() = %v, want Op get_tasting_history", ue)
	}
}

func TestCategory(t *testing.T) {
	t.Run("normalize", func(t *testing.T) {
		tests := map[string]string{
			"Junmai Daiginjo":  CategoryJunmaiDaiginjo,
			"junmai-daiginjo":  CategoryJunmaiDaiginjo,
			" junmai_daiginjo": CategoryJunmaiDaiginjo,
			"HONJOZO":          CategoryHonjozo,
			"":                 "",
		}
		for in, want := range tests {
			if got := NormalizeCategory(in); got != want {
				t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("excludes", func(t *testing.T) {
		p := validProfile()
		p.ExcludedCategories = []string{"Honjozo", "junmai daiginjo"}
		if !p.Excludes("honjozo") || !p.Excludes("Junmai_Daiginjo") {
			t.Error("Excludes() missed a normalized match")
		}
		if p.Excludes("junmai") {
			t.Error("Excludes(junmai) = true, want false")
		}
	})

	t.Run("experience fit", func(t *testing.T) {
		tests := []struct {
			level    ExperienceLevel
			category string
			want     float64
		}{
			{ExperienceBeginner, "junmai", 100},
			{ExperienceBeginner, "daiginjo", 50},
			{ExperienceIntermediate, "koshu", 80},
			{ExperienceAdvanced, "Junmai Daiginjo", 100},
			{ExperienceAdvanced, "futsushu", 70},
			{"", "junmai", 50},
		}
		for _, tt := range tests {
			if got := ExperienceFit(tt.level, tt.category); got != tt.want {
				t.Errorf("ExperienceFit(%q, %q) = %f, want %f", tt.level, tt.category, got, tt.want)
			}
		}
	})
}
