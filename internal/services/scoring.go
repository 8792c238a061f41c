package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"globetrotter/internal/models"
)

// ScoringProfile tunes how hotels are ranked. It ships with built-in
// defaults and can be overridden from a YAML file that supports
// hot-reload at runtime.
type ScoringProfile struct {
	// DefaultWeights apply when the user has no recognized travel style.
	DefaultWeights models.ScoringWeights `yaml:"default_weights"`

	// StyleWeights override the defaults per travel style (budget,
	// luxury, business).
	StyleWeights map[string]models.ScoringWeights `yaml:"style_weights"`

	// TightBudget shifts weight toward price for small budgets.
	TightBudget struct {
		Threshold  float64 `yaml:"threshold"`
		PriceBoost float64 `yaml:"price_boost"`
		RatingCut  float64 `yaml:"rating_cut"`
	} `yaml:"tight_budget"`

	// ImportantAmenities are the amenities that count toward the
	// amenities score.
	ImportantAmenities []string `yaml:"important_amenities"`

	// MaxCenterDistanceKM is the distance at which the location score
	// bottoms out.
	MaxCenterDistanceKM float64 `yaml:"max_center_distance_km"`
}

// DefaultScoringProfile returns the built-in ranking profile.
func DefaultScoringProfile() *ScoringProfile {
	p := &ScoringProfile{
		DefaultWeights: models.ScoringWeights{Price: 0.4, Rating: 0.3, Location: 0.2, Amenities: 0.1},
		StyleWeights: map[string]models.ScoringWeights{
			"budget":   {Price: 0.6, Rating: 0.2, Location: 0.15, Amenities: 0.05},
			"luxury":   {Price: 0.1, Rating: 0.5, Location: 0.2, Amenities: 0.2},
			"business": {Price: 0.2, Rating: 0.3, Location: 0.4, Amenities: 0.1},
		},
		ImportantAmenities:  []string{"WiFi", "Pool", "Gym", "Spa", "Restaurant", "Bar"},
		MaxCenterDistanceKM: 10,
	}
	p.TightBudget.Threshold = 500
	p.TightBudget.PriceBoost = 0.2
	p.TightBudget.RatingCut = 0.1
	return p
}

// LoadScoringProfile reads a profile from a YAML file, filling anything
// the file leaves out from the defaults.
func LoadScoringProfile(path string) (*ScoringProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring profile %s: %w", path, err)
	}

	profile := DefaultScoringProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse scoring profile %s: %w", path, err)
	}

	if profile.MaxCenterDistanceKM <= 0 {
		profile.MaxCenterDistanceKM = 10
	}
	if len(profile.ImportantAmenities) == 0 {
		profile.ImportantAmenities = DefaultScoringProfile().ImportantAmenities
	}
	return profile, nil
}

// WeightsFor resolves the scoring weights for the given preferences.
func (p *ScoringProfile) WeightsFor(travelStyle string, budgetMax float64) models.ScoringWeights {
	weights := p.DefaultWeights
	if styled, ok := p.StyleWeights[travelStyle]; ok {
		weights = styled
	}

	if budgetMax > 0 && budgetMax < p.TightBudget.Threshold {
		weights.Price += p.TightBudget.PriceBoost
		weights.Rating -= p.TightBudget.RatingCut
	}
	return weights
}
