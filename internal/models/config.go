package models

// Config is the service configuration, loaded from config.yaml with
// environment overrides applied in main.
type Config struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	Auth       AuthConfig       `yaml:"auth"`
	Validation ValidationConfig `yaml:"validation"`
	Matching   MatchingConfig   `yaml:"matching"`
	Taxes      TaxConfig        `yaml:"taxes"`
}

// AuthConfig holds API credentials and JWT settings.
type AuthConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	JWTSecret    string `yaml:"jwt_secret"`
	TokenTTLMins int    `yaml:"token_ttl_minutes"`
}

// ValidationConfig defines the dollar-difference tiers for line math
// confidence. Bounds are inclusive; the lowest tier that fits wins.
type ValidationConfig struct {
	RoundingMax   float64 `yaml:"rounding_max"`   // cent-level rounding, confidence 95
	AcceptableMax float64 `yaml:"acceptable_max"` // within tolerance, confidence 85
	MinorMax      float64 `yaml:"minor_max"`      // minor discrepancy, confidence 70
	ReviewMax     float64 `yaml:"review_max"`     // needs review, confidence 50
}

// DefaultValidationConfig returns the tier bounds used when none are configured.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		RoundingMax:   0.02,
		AcceptableMax: 0.25,
		MinorMax:      1.00,
		ReviewMax:     5.00,
	}
}

// MatchingConfig gates automatic catalog matching.
type MatchingConfig struct {
	AutoMatchThreshold int `yaml:"auto_match_threshold"` // default 80
	MaxCandidates      int `yaml:"max_candidates"`       // default 5
}

// TaxConfig holds the cascade tax rates. TVQ compounds on the TPS-inclusive base.
type TaxConfig struct {
	TPSRate float64 `yaml:"tps_rate"` // GST, 0.05
	TVQRate float64 `yaml:"tvq_rate"` // QST, 0.09975
}

// DefaultTaxConfig returns the Quebec TPS/TVQ rates.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{TPSRate: 0.05, TVQRate: 0.09975}
}
