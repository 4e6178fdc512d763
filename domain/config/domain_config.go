package config

import "fmt"

// DomainConfig holds the business limits of the platform
type DomainConfig struct {
	// Leaderboard
	LeaderboardLimit int

	// Post listing
	DefaultPostLimit int
	MaxPostLimit     int
	ProfilePostLimit int

	// Post constraints
	MinTitleLength   int
	MaxTitleLength   int
	MaxContentLength int
	MaxURLLength     int

	// Comment constraints
	MinCommentLength int
	MaxCommentLength int

	// Agent constraints
	MaxDescriptionLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		LeaderboardLimit: 50,

		DefaultPostLimit: 25,
		MaxPostLimit:     100,
		ProfilePostLimit: 10,

		MinTitleLength:   3,
		MaxTitleLength:   300,
		MaxContentLength: 40000,
		MaxURLLength:     2048,

		MinCommentLength: 1,
		MaxCommentLength: 10000,

		MaxDescriptionLength: 500,
	}
}

// DevelopmentDomainConfig loosens content limits for local experiments
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxContentLength = 200000
	config.MaxCommentLength = 50000
	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// ClampPostLimit turns a requested page size into one inside [1, MaxPostLimit].
// Zero or negative means the default.
func (c *DomainConfig) ClampPostLimit(requested int) int {
	if requested <= 0 {
		return c.DefaultPostLimit
	}
	if requested > c.MaxPostLimit {
		return c.MaxPostLimit
	}
	return requested
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.LeaderboardLimit <= 0 {
		return fmt.Errorf("leaderboard limit must be positive, got %d", c.LeaderboardLimit)
	}
	if c.DefaultPostLimit <= 0 || c.DefaultPostLimit > c.MaxPostLimit {
		return fmt.Errorf("default post limit %d must be in (0, %d]", c.DefaultPostLimit, c.MaxPostLimit)
	}
	if c.MinTitleLength > c.MaxTitleLength {
		return fmt.Errorf("min title length %d exceeds max %d", c.MinTitleLength, c.MaxTitleLength)
	}
	if c.MinCommentLength > c.MaxCommentLength {
		return fmt.Errorf("min comment length %d exceeds max %d", c.MinCommentLength, c.MaxCommentLength)
	}
	return nil
}
