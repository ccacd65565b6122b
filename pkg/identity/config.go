package identity

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the identity-provider connection parameters for one tenant.
// It is immutable once loaded; a warm execution context reuses the first
// successfully fetched value for its whole lifetime.
type Config struct {
	PoolID               string `json:"poolId" yaml:"poolId"`
	ClientID             string `json:"clientId" yaml:"clientId"`
	Region               string `json:"region" yaml:"region"`
	HostedUIDomainPrefix string `json:"hostedUiDomainPrefix" yaml:"hostedUiDomainPrefix"`
	AppDomain            string `json:"appDomain" yaml:"appDomain"`
}

var (
	regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d$`)
	poolPattern   = regexp.MustCompile(`^[a-z0-9-]+_[0-9A-Za-z]+$`)
)

// Validate checks that all connection parameters are present and plausible.
// The region and pool id feed URL construction, so implausible values are
// rejected here rather than surfacing as misdirected requests later.
func (c *Config) Validate() error {
	if c.PoolID == "" {
		return fmt.Errorf("poolId is required")
	}
	if !poolPattern.MatchString(c.PoolID) {
		return fmt.Errorf("implausible poolId %q", c.PoolID)
	}
	if c.ClientID == "" {
		return fmt.Errorf("clientId is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if !regionPattern.MatchString(c.Region) {
		return fmt.Errorf("implausible region %q", c.Region)
	}
	if c.HostedUIDomainPrefix == "" {
		return fmt.Errorf("hostedUiDomainPrefix is required")
	}
	if c.AppDomain == "" {
		return fmt.Errorf("appDomain is required")
	}
	return nil
}

// IssuerURL returns the identity provider issuer URL for a user pool
func IssuerURL(region, poolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, poolID)
}

// JWKSURL returns the published signing key document URL for a user pool
func JWKSURL(region, poolID string) string {
	return IssuerURL(region, poolID) + "/.well-known/jwks.json"
}

// Issuer returns the issuer URL that tokens for this pool must carry
func (c *Config) Issuer() string {
	return IssuerURL(c.Region, c.PoolID)
}

// JWKSURL returns the signing key document URL for this pool
func (c *Config) JWKSURL() string {
	return JWKSURL(c.Region, c.PoolID)
}

// HostedUIBase returns the base URL of the hosted login UI
func (c *Config) HostedUIBase() string {
	return fmt.Sprintf("https://%s.auth.%s.amazoncognito.com", c.HostedUIDomainPrefix, c.Region)
}

// ParseConfig decodes and validates an identity config document.
// Parameter-store values are JSON; file sources may use JSON or YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode identity config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode identity config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid identity config: %w", err)
	}
	return &cfg, nil
}
