package identity

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		PoolID:               "us-west-2_aBcDeF123",
		ClientID:             "4f9asjha0d8f7asdf",
		Region:               "us-west-2",
		HostedUIDomainPrefix: "acme-auth",
		AppDomain:            "app.acme.example.com",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing pool id",
			mutate:  func(c *Config) { c.PoolID = "" },
			wantErr: "poolId is required",
		},
		{
			name:    "pool id without region prefix",
			mutate:  func(c *Config) { c.PoolID = "not a pool" },
			wantErr: "implausible poolId",
		},
		{
			name:    "missing client id",
			mutate:  func(c *Config) { c.ClientID = "" },
			wantErr: "clientId is required",
		},
		{
			name:    "missing region",
			mutate:  func(c *Config) { c.Region = "" },
			wantErr: "region is required",
		},
		{
			name:    "implausible region",
			mutate:  func(c *Config) { c.Region = "mars1" },
			wantErr: "implausible region",
		},
		{
			name:    "region missing numeric suffix",
			mutate:  func(c *Config) { c.Region = "us-west" },
			wantErr: "implausible region",
		},
		{
			name:   "gov cloud region",
			mutate: func(c *Config) { c.Region = "us-gov-west-1"; c.PoolID = "us-gov-west-1_Xy12" },
		},
		{
			name:    "missing hosted ui prefix",
			mutate:  func(c *Config) { c.HostedUIDomainPrefix = "" },
			wantErr: "hostedUiDomainPrefix is required",
		},
		{
			name:    "missing app domain",
			mutate:  func(c *Config) { c.AppDomain = "" },
			wantErr: "appDomain is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDerivedURLs(t *testing.T) {
	cfg := validConfig()

	if got, want := cfg.Issuer(), "https://cognito-idp.us-west-2.amazonaws.com/us-west-2_aBcDeF123"; got != want {
		t.Errorf("Issuer() = %q, want %q", got, want)
	}
	if got, want := cfg.JWKSURL(), "https://cognito-idp.us-west-2.amazonaws.com/us-west-2_aBcDeF123/.well-known/jwks.json"; got != want {
		t.Errorf("JWKSURL() = %q, want %q", got, want)
	}
	if got, want := cfg.HostedUIBase(), "https://acme-auth.auth.us-west-2.amazoncognito.com"; got != want {
		t.Errorf("HostedUIBase() = %q, want %q", got, want)
	}

	// Package-level builders must agree with the method forms.
	if got := IssuerURL(cfg.Region, cfg.PoolID); got != cfg.Issuer() {
		t.Errorf("IssuerURL() = %q, want %q", got, cfg.Issuer())
	}
	if got := JWKSURL(cfg.Region, cfg.PoolID); got != cfg.JWKSURL() {
		t.Errorf("JWKSURL() = %q, want %q", got, cfg.JWKSURL())
	}
}

func TestParseConfig_JSON(t *testing.T) {
	data := []byte(`{
		"poolId": "us-west-2_aBcDeF123",
		"clientId": "4f9asjha0d8f7asdf",
		"region": "us-west-2",
		"hostedUiDomainPrefix": "acme-auth",
		"appDomain": "app.acme.example.com"
	}`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() returned unexpected error: %v", err)
	}
	if cfg.PoolID != "us-west-2_aBcDeF123" {
		t.Errorf("PoolID = %q, want us-west-2_aBcDeF123", cfg.PoolID)
	}
	if cfg.ClientID != "4f9asjha0d8f7asdf" {
		t.Errorf("ClientID = %q, want 4f9asjha0d8f7asdf", cfg.ClientID)
	}
	if cfg.AppDomain != "app.acme.example.com" {
		t.Errorf("AppDomain = %q, want app.acme.example.com", cfg.AppDomain)
	}
}

func TestParseConfig_YAML(t *testing.T) {
	data := []byte(`poolId: us-west-2_aBcDeF123
clientId: 4f9asjha0d8f7asdf
region: us-west-2
hostedUiDomainPrefix: acme-auth
appDomain: app.acme.example.com
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() returned unexpected error: %v", err)
	}
	if cfg.Region != "us-west-2" {
		t.Errorf("Region = %q, want us-west-2", cfg.Region)
	}
	if cfg.HostedUIDomainPrefix != "acme-auth" {
		t.Errorf("HostedUIDomainPrefix = %q, want acme-auth", cfg.HostedUIDomainPrefix)
	}
}

func TestParseConfig_LeadingWhitespaceJSON(t *testing.T) {
	data := []byte("\n\t  " + `{"poolId":"us-west-2_aBcDeF123","clientId":"c","region":"us-west-2","hostedUiDomainPrefix":"acme-auth","appDomain":"app.acme.example.com"}`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() returned unexpected error: %v", err)
	}
	if cfg.ClientID != "c" {
		t.Errorf("ClientID = %q, want c", cfg.ClientID)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "malformed json",
			data:    `{"poolId": `,
			wantErr: "failed to decode identity config JSON",
		},
		{
			name:    "malformed yaml",
			data:    "poolId: [unclosed",
			wantErr: "failed to decode identity config YAML",
		},
		{
			name:    "missing required field",
			data:    `{"poolId":"us-west-2_aBcDeF123","region":"us-west-2","hostedUiDomainPrefix":"acme-auth","appDomain":"app.acme.example.com"}`,
			wantErr: "invalid identity config",
		},
		{
			name:    "empty document",
			data:    "",
			wantErr: "invalid identity config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if err == nil {
				t.Fatalf("ParseConfig() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseConfig() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}
