package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// DefaultTenant is the tenant identifier compiled into the binary. Edge
// deployments cannot read environment variables at request time, so edge
// builds bake the tenant in with
//
//	-ldflags "-X github.com/edgegate-dev/edgegate/pkg/config.DefaultTenant=acme"
//
// EDGEGATE_TENANT takes precedence when set.
var DefaultTenant = ""

// Tenant identifiers become parameter-store path segments, so keep them to
// DNS-label characters.
var tenantPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Settings holds all gateway configuration, loaded from EDGEGATE_* environment
// variables.
type Settings struct {
	// Tenant scopes the parameter-store path holding the identity config.
	Tenant string `split_words:"true"`

	// ConfigSource selects where IdentityConfig comes from: "ssm" or "file".
	ConfigSource string `split_words:"true" default:"ssm"`
	IdentityFile string `split_words:"true"`

	// SSMEndpoint points the parameter-store client at an emulator such as
	// localstack. Empty means the real service via the default credential
	// chain. SSMRegion only applies when the endpoint is set.
	SSMEndpoint string `envconfig:"SSM_ENDPOINT"`
	SSMRegion   string `envconfig:"SSM_REGION" default:"us-east-1"`

	// Request routing
	CallbackPath    string `split_words:"true" default:"/oauth2/callback"`
	PublicPath      string `split_words:"true" default:"/error.html"`
	DefaultDocument string `split_words:"true" default:"index.html"`
	EmailHeader     string `split_words:"true" default:"x-edgegate-auth-email"`

	// Login flow
	Scopes          []string      `split_words:"true" default:"openid,email"`
	SessionDuration time.Duration `split_words:"true" default:"12h"`

	// Verification
	VerifyLeeway time.Duration `split_words:"true" default:"0s"`
	JWKSTTL      time.Duration `envconfig:"JWKS_TTL" default:"10m"`

	// Server mode
	OriginURL       string        `split_words:"true"`
	Host            string        `default:"0.0.0.0"`
	Port            string        `default:"8080"`
	HealthPort      string        `split_words:"true" default:"9090"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"15s"`
	IdleTimeout     time.Duration `split_words:"true" default:"60s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`

	// Observability
	LogLevelName       string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsEnabled     bool   `split_words:"true" default:"true"`
	OTelEnabled        bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTelEndpoint       string `envconfig:"OTEL_ENDPOINT" default:"localhost:4317"`
	OTelServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"edgegate"`
	OTelServiceVersion string `envconfig:"OTEL_SERVICE_VERSION" default:"1.0.0"`
	OTelInsecure       bool   `envconfig:"OTEL_INSECURE" default:"true"`
}

// Load reads Settings from the environment and validates them
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("edgegate", &s); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if s.Tenant == "" {
		s.Tenant = DefaultTenant
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &s, nil
}

// Validate checks if the configuration is valid
func (s *Settings) Validate() error {
	if s.Tenant == "" {
		return fmt.Errorf("tenant is required (EDGEGATE_TENANT or compiled default)")
	}
	if !tenantPattern.MatchString(s.Tenant) {
		return fmt.Errorf("invalid tenant %q: must match %s", s.Tenant, tenantPattern)
	}

	switch s.ConfigSource {
	case "ssm":
	case "file":
		if s.IdentityFile == "" {
			return fmt.Errorf("identity file is required for file config source")
		}
	default:
		return fmt.Errorf("invalid config source: %s (must be ssm or file)", s.ConfigSource)
	}

	if !strings.HasPrefix(s.CallbackPath, "/") {
		return fmt.Errorf("callback path must begin with /")
	}
	if !strings.HasPrefix(s.PublicPath, "/") {
		return fmt.Errorf("public path must begin with /")
	}
	if s.CallbackPath == s.PublicPath {
		return fmt.Errorf("callback path and public path must be different")
	}
	if s.DefaultDocument == "" || strings.Contains(s.DefaultDocument, "/") {
		return fmt.Errorf("default document must be a bare file name")
	}
	if s.EmailHeader == "" {
		return fmt.Errorf("email header name is required")
	}

	if len(s.Scopes) == 0 {
		return fmt.Errorf("at least one scope is required")
	}
	if s.SessionDuration <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	if s.VerifyLeeway < 0 {
		return fmt.Errorf("verify leeway must not be negative")
	}
	if s.JWKSTTL <= 0 {
		return fmt.Errorf("JWKS TTL must be positive")
	}

	if s.OriginURL != "" {
		u, err := url.Parse(s.OriginURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("origin URL must be an absolute URL: %s", s.OriginURL)
		}
	}
	if s.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if s.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if s.Port == s.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if s.OTelEnabled {
		if s.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if s.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// ParameterName returns the parameter-store path holding this tenant's
// identity config. It is fixed at initialization; request handling never
// derives it from caller input.
func (s *Settings) ParameterName() string {
	return "/edgegate/" + s.Tenant + "/identity"
}

// LogLevel returns the parsed log level
func (s *Settings) LogLevel() observability.LogLevel {
	return observability.ParseLogLevel(s.LogLevelName)
}

// ListenAddr returns the main listener address for server mode
func (s *Settings) ListenAddr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// HealthAddr returns the health/metrics listener address for server mode
func (s *Settings) HealthAddr() string {
	return net.JoinHostPort(s.Host, s.HealthPort)
}

// OTel returns the OpenTelemetry configuration block
func (s *Settings) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        s.OTelEnabled,
		Endpoint:       s.OTelEndpoint,
		ServiceName:    s.OTelServiceName,
		ServiceVersion: s.OTelServiceVersion,
		Insecure:       s.OTelInsecure,
	}
}
