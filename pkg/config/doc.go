// Package config provides gateway configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from EDGEGATE_* environment
// variables with sensible defaults for all settings. The tenant identifier may
// alternatively be compiled into the binary via -ldflags for edge deployments
// where environment variables are unavailable at request time.
//
// # Configuration Structure
//
// Identity settings:
//
//	EDGEGATE_TENANT="acme"             # drives /edgegate/<tenant>/identity
//	EDGEGATE_CONFIG_SOURCE="ssm"       # ssm, file
//	EDGEGATE_IDENTITY_FILE="/etc/edgegate/identity.json"
//
// Routing settings:
//
//	EDGEGATE_CALLBACK_PATH="/oauth2/callback"
//	EDGEGATE_PUBLIC_PATH="/error.html"
//	EDGEGATE_DEFAULT_DOCUMENT="index.html"
//	EDGEGATE_EMAIL_HEADER="x-edgegate-auth-email"
//
// Session settings:
//
//	EDGEGATE_SCOPES="openid,email"
//	EDGEGATE_SESSION_DURATION="12h"
//	EDGEGATE_VERIFY_LEEWAY="0s"
//	EDGEGATE_JWKS_TTL="10m"
//
// Server mode settings:
//
//	EDGEGATE_ORIGIN_URL="http://localhost:9000"
//	EDGEGATE_HOST="0.0.0.0"
//	EDGEGATE_PORT="8080"
//	EDGEGATE_HEALTH_PORT="9090"
//	EDGEGATE_READ_TIMEOUT="15s"
//	EDGEGATE_WRITE_TIMEOUT="15s"
//
// Observability settings:
//
//	EDGEGATE_LOG_LEVEL="info"  # debug, info, warn, error
//	EDGEGATE_METRICS_ENABLED="true"
//	EDGEGATE_OTEL_ENABLED="true"
//	EDGEGATE_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	settings, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Tenant: %s\n", settings.Tenant)
//	fmt.Printf("Parameter: %s\n", settings.ParameterName())
//	fmt.Printf("Listen: %s\n", settings.ListenAddr())
//
// # Related Packages
//
//   - pkg/identity: Loads the identity config named by ParameterName
//   - pkg/gateway: Consumes routing and session settings
//   - pkg/observability: Uses log level and OTel configuration
package config
