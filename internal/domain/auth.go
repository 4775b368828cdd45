package domain

import (
	"fmt"
	"net/http"
	"time"
)

// Credentials stores a Linear API key or OAuth token.
type Credentials struct {
	Type  AuthType
	Token string
}

// AuthenticationManager hands out HTTP clients that authenticate against
// Linear, either with the server's default credentials or with
// credentials supplied on an individual tool call.
type AuthenticationManager struct {
	defaults *Credentials
	timeout  time.Duration
	base     http.RoundTripper
}

// NewAuthenticationManager creates a manager. defaults may be nil, in
// which case every call must carry its own credentials.
func NewAuthenticationManager(defaults *Credentials, timeout time.Duration) *AuthenticationManager {
	return &AuthenticationManager{
		defaults: defaults,
		timeout:  timeout,
		base:     http.DefaultTransport,
	}
}

// NewAuthenticationManagerFromConfig builds a manager from the Linear
// section of the configuration.
func NewAuthenticationManagerFromConfig(config *Config) *AuthenticationManager {
	var defaults *Credentials
	if config.Linear.Auth != nil {
		defaults = credentialsFromAuthConfig(config.Linear.Auth)
	}
	return NewAuthenticationManager(defaults, config.Linear.Timeout)
}

// WithBaseTransport overrides the round tripper that authenticated
// requests are sent through.
func (am *AuthenticationManager) WithBaseTransport(base http.RoundTripper) *AuthenticationManager {
	am.base = base
	return am
}

// credentialsFromAuthConfig converts an AuthConfig to Credentials.
func credentialsFromAuthConfig(authConfig *AuthConfig) *Credentials {
	return &Credentials{
		Type:  ParseAuthType(authConfig.Type),
		Token: authConfig.Token,
	}
}

// HasDefaultCredentials reports whether calls without an auth argument
// can be served.
func (am *AuthenticationManager) HasDefaultCredentials() bool {
	return am.defaults != nil && validateCredentials(am.defaults) == nil
}

// GetAuthenticatedClient returns an HTTP client using the default
// credentials.
func (am *AuthenticationManager) GetAuthenticatedClient() (*http.Client, error) {
	if am.defaults == nil {
		return nil, &AuthError{Reason: "no default Linear credentials configured"}
	}
	return am.GetAuthenticatedClientWithCredentials(am.defaults)
}

// GetAuthenticatedClientWithCredentials returns an HTTP client using the
// provided credentials.
func (am *AuthenticationManager) GetAuthenticatedClientWithCredentials(creds *Credentials) (*http.Client, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, &AuthError{Reason: err.Error()}
	}

	return &http.Client{
		Transport: &authenticatedTransport{
			base:        am.base,
			credentials: creds,
		},
		Timeout: am.timeout,
	}, nil
}

// validateCredentials validates a Credentials object.
func validateCredentials(creds *Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials cannot be nil")
	}

	switch creds.Type {
	case APIKeyAuth, OAuthAuth:
		if creds.Token == "" {
			return fmt.Errorf("token is required for %s authentication", creds.Type)
		}
	default:
		return fmt.Errorf("invalid authentication type: %v", creds.Type)
	}

	return nil
}

// authenticatedTransport is an http.RoundTripper that adds the Linear
// Authorization header.
type authenticatedTransport struct {
	base        http.RoundTripper
	credentials *Credentials
}

// RoundTrip implements http.RoundTripper.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clonedReq := req.Clone(req.Context())

	switch t.credentials.Type {
	case APIKeyAuth:
		// Personal API keys go in the header as-is, without a scheme.
		clonedReq.Header.Set("Authorization", t.credentials.Token)
	case OAuthAuth:
		clonedReq.Header.Set("Authorization", "Bearer "+t.credentials.Token)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clonedReq)
}

// ExtractCredentialsFromArguments reads the optional "auth" argument of a
// tool call. Returns nil, nil when the call carries no credentials.
func ExtractCredentialsFromArguments(args map[string]interface{}) (*Credentials, error) {
	authObj, hasAuth := args["auth"]
	if !hasAuth || authObj == nil {
		return nil, nil
	}

	authMap, ok := authObj.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("auth must be an object")
	}

	authTypeStr, _ := authMap["type"].(string)
	if authTypeStr != "" && authTypeStr != "api_key" && authTypeStr != "oauth" {
		return nil, fmt.Errorf("auth type '%s' is invalid: must be 'api_key' or 'oauth'", authTypeStr)
	}
	token, _ := authMap["token"].(string)

	creds := &Credentials{
		Type:  ParseAuthType(authTypeStr),
		Token: token,
	}

	if err := validateCredentials(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials provided: %w", err)
	}

	return creds, nil
}
