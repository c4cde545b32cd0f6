package goRelay

import (
	"errors"
	"time"
)

// Config defines a public type used by goRelay APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token    TokenConfig
	Session  SessionConfig
	Authz    AuthzConfig
	Registry RegistryConfig
	Dispatch DispatchConfig
	Login    LoginConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by goRelay APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
	KeyID         string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goRelay APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	Lifetime    time.Duration
}

/*
====================================
AUTHZ CONFIG
====================================
*/

// AuthzConfig defines a public type used by goRelay APIs.
//
// AuthzConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthzConfig struct {
	// CacheWindow bounds how long an allow decision is served without
	// re-verification. Longer windows trade revocation latency for
	// authorize throughput.
	CacheWindow time.Duration

	// StoreTimeout caps each session lookup on the authorize path. A
	// lookup that exceeds it resolves to deny.
	StoreTimeout time.Duration

	// ConnectWildcard is the resource pattern granted to connection-scoped
	// authorization, where no further per-message check happens.
	ConnectWildcard string
}

/*
====================================
REGISTRY CONFIG
====================================
*/

// RegistryConfig defines a public type used by goRelay APIs.
//
// RegistryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RegistryConfig struct {
	RedisPrefix string

	// BindingLifetime is the absolute lifetime of a connection binding.
	// It is never extended; reconnecting is the only refresh.
	BindingLifetime time.Duration
}

/*
====================================
DISPATCH CONFIG
====================================
*/

// DispatchConfig defines a public type used by goRelay APIs.
//
// DispatchConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DispatchConfig struct {
	PushTimeout time.Duration
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig defines a public type used by goRelay APIs.
//
// LoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginConfig struct {
	EnableIPThrottle bool
	MaxAttempts      int
	Cooldown         time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by goRelay APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// AuditConfig defines a public type used by goRelay APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goRelay APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     15 * time.Minute,
			SigningMethod: "hs256",
			Leeway:        30 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "rs",
			Lifetime:    24 * time.Hour,
		},
		Authz: AuthzConfig{
			CacheWindow:     5 * time.Minute,
			StoreTimeout:    2 * time.Second,
			ConnectWildcard: "*",
		},
		Registry: RegistryConfig{
			RedisPrefix:     "rb",
			BindingLifetime: 10 * time.Minute,
		},
		Dispatch: DispatchConfig{
			PushTimeout: 5 * time.Second,
		},
		Login: LoginConfig{
			EnableIPThrottle: true,
			MaxAttempts:      5,
			Cooldown:         15 * time.Minute,
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token AccessTTL must be > 0")
	}

	if c.Token.SigningMethod != "hs256" && c.Token.SigningMethod != "ed25519" {
		return errors.New("unsupported token signing method")
	}

	if c.Token.SigningMethod == "hs256" && len(c.Token.PrivateKey) == 0 {
		return errors.New("hs256 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PrivateKey) == 0 {
		return errors.New("ed25519 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}

	if c.Token.Leeway < 0 {
		return errors.New("Token Leeway must be >= 0")
	}
	if c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be <= 2m")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix is required")
	}
	if c.Session.Lifetime <= 0 {
		return errors.New("Session Lifetime must be > 0")
	}

	// Authz
	if c.Authz.CacheWindow <= 0 {
		return errors.New("Authz CacheWindow must be > 0")
	}
	if c.Authz.StoreTimeout <= 0 {
		return errors.New("Authz StoreTimeout must be > 0")
	}
	if c.Authz.ConnectWildcard == "" {
		return errors.New("Authz ConnectWildcard is required")
	}

	// Registry
	if c.Registry.RedisPrefix == "" {
		return errors.New("Registry RedisPrefix is required")
	}
	if c.Registry.BindingLifetime <= 0 {
		return errors.New("Registry BindingLifetime must be > 0")
	}

	// Dispatch
	if c.Dispatch.PushTimeout <= 0 {
		return errors.New("Dispatch PushTimeout must be > 0")
	}

	// Login
	if c.Login.MaxAttempts <= 0 {
		return errors.New("Login MaxAttempts must be > 0")
	}
	if c.Login.Cooldown <= 0 {
		return errors.New("Login Cooldown must be > 0")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	return nil
}
