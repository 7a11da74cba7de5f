// Package vault defines how configuration secrets are looked up.
package vault

// Type represents the type of vault.
type Type string

const (
	// TypeDotEnv resolves dotenv:// references from the process environment.
	TypeDotEnv Type = "dotenv"
	// TypeNone treats every configured value as a literal.
	TypeNone Type = "none"
)
