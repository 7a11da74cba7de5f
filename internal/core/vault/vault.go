package vault

import (
	"context"
	"strings"
)

// Vault resolves secret references such as "dotenv://STATS_API_KEY".
type Vault interface {
	// Scheme is the URI scheme this vault answers for, without "://".
	Scheme() string

	// GetSecret returns the secret behind uri or an error if it is unknown.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault is reachable.
	Ping(ctx context.Context) error

	// Close releases the vault's resources.
	Close() error
}

// IsReference reports whether value is a reference for v rather than a
// literal secret.
func IsReference(v Vault, value string) bool {
	return v != nil && strings.HasPrefix(value, v.Scheme()+"://")
}

// Resolve returns value unchanged unless it is a reference for v, in which
// case the referenced secret is fetched.
func Resolve(ctx context.Context, v Vault, value string) (string, error) {
	if !IsReference(v, value) {
		return value, nil
	}
	return v.GetSecret(ctx, value)
}
