// Package dotenv resolves dotenv:// secret references from the environment,
// optionally seeded from extra .env files.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const scheme = "dotenv"

// Vault implements vault.Vault using environment variables. Values read from
// files take effect only for keys the environment does not already set.
type Vault struct {
	mu    sync.RWMutex
	files map[string]string
}

// NewVault creates a vault, reading any given .env files.
func NewVault(files ...string) (*Vault, error) {
	v := &Vault{files: make(map[string]string)}
	if len(files) == 0 {
		return v, nil
	}

	values, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to read env files: %w", err)
	}
	v.files = values
	return v, nil
}

// Scheme implements vault.Vault.
func (v *Vault) Scheme() string {
	return scheme
}

// GetSecret retrieves a secret from the environment or the loaded files.
func (v *Vault) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, scheme+"://")
	if key == "" {
		return "", fmt.Errorf("secret key is empty")
	}

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if value, ok := v.files[key]; ok && value != "" {
		return value, nil
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

// Ping always succeeds.
func (v *Vault) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (v *Vault) Close() error {
	return nil
}
