package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rosteriq/advisor-service/internal/infrastructure/store/sqlite"
	"github.com/rosteriq/advisor-service/internal/services/session"
)

// NewTestSessionService returns a session service on a temporary SQLite file.
func NewTestSessionService(t *testing.T) session.Service {
	t.Helper()

	repo, err := sqlite.NewRepository(&sqlite.Config{Path: filepath.Join(t.TempDir(), "advisor.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	svc, err := session.NewService(&session.Config{Repository: repo})
	require.NoError(t, err)
	return svc
}
