package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/kodex/internal/client/client"
	"github.com/dmitrijs2005/kodex/internal/logging"
	"github.com/stretchr/testify/require"
)

func openRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.OpenRepositories(context.Background(), filepath.Join(t.TempDir(), "kodex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })
	return repos
}

func fixedNow() time.Time {
	return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

var nopLogger = logging.Discard()
