package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeIdentityFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestWatchFile_InvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.json")
	writeIdentityFile(t, path, validConfigJSON())

	loader := NewLoader(NewFileSource(path), testLogger(), nil)
	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, loader, testLogger())
	}()

	// Let the watcher register before mutating the file.
	time.Sleep(50 * time.Millisecond)

	updated := []byte(`{"poolId":"us-east-1_NewPool1","clientId":"newclient","region":"us-east-1","hostedUiDomainPrefix":"acme-auth","appDomain":"app.acme.example.com"}`)
	writeIdentityFile(t, path, updated)

	require.Eventually(t, func() bool {
		cfg, err := loader.Load(context.Background())
		return err == nil && cfg.PoolID == "us-east-1_NewPool1"
	}, 2*time.Second, 20*time.Millisecond, "loader should serve the rewritten file after invalidation")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchFile_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.json")
	writeIdentityFile(t, path, validConfigJSON())

	loader := NewLoader(NewFileSource(path), testLogger(), nil)
	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = WatchFile(ctx, path, loader, testLogger())
	}()

	time.Sleep(50 * time.Millisecond)
	writeIdentityFile(t, filepath.Join(dir, "unrelated.json"), []byte("ignore me"))
	time.Sleep(100 * time.Millisecond)

	again, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Same(t, first, again, "sibling writes must not invalidate the cached config")
}

func TestWatchFile_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.json")
	writeIdentityFile(t, path, validConfigJSON())

	loader := NewLoader(NewFileSource(path), testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, loader, testLogger())
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("WatchFile did not return after context cancellation")
	}
}
