package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/constants"
)

func TestWatchEmitsOnEligibleFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ticks, err := Start(ctx, Config{Folder: dir, Category: constants.InvoicesReceived}, logger)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "factura.pdf"), []byte("x"), 0o644))

	select {
	case _, ok := <-ticks:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no tick after eligible file landed")
	}
}

func TestWatchIgnoresForeignExtensions(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ticks, err := Start(ctx, Config{Folder: dir, Category: constants.InvoicesReceived}, logger)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644))

	select {
	case <-ticks:
		t.Fatal("tick for a file the category does not accept")
	case <-time.After(500 * time.Millisecond):
	}
}
