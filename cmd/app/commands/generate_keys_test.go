package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunGenerateKeys(t *testing.T) {
	logger := slog.Default()

	t.Run("generates-new-pair", func(t *testing.T) {
		dir := t.TempDir()
		privatePath := filepath.Join(dir, "private.key")
		publicPath := filepath.Join(dir, "public.key")

		var out bytes.Buffer
		err := RunGenerateKeys(logger, privatePath, publicPath, false, IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), "Signing key pair generated successfully!")
		require.FileExists(t, privatePath)
		require.FileExists(t, publicPath)
	})

	t.Run("refuses-to-overwrite", func(t *testing.T) {
		dir := t.TempDir()
		privatePath := filepath.Join(dir, "private.key")
		publicPath := filepath.Join(dir, "public.key")
		require.NoError(t, os.WriteFile(privatePath, []byte("existing"), 0o600))

		err := RunGenerateKeys(logger, privatePath, publicPath, false, IOTuple{Writer: &bytes.Buffer{}})

		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")
	})

	t.Run("force-overwrites", func(t *testing.T) {
		dir := t.TempDir()
		privatePath := filepath.Join(dir, "private.key")
		publicPath := filepath.Join(dir, "public.key")
		require.NoError(t, os.WriteFile(privatePath, []byte("existing"), 0o600))

		var out bytes.Buffer
		err := RunGenerateKeys(logger, privatePath, publicPath, true, IOTuple{Writer: &out})

		require.NoError(t, err)
		require.FileExists(t, publicPath)

		content, err := os.ReadFile(privatePath)
		require.NoError(t, err)
		require.NotEqual(t, "existing", string(content))
	})
}
