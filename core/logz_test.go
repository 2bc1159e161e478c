package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigureLogger(t *testing.T) {
	saved := Logger
	t.Cleanup(func() { Logger = saved })

	_, err := ConfigureLogger(LogConfig{Level: "loud"})
	require.ErrorContains(t, err, "invalid log level")
	_, err = ConfigureLogger(LogConfig{Type: "xml"})
	require.ErrorContains(t, err, "unknown log type")

	path := filepath.Join(t.TempDir(), "bench.log")
	closer, err := ConfigureLogger(LogConfig{Type: "json", Level: "warn", File: path})
	require.NoError(t, err)
	Logger.Info().Msg("dropped")
	Logger.Warn().Str("store", "bank").Msg("kept")
	require.NoError(t, closer.Close())

	bz, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(bz), "dropped")
	require.Contains(t, string(bz), `"store":"bank"`)
	require.Contains(t, string(bz), `"level":"warn"`)
}
