package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogFileName(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t, filepath.Join("logs", "test_2025-03-09_14-05-07.log"), LogFileName("logs", "test", at))
	assert.Equal(t, filepath.Join("out", "default_2025-03-09_14-05-07.log"), LogFileName("out", "", at))
}

func TestInitLogger_WritesDebugToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := InitLogger("test", Options{Dir: dir})
	require.NoError(t, err)

	logger.Debug("Compiled roster", zap.Int("variables", 42))
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Compiled roster", entry["msg"])
	assert.Equal(t, float64(42), entry["variables"])
	assert.Contains(t, entry, "timestamp")
}
