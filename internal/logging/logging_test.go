package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"json", Config{Level: "debug", Encoding: "json"}, false},
		{"development", Config{Level: "warn", Development: true}, false},
		{"empty_encoding_means_console", Config{Level: "info"}, false},
		{"bad_level", Config{Level: "loud"}, true},
		{"bad_encoding", Config{Level: "info", Encoding: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNew_Level(t *testing.T) {
	logger, err := New(Config{Level: "warn", Encoding: "json"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	logger, err := New(Config{Level: "info", Encoding: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Info("parsed", zap.Int("messages", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"parsed"`)
	assert.Contains(t, string(data), `"messages":3`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNop(t *testing.T) {
	assert.NotNil(t, Nop(nil))

	l := zap.NewExample()
	assert.Same(t, l, Nop(l))
}
