package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pvz/internal/config"
)

func TestConfigShow_RoundTrips(t *testing.T) {
	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)

	cfg, err := config.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigShow_Overrides(t *testing.T) {
	path := writeConfig(t, "salary: 30000\nlocale: ru\n")

	out, err := execute(t, "", "config", "show", "--config", path, "--seed", "9", "--format", "json")
	require.NoError(t, err)

	var cfg config.Config
	decodeData(t, out, &cfg)
	assert.Equal(t, 30000, cfg.Salary)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 3000, cfg.TickIntervalMS, "unset fields keep defaults")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty file", "", false},
		{"partial override", "queue_limit: 5\nunique_codes: true\n", false},
		{"spawn chance above one", "spawn_chance: 1.5\n", true},
		{"delivery range inverted", "delivery_min: 10\ndelivery_max: 10\n", true},
		{"unknown field", "salery: 1\n", true},
		{"unknown locale", "locale: de\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			out, err := execute(t, "", "config", "validate", path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, ExitCommandError, GetExitCode(err))
				assert.Contains(t, out, "Error [CONFIG]")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path+": valid\n", out)
		})
	}
}

func TestConfigValidate_JSON(t *testing.T) {
	path := writeConfig(t, "shift_close: 8\n")

	out, err := execute(t, "", "config", "validate", path, "--format", "json")
	require.Error(t, err)

	resp := decodeData(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeConfig, resp.Error.Code)
}
