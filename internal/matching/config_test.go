package matching_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel_picker/internal/matching"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := matching.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.VibeBuckets, 5)
	assert.Len(t, cfg.FacilityBuckets, 10)
	assert.Equal(t, 1.5, cfg.Weights.NomadBoosted)
}

func TestLoadConfig_EmptyPathIsDefault(t *testing.T) {
	cfg, err := matching.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, matching.DefaultConfig(), cfg)
}

func TestLoadConfig_Overlay(t *testing.T) {
	path := writeConfig(t, `{
		"weights": {"price": 2, "nationality": 0},
		"vibe_buckets": {"surf": ["waves", "board"]}
	}`)
	cfg, err := matching.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Weights.Price)
	assert.Equal(t, 0.0, cfg.Weights.Nationality)
	assert.Equal(t, 0.8, cfg.Weights.Facilities, "unset weights keep defaults")
	assert.Equal(t, matching.Buckets{"surf": {"waves", "board"}}, cfg.VibeBuckets)
	assert.Equal(t, matching.DefaultFacilityBuckets(), cfg.FacilityBuckets)
	assert.Equal(t, matching.DefaultNoiseLevels(), cfg.NoiseLevels)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := matching.LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = matching.LoadConfig(writeConfig(t, `{"weights":`))
	assert.Error(t, err)

	_, err = matching.LoadConfig(writeConfig(t, `{"weights":{"price":-1}}`))
	assert.ErrorContains(t, err, "invalid scoring config")

	_, err = matching.LoadConfig(writeConfig(t, `{"noise_levels":[{"level":140,"keywords":["loud"]}]}`))
	assert.Error(t, err)

	_, err = matching.LoadConfig(writeConfig(t, `{"noise_levels":[{"level":40,"keywords":[]}]}`))
	assert.Error(t, err)
}
