package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 50.0, Percent(5, 10))
	assert.Equal(t, 100.0, Percent(4, 4))
}

func TestUpdateMergesKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "progress.json")
	tr := NewTracker(path, nil)

	tr.Update("step1", 1, 4)
	tr.Update("step2", 1, 2)
	tr.Update("step1", 4, 4)

	state, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"step1": 100, "step2": 50}, state)
}

func TestUpdateRecoversFromInvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tr := NewTracker(path, nil)
	tr.Update("scrape", 0, 0)

	state, err := tr.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"scrape": 0}, state)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	state, err := NewTracker(filepath.Join(t.TempDir(), "none.json"), nil).Load()
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestNilAndPathlessTrackers(t *testing.T) {
	t.Parallel()

	var tr *Tracker
	assert.NotPanics(t, func() { tr.Update("x", 1, 1) })

	pathless := NewTracker("", nil)
	pathless.Update("x", 1, 2)
	state, err := pathless.Load()
	require.NoError(t, err)
	assert.Empty(t, state)
}
