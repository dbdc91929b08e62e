package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRangeYAML = `
range:
  id: test
  name: Test Lane
  description: |
    A lane.
  script: test.lua
  targets:
    - id: a
      center: {x: 0, y: 0, z: 5}
      radius: 0.5
      hp: 20
`

func TestLoadRangeFromBytes_Valid(t *testing.T) {
	def, err := LoadRangeFromBytes([]byte(testRangeYAML))
	require.NoError(t, err)
	assert.Equal(t, "test", def.ID)
	assert.Equal(t, "A lane.", def.Description)
	assert.Equal(t, "test.lua", def.Script)
	require.Len(t, def.Targets, 1)
	assert.Equal(t, 5.0, def.Targets[0].Center.Z)
}

func TestLoadRangeFromBytes_Invalid(t *testing.T) {
	_, err := LoadRangeFromBytes([]byte("range: [oops"))
	assert.Error(t, err)
	_, err = LoadRangeFromBytes([]byte("range:\n  id: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one target")
}

func TestLoadRangeFromFile_NotFound(t *testing.T) {
	_, err := LoadRangeFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRangesFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(testRangeYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	ranges, err := LoadRangesFromDir(dir)
	require.NoError(t, err)
	assert.Contains(t, ranges, "test")
}

func TestLoadRangesFromDir_Duplicate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(testRangeYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(testRangeYAML), 0o644))
	_, err := LoadRangesFromDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate range ID")
}

func TestLoadRangesFromDir_Empty(t *testing.T) {
	_, err := LoadRangesFromDir(t.TempDir())
	assert.Error(t, err)
}

func TestLoadShippedRanges(t *testing.T) {
	ranges, err := LoadRangesFromDir("../../../content/ranges")
	require.NoError(t, err)
	assert.Contains(t, ranges, "qualification")
	assert.Contains(t, ranges, "breach")
	for _, def := range ranges {
		_, err := NewRange(def)
		assert.NoError(t, err, def.ID)
	}
}
