package rangesim_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/armory/internal/game/weapon"
	"github.com/cory-johannsen/armory/internal/rangesim"
)

const tapsYAML = `
scenario:
  name: taps
  range: lane
  seed: 3
  tick: 20ms
  eye: {x: 0, y: 1.5, z: 0}
  loadout:
    - slot: primary
      profile: test_rifle
      optic: red_dot
      fire_mode: burst
  frames:
    - {ticks: 1, fire: true}
    - {ticks: 7}
    - {ticks: 1, reload: true, events: [magazine_out, magazine_in]}
`

func TestLoadScenarioFromBytes_Valid(t *testing.T) {
	sc, err := rangesim.LoadScenarioFromBytes([]byte(tapsYAML))
	require.NoError(t, err)
	assert.Equal(t, "taps", sc.Name)
	assert.Equal(t, "lane", sc.Range)
	assert.Equal(t, uint64(3), sc.Seed)
	assert.Equal(t, 20*time.Millisecond, sc.Tick)
	assert.Equal(t, 1.5, sc.Eye.Y)
	require.Len(t, sc.Loadout, 1)
	assert.Equal(t, weapon.SlotPrimary, sc.Loadout[0].Slot)
	assert.Equal(t, weapon.OpticRedDot, sc.Loadout[0].Optic)
	assert.Equal(t, weapon.FireModeBurst, sc.Loadout[0].FireMode)
	require.Len(t, sc.Frames, 3)
	assert.True(t, sc.Frames[2].Reload)
	assert.Equal(t, []weapon.SoundEvent{weapon.SoundMagazineOut, weapon.SoundMagazineIn}, sc.Frames[2].Events)
	assert.Equal(t, 9, sc.TotalTicks())
}

func TestLoadScenarioFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing name":   "scenario:\n  range: lane\n  loadout: [{slot: primary, profile: p}]\n",
		"missing range":  "scenario:\n  name: x\n  loadout: [{slot: primary, profile: p}]\n",
		"empty loadout":  "scenario:\n  name: x\n  range: lane\n",
		"bad slot":       "scenario:\n  name: x\n  range: lane\n  loadout: [{slot: holster, profile: p}]\n",
		"slot twice":     "scenario:\n  name: x\n  range: lane\n  loadout: [{slot: primary, profile: p}, {slot: primary, profile: q}]\n",
		"no profile":     "scenario:\n  name: x\n  range: lane\n  loadout: [{slot: primary}]\n",
		"bad fire mode":  "scenario:\n  name: x\n  range: lane\n  loadout: [{slot: primary, profile: p, fire_mode: laser}]\n",
		"zero ticks":     "scenario:\n  name: x\n  range: lane\n  loadout: [{slot: primary, profile: p}]\n  frames: [{ticks: 0}]\n",
		"bad frame slot": "scenario:\n  name: x\n  range: lane\n  loadout: [{slot: primary, profile: p}]\n  frames: [{ticks: 1, slot: holster}]\n",
		"negative tick":  "scenario:\n  name: x\n  range: lane\n  tick: -1s\n  loadout: [{slot: primary, profile: p}]\n",
		"not yaml":       "scenario: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rangesim.LoadScenarioFromBytes([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenariosFromDir_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	second := "scenario:\n  name: second\n  range: lane\n  loadout: [{slot: primary, profile: p}]\n"
	first := "scenario:\n  name: first\n  range: lane\n  loadout: [{slot: primary, profile: p}]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(second), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte(first), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	scs, err := rangesim.LoadScenariosFromDir(dir)
	require.NoError(t, err)
	require.Len(t, scs, 2)
	assert.Equal(t, "first", scs[0].Name)
	assert.Equal(t, "second", scs[1].Name)
}

func TestLoadScenariosFromDir_BadFileNamed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("scenario:\n  name: x\n"), 0o644))
	_, err := rangesim.LoadScenariosFromDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoadScenariosFromDir_Missing(t *testing.T) {
	_, err := rangesim.LoadScenariosFromDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
