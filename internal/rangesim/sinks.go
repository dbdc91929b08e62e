package rangesim

import (
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// recorder is the animator, audio and mount sink shared by every weapon in
// one run. It tallies what the weapons emitted for the report.
type recorder struct {
	animations map[string]int
	sounds     map[weapon.SoundEvent]int
	mounted    map[weapon.MountPoint]string
}

func newRecorder() *recorder {
	return &recorder{
		animations: make(map[string]int),
		sounds:     make(map[weapon.SoundEvent]int),
		mounted:    make(map[weapon.MountPoint]string),
	}
}

func (r *recorder) Play(cue weapon.AnimationCue) { r.animations[cue.State]++ }

func (r *recorder) Attach(p weapon.MountPoint, item string) { r.mounted[p] = item }

func (r *recorder) Detach(p weapon.MountPoint) { delete(r.mounted, p) }

// audio adapts the recorder to weapon.Audio; Play is already taken by the
// animator side.
type audio struct{ r *recorder }

func (a audio) Play(e weapon.SoundEvent) { a.r.sounds[e]++ }

type kickCounter struct {
	next  weapon.Recoil
	kicks int
}

func (k *kickCounter) Kick(imp weapon.RecoilImpulse) {
	k.kicks++
	k.next.Kick(imp)
}
