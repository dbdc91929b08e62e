package weapon_test

import (
	"time"

	"github.com/cory-johannsen/armory/internal/game/geom"
	"github.com/cory-johannsen/armory/internal/game/rng"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

type recAnimator struct{ cues []weapon.AnimationCue }

func (a *recAnimator) Play(cue weapon.AnimationCue) { a.cues = append(a.cues, cue) }

func (a *recAnimator) last() weapon.AnimationCue {
	if len(a.cues) == 0 {
		return weapon.AnimationCue{}
	}
	return a.cues[len(a.cues)-1]
}

func (a *recAnimator) count(state string) int {
	n := 0
	for _, c := range a.cues {
		if c.State == state {
			n++
		}
	}
	return n
}

type recAudio struct{ events []weapon.SoundEvent }

func (a *recAudio) Play(e weapon.SoundEvent) { a.events = append(a.events, e) }

func (a *recAudio) count(e weapon.SoundEvent) int {
	n := 0
	for _, v := range a.events {
		if v == e {
			n++
		}
	}
	return n
}

type fovCall struct {
	target   float64
	duration time.Duration
}

type recCamera struct{ calls []fovCall }

func (c *recCamera) TransitionFOV(target float64, d time.Duration) {
	c.calls = append(c.calls, fovCall{target, d})
}

type recRecoil struct{ kicks []weapon.RecoilImpulse }

func (r *recRecoil) Kick(i weapon.RecoilImpulse) { r.kicks = append(r.kicks, i) }

type recSway struct {
	resets int
	calls  []float64
	hovers []bool
}

func (s *recSway) Sway(hover bool, amount float64) {
	s.hovers = append(s.hovers, hover)
	s.calls = append(s.calls, amount)
}
func (s *recSway) Reset() { s.resets++ }

type recMounts struct {
	attached map[weapon.MountPoint]string
	detaches int
}

func (m *recMounts) Attach(p weapon.MountPoint, item string) {
	if m.attached == nil {
		m.attached = map[weapon.MountPoint]string{}
	}
	m.attached[p] = item
}

func (m *recMounts) Detach(p weapon.MountPoint) {
	m.detaches++
	delete(m.attached, p)
}

type dummy struct {
	damage float64
	hits   int
}

func (d *dummy) TakeDamage(amount float64) {
	d.damage += amount
	d.hits++
}

// alwaysHit returns the same target for every ray.
type alwaysHit struct{ target *dummy }

func (w alwaysHit) Raycast(geom.Ray) (weapon.Hit, bool) {
	return weapon.Hit{Target: w.target, Distance: 10}, true
}

type fixture struct {
	model    *geom.Transform
	animator *recAnimator
	audio    *recAudio
	camera   *recCamera
	recoil   *recRecoil
	sway     *recSway
	mounts   *recMounts
	target   *dummy
}

func newFixture() *fixture {
	return &fixture{
		model:    &geom.Transform{},
		animator: &recAnimator{},
		audio:    &recAudio{},
		camera:   &recCamera{},
		recoil:   &recRecoil{},
		sway:     &recSway{},
		mounts:   &recMounts{},
		target:   &dummy{},
	}
}

func (f *fixture) rig() weapon.Rig {
	return weapon.Rig{
		Model:       f.model,
		Animator:    f.animator,
		Audio:       f.audio,
		Camera:      f.camera,
		Recoil:      f.recoil,
		Sway:        f.sway,
		Mounts:      f.mounts,
		World:       alwaysHit{target: f.target},
		OpticMount:  true,
		MuzzleMount: true,
	}
}

func rifleProfile() *weapon.Profile {
	p := weapon.DefaultProfile()
	p.ID = "test-rifle"
	p.Name = "Test Rifle"
	p.Type = weapon.TypeRifle
	p.MagazineSize = 30
	p.FireRate = 100 * time.Millisecond
	p.BaseAccuracy = 0.9
	return &p
}

func newBase(f *fixture, p *weapon.Profile) *weapon.Weapon {
	w := weapon.New(p, f.rig(), nil, rng.Fixed(0.5))
	if err := w.Initialize(); err != nil {
		panic(err)
	}
	return w
}

func newRifle(f *fixture, p *weapon.Profile) *weapon.Rifle {
	r := weapon.NewRifle(p, f.rig(), nil, rng.Fixed(0.5))
	if err := r.Initialize(); err != nil {
		panic(err)
	}
	return r
}
