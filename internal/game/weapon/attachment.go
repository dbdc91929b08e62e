package weapon

import "go.uber.org/zap"

// AttachOptic mounts o on the optic rail, destroying the previous visual,
// and folds its modifier into the cumulative one. Repeated calls compound.
//
// Postcondition: returns true iff the optic was mounted.
func (w *Weapon) AttachOptic(o Optic) bool {
	if !w.ready {
		return false
	}
	if !w.rig.OpticMount {
		w.logger.Error("no optic mount point assigned", zap.String("optic", string(o)))
		return false
	}
	w.rig.Mounts.Detach(MountOptic)
	w.rig.Mounts.Attach(MountOptic, string(o))
	w.optic = o
	w.stats = w.stats.Compose(OpticModifier(o))
	w.logger.Debug("optic attached", zap.String("optic", string(o)), zap.Stringer("modifier", w.stats))
	return true
}

// AttachMuzzle mounts mz on the barrel, destroying the previous visual, and
// folds its modifier into the cumulative one. Repeated calls compound.
//
// Postcondition: returns true iff the device was mounted.
func (w *Weapon) AttachMuzzle(mz Muzzle) bool {
	if !w.ready {
		return false
	}
	if !w.rig.MuzzleMount {
		w.logger.Error("no muzzle mount point assigned", zap.String("muzzle", string(mz)))
		return false
	}
	w.rig.Mounts.Detach(MountMuzzle)
	if mz != MuzzleNone {
		w.rig.Mounts.Attach(MountMuzzle, string(mz))
	}
	w.muzzle = mz
	w.stats = w.stats.Compose(MuzzleModifier(mz))
	w.logger.Debug("muzzle attached", zap.String("muzzle", string(mz)), zap.Stringer("modifier", w.stats))
	return true
}

func (w *Weapon) clearAttachments() {
	if w.rig.OpticMount {
		w.rig.Mounts.Detach(MountOptic)
	}
	if w.rig.MuzzleMount {
		w.rig.Mounts.Detach(MountMuzzle)
	}
	w.optic = ""
	w.muzzle = ""
}
