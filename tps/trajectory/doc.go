// Package trajectory models ion flight through a Thomson parabola
// spectrometer: a dipole magnet of length L_M, a field-free gap L_ME,
// parallel electrodes of length L_E and a final drift L_ES to the detector.
//
// The magnet bends ions along x with a cyclotron radius r = p/(qB); the
// electric field deflects them along y. [Compute] returns both deflections
// for a geometric series of kinetic energies, which is dense where the
// dispersion is strongest (low energy) and sparse at high energy.
//
// # Usage
//
//	cfg := trajectory.DeviceConfig{
//	    ChargeState: 1, IonMass: 2.014,
//	    MagneticField: 0.44, ElectricField: 20 * units.KVPerCM,
//	    MagnetLength: 10 * units.CM, MagnetElectrodeGap: 8 * units.CM,
//	    ElectrodeLength: 40 * units.CM, ElectrodeScreenGap: 8 * units.CM,
//	    Scale: 40,
//	}
//	tr, err := trajectory.Compute(cfg)
package trajectory
