// tables.go - fixed-point primitives and process-wide lookup tables

package multipcm

import "math"

// lpan and rpan hold the pan/volume attenuation factors for every
// (pan, TL) combination, indexed by (pan<<7)|TL. They are scaled to
// Q(n.Shift) and shared read-only across every chip instance, built
// once by init() the way the teacher's sin/tanh tables are (see
// audio_lut.go): a package-level var populated in init(), no runtime
// guard needed since Go guarantees init() completes before any other
// package code runs.
var (
	lpan [2048]int32
	rpan [2048]int32

	// lin2exp converts an EG linear ramp (10-bit index) to an
	// exponential gain factor scaled by 1<<linExpShift.
	lin2exp [1024]int32

	// plfoTri and alfoTri are 256-entry triangle tables: plfoTri is
	// signed (-128..127) for pitch deviation, alfoTri is the same
	// wave shifted to unsigned (0..255) for amplitude.
	plfoTri [256]int32
	alfoTri [256]int32

	// pscales[depth][x+128] maps a signed triangle sample x to a
	// pitch multiplier in Q(LFOShift) for the given PLFO depth.
	pscales [8][256]int32
	// ascales[depth][x] maps an unsigned triangle sample x to a gain
	// factor in Q(LFOShift) for the given ALFO depth.
	ascales [8][256]int32

	// tlSteps holds the two TL ramp rates: index 0 is the decrement
	// applied when TL must fall, index 1 the (slower) increment
	// applied when TL must rise.
	tlSteps [2]int32

	// baseTimes[i] is the millisecond duration of one EG segment at
	// rate index i, entries 0..3 fixed at 0 and entry 63 a sentinel
	// meaning "instantaneous". The exact per-step timing of the real
	// 315-5560 is not public (see spec Non-goals: no bit-exact
	// silicon equivalence); this table is a geometric approximation
	// consistent with the AR/DR doubling-every-4-steps behavior
	// common to Yamaha-era envelope generators of the same vintage.
	baseTimes [64]float64

	arStepGlobal [64]int32
	drStepGlobal [64]int32
)

// lfoFreqHz is the canonical PLFO/ALFO rate selected by (Regs[6]>>3)&7.
var lfoFreqHz = [8]float64{0.168, 2.019, 3.196, 4.206, 5.215, 5.888, 6.224, 7.066}

// pscaleCents is the per-depth pitch deviation range in cents.
var pscaleCents = [8]float64{0, 3.378, 5.065, 6.750, 10.114, 20.170, 40.180, 79.307}

// ascaleDB is the per-depth amplitude deviation range in dB.
var ascaleDB = [8]float64{0, 0.4, 0.8, 1.5, 3.0, 6.0, 12.0, 24.0}

func init() {
	buildPanVolumeLUT()
	buildLin2Exp()
	buildLFOTables()
	buildBaseTimes()
	buildGlobalEGSteps()
	buildTLSteps()
}

// buildPanVolumeLUT fills lpan/rpan per spec §4.A: SegaDB = TL*-24/64 dB
// is the TL attenuation, a further global 1/4 scale is applied, and pan
// selects one of three attenuation families (centered, left, right).
func buildPanVolumeLUT() {
	const globalScale = 0.25
	for pan := 0; pan < 16; pan++ {
		for tl := 0; tl < 128; tl++ {
			idx := (pan << 7) | tl
			tlFactor := math.Pow(10, (float64(tl)*(-24.0/64.0))/20.0)

			var leftDB, rightDB float64
			leftMuted, rightMuted := false, false

			switch {
			case pan == 0x0:
				// centered: both channels 0 dB
			case pan == 0x8:
				leftMuted, rightMuted = true, true
			case pan&0x8 != 0:
				rightDB = float64(0x10-pan) * (-12.0 / 4.0)
				if pan&0x7 == 7 {
					rightMuted = true
				}
			default:
				leftDB = float64(pan) * (-12.0 / 4.0)
				if pan&0x7 == 7 {
					leftMuted = true
				}
			}

			left := tlFactor * math.Pow(10, leftDB/20.0)
			right := tlFactor * math.Pow(10, rightDB/20.0)
			if leftMuted {
				left = 0
			}
			if rightMuted {
				right = 0
			}

			lpan[idx] = int32(left * float64(int32(1)<<Shift) * globalScale)
			rpan[idx] = int32(right * float64(int32(1)<<Shift) * globalScale)
		}
	}
}

// buildLin2Exp fills lin2exp per spec §4.A: i -> 10^((-96+96*i/1024)/20).
func buildLin2Exp() {
	for i := 0; i < 1024; i++ {
		db := -96.0 + 96.0*float64(i)/1024.0
		lin2exp[i] = int32(math.Pow(10, db/20.0) * float64(int32(1)<<linExpShift))
	}
}

// buildLFOTables constructs the two 256-entry triangle tables and the
// eight depth-scaled multiplier rows for PLFO and ALFO.
func buildLFOTables() {
	for i := 0; i < 256; i++ {
		var v int32
		switch {
		case i < 64:
			v = int32(i) * 2
		case i < 128:
			v = 126 - int32(i-64)*2
		case i < 192:
			v = -int32(i-128) * 2
		default:
			v = -128 + int32(i-192)*2
		}
		plfoTri[i] = v
		alfoTri[i] = v + 128
	}

	for depth := 0; depth < 8; depth++ {
		for x := -128; x < 128; x++ {
			cents := pscaleCents[depth] * float64(x) / 128.0
			mult := math.Pow(2, cents/1200.0)
			pscales[depth][x+128] = int32(mult * float64(int32(1)<<LFOShift))
		}
		for x := 0; x < 256; x++ {
			db := -ascaleDB[depth] * float64(x) / 256.0
			gain := math.Pow(10, db/20.0)
			ascales[depth][x] = int32(gain * float64(int32(1)<<LFOShift))
		}
	}
}

// buildBaseTimes computes the per-chip-independent EG segment duration
// table described in spec §4.A: entries 0..3 are 0, entry 63 is a
// near-instantaneous sentinel, and the remaining entries fall off
// geometrically (halving roughly every 4 steps).
func buildBaseTimes() {
	const anchor = 6208.9 // ms, rate index 4
	for i := 0; i < 4; i++ {
		baseTimes[i] = 0
	}
	for i := 4; i < 63; i++ {
		steps := float64(i-4) / 4.0
		baseTimes[i] = anchor / math.Pow(2, steps)
	}
	baseTimes[63] = 0.02
}

// buildGlobalEGSteps computes ARStep/DRStep per spec §4.A. These are
// independent of any chip's actual output rate - they are per-sample
// steps computed against a fixed 44100 Hz reference - so a single
// package-wide copy is shared by every chip rather than recomputed per
// instance. A segment lasts baseTimes[i] ms only when the chip renders
// at 44100 Hz; at other output rates its duration scales by
// 44100/Rate.
func buildGlobalEGSteps() {
	const refRate = 44100.0
	for i := 0; i < 64; i++ {
		ms := baseTimes[i]
		var ar, dr float64
		if ms > 0 {
			samples := ms * refRate / 1000.0
			ar = float64(int64(0x400)<<EGShift) / samples
			dr = ar / 14.32833
		}
		arStepGlobal[i] = int32(ar)
		drStepGlobal[i] = int32(dr)
	}
	for i := 0; i < 4; i++ {
		arStepGlobal[i] = 0
		drStepGlobal[i] = 0
	}
	arStepGlobal[63] = int32(0x400) << EGShift
}

// buildTLSteps computes the process-wide TL interpolation constants
// from spec §4.A: a full 0x80-level TL sweep takes 78.2ms downward and
// twice that (156.4ms) upward, at the 44100 Hz reference rate.
func buildTLSteps() {
	const refRate = 44100.0
	down := float64(int64(0x80)<<Shift) / (78.2 * refRate / 1000.0)
	up := float64(int64(0x80)<<Shift) / (78.2 * 2 * refRate / 1000.0)
	tlSteps[0] = -int32(down)
	tlSteps[1] = int32(up)
}

// getRate implements spec §4.C's Get_RATE: val==0 and val==0xf are
// special-cased to the table extremes, otherwise the rate-scaled
// index is clamped into [0, 0x3f] - the upper clamp is spec'd, the
// lower clamp is a defensive addition since rate (octave+KRS derived)
// can go negative and Go, unlike C, will panic on a negative index.
func getRate(table *[64]int32, rate int32, val uint8) int32 {
	switch val {
	case 0:
		return table[0]
	case 0xf:
		return table[0x3f]
	}
	idx := 4*int32(val) + rate
	if idx > 0x3f {
		idx = 0x3f
	}
	if idx < 0 {
		idx = 0
	}
	return table[idx]
}

// signExtend4 interprets the low 4 bits of v as a signed nibble.
func signExtend4(v uint8) int32 {
	n := int32(v & 0xf)
	if n&0x8 != 0 {
		return n - 16
	}
	return n
}
