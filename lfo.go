// lfo.go - PLFO/ALFO pair (component D)

package multipcm

// lfo is the shared phase-accumulator behavior of both the pitch and
// amplitude low-frequency oscillators: a 16-bit phase counter stepped
// by a Q(LFOShift) increment, indexing a 256-entry triangle table and
// then a depth-selected scale row.
type lfo struct {
	phase     uint16
	phaseStep int32
	tri       *[256]int32
	scale     *[256]int32
}

// setFreq recomputes phaseStep from the shared LFO rate field
// (Regs[6]>>3)&7, per spec §4.D: both PLFO and ALFO derive their
// phase_step from the same frequency selector.
func (l *lfo) setFreq(regs6 uint8, rate uint32) {
	if rate == 0 {
		l.phaseStep = 0
		return
	}
	hz := lfoFreqHz[(regs6>>3)&7]
	l.phaseStep = int32(hz * 256.0 / float64(rate) * float64(int32(1)<<LFOShift))
}

// step advances the phase and returns the current triangle sample
// (signed for PLFO, unsigned for ALFO - whichever tri table this LFO
// was built with).
func (l *lfo) step() int32 {
	idx := (l.phase >> 8) & 0xff
	v := l.tri[idx]
	l.phase += uint16(l.phaseStep)
	return v
}

// newPLFO builds a PLFO (pitch) oscillator bound to the signed
// triangle table and a depth-selected pitch scale row.
func newPLFO() lfo {
	return lfo{tri: &plfoTri, scale: &pscales[0]}
}

// newALFO builds an ALFO (amplitude) oscillator bound to the unsigned
// triangle table and a depth-selected gain scale row.
func newALFO() lfo {
	return lfo{tri: &alfoTri, scale: &ascales[0]}
}

// setScale binds this LFO to one of the eight depth rows (selected by
// Regs[6]&7 for PLFO, Regs[7]&7 for ALFO).
func (l *lfo) setScale(row *[256]int32) {
	l.scale = row
}

// pitchMultiplier returns the Q(LFOShift) pitch multiplier for the
// current phase: the triangle sample is signed (-128..127), so the
// scale row is indexed with a +128 bias.
func (l *lfo) pitchMultiplier() int32 {
	v := l.step()
	return l.scale[v+128]
}

// gainMultiplier returns the Q(LFOShift) gain multiplier for the
// current phase: the triangle sample is already unsigned (0..255).
func (l *lfo) gainMultiplier() int32 {
	v := l.step()
	return l.scale[v]
}
