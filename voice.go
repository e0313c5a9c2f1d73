// voice.go - voice / slot state machine (component E)

package multipcm

// Voice is one of the chip's 28 independent sample players: spec.md
// §3's "Voice state". Every field here is owned exclusively by the
// chip instance that contains it; sample is a pointer into that same
// chip's descriptor array, which Chip.WriteROM rebuilds in place, so a
// voice's pointer stays valid and sees the re-parsed descriptor.
type Voice struct {
	regs [8]uint8

	sample *Sample

	playing bool
	muted   bool

	base   uint32
	offset uint64 // Q(Shift) phase
	step   int32  // Q(Shift) phase increment per output sample

	pan    uint8
	tl     int32 // current TL, Q(Shift)
	dstTL  uint8 // target TL, 7-bit
	tlStep int32

	prev int32 // previous fetched ROM sample, sign-extended to 16 bits

	eg   Envelope
	plfo lfo
	alfo lfo
}

func newVoice() Voice {
	return Voice{plfo: newPLFO(), alfo: newALFO()}
}

// Playing reports whether the voice is currently producing output.
func (v *Voice) Playing() bool { return v.playing }

// Muted reports whether the voice's mute bit is set.
func (v *Voice) Muted() bool { return v.muted }

// recomputeStep rebuilds the phase increment from Regs[2]/Regs[3] and
// the chip's per-rate FNS table, per spec §4.F registers 2/3. The
// octave shift amount intentionally uses the raw masked (unsigned)
// nibble, not the sign-extended octave, per spec §9's explicit note.
func (v *Voice) recomputeStep(rate uint32, fns *[1024]int32) {
	regs3 := v.regs[3]
	raw := uint8(int32(regs3>>4)-1) & 0xf
	octSigned := signExtend4(raw)

	idx := (uint32(regs3&0xf) << 6) | uint32(v.regs[2]>>2)
	pitch := int64(fns[idx])
	if octSigned < 0 {
		pitch >>= uint(16 - int32(raw))
	} else {
		pitch <<= uint(octSigned)
	}

	if rate == 0 {
		v.step = 0
		return
	}
	v.step = int32(pitch / int64(rate))
}

// keyOn latches the currently selected sample, resets phase/EG state
// and applies bank remapping, per spec §4.F register 4 and §4.E's
// bank-remap note.
func (v *Voice) keyOn(bankL, bankR uint32) {
	if v.sample == nil {
		return
	}
	v.playing = true
	v.offset = 0
	v.prev = 0
	v.tl = int32(v.dstTL) << Shift

	base := v.sample.Start
	if base >= bankThreshold {
		base &= bankMask
		if v.pan&0x8 != 0 {
			base |= bankL
		} else {
			base |= bankR
		}
	}
	v.base = base

	v.eg.calc(v.regs[3], v.sample)
}

// keyOff either starts the release segment or stops the voice
// immediately when the sample's release rate is maxed out (0xf).
func (v *Voice) keyOff() {
	if v.sample != nil && v.sample.RR != 0xf {
		v.eg.state = egRelease
		return
	}
	v.playing = false
}

// writeTL applies register 5: the low bit selects snap-to-target vs.
// ramped interpolation toward it, per spec §4.F register 5.
func (v *Voice) writeTL(data uint8) {
	v.dstTL = (data >> 1) & 0x7f
	if data&1 != 0 {
		v.tl = int32(v.dstTL) << Shift
		return
	}
	if (v.tl >> Shift) > int32(v.dstTL) {
		v.tlStep = tlSteps[0]
	} else {
		v.tlStep = tlSteps[1]
	}
}

// advance renders one output sample for this voice per spec §4.E's
// ten numbered steps, accumulating into the returned stereo pair. A
// stopped or muted voice contributes silence without touching its
// phase or envelope state, as does a voice keyed on before any ROM
// has been allocated - a non-nil Sample only means a descriptor was
// selected, not that backing ROM bytes exist yet.
func (v *Voice) advance(rom []byte, romMask uint32) (left, right int32) {
	if !v.playing || v.muted || len(rom) == 0 {
		return 0, 0
	}

	adr := uint32(v.offset >> Shift)
	fpart := int32(v.offset & ((1 << Shift) - 1))

	romIdx := (v.base + adr) & romMask
	csample := int32(int8(rom[romIdx])) << 8

	sample := (csample*fpart + v.prev*((1<<Shift)-fpart)) >> Shift

	step := v.step
	vibrato := v.regs[6]&7 != 0
	if vibrato {
		step = int32((int64(step) * int64(v.plfo.pitchMultiplier())) >> LFOShift)
	}

	newOffset := v.offset + uint64(uint32(step))
	end := uint64(v.sample.End) << Shift
	loop := uint64(v.sample.Loop) << Shift
	if newOffset >= end {
		newOffset = loop
	}
	if uint32(newOffset>>Shift) != adr {
		v.prev = csample
	}
	v.offset = newOffset

	if (v.tl >> Shift) != int32(v.dstTL) {
		v.tl += v.tlStep
	}

	tremolo := v.regs[7]&7 != 0
	if tremolo {
		sample = int32((int64(sample) * int64(v.alfo.gainMultiplier())) >> LFOShift)
	}

	gain, stopped := v.eg.update()
	sample = (sample * gain) >> linExpShift
	if stopped {
		v.playing = false
	}

	tl := v.tl >> Shift
	if tl < 0 {
		tl = 0
	} else if tl > 127 {
		tl = 127
	}
	volIndex := tl | (int32(v.pan) << 7)

	left = (lpan[volIndex] * sample) >> Shift
	right = (rpan[volIndex] * sample) >> Shift
	return left, right
}
