// chip.go - chip façade: register ports, banking, mute, render loop (component F)

package multipcm

import "sync"

// val2chan maps the 5-bit slot-select field written to port 1 (or
// packed into a quick-write byte) onto one of the 28 voices. Every
// 8th position is a gap that resolves to -1 and silently ignores
// subsequent data writes, per spec §4.F.
var val2chan = func() [32]int8 {
	var t [32]int8
	ch := int8(0)
	for i := 0; i < 32; i++ {
		if i%8 == 7 {
			t[i] = -1
			continue
		}
		t[i] = ch
		ch++
	}
	return t
}()

// Chip is one MultiPCM instance: 28 voices, a ROM buffer with banking
// and masking, the register-select state machine and the process-wide
// tables built in tables.go. A Chip is safe for concurrent use the way
// the teacher's SoundChip/SIDEngine are - one goroutine may write
// registers while another renders - guarded by a single mutex (see
// SPEC_FULL.md §5).
type Chip struct {
	mu sync.Mutex

	voices  [NumVoices]Voice
	samples [NumSamples]Sample

	curSlot int
	address uint8

	bankL, bankR uint32

	rom     []byte
	romSize uint32
	romMask uint32

	muteMask uint32

	rate uint32
	fns  [1024]int32
}

// New creates a chip clocked at clockHz; its effective output rate is
// clockHz/180. Call Update to render audio once registers have been
// written and (if the voices will play samples) ROM has been loaded
// with AllocROM/WriteROM.
func New(clockHz uint32) (*Chip, error) {
	if clockHz == 0 {
		return nil, ErrZeroClock
	}
	c := &Chip{curSlot: -1}
	for i := range c.voices {
		c.voices[i] = newVoice()
	}
	c.rate = clockHz / clockDivider
	buildFNSTable(&c.fns, c.rate)
	return c, nil
}

// Reset stops every voice but keeps ROM and the parsed sample table,
// per spec §3's lifecycle description.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.voices {
		c.voices[i].playing = false
	}
}

// Rate returns the chip's effective output sample rate in Hz.
func (c *Chip) Rate() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Write performs a register-port write. Port 0 is the data write
// (ignored while no slot is selected), port 1 selects the active
// voice, port 2 selects the active register address (clamped to 7).
// Any other port is silently ignored, per spec §4.F/§7.
func (c *Chip) Write(port int, data uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch port {
	case 0:
		if c.curSlot < 0 {
			return
		}
		c.writeSlotLocked(c.curSlot, c.address, data)
	case 1:
		c.curSlot = int(val2chan[data&0x1f])
	case 2:
		if data > 7 {
			data = 7
		}
		c.address = data
	}
}

// WriteQuick combines slot-select and address-select into one packed
// byte and immediately performs the data write, per spec §4.F and §6.
func (c *Chip) WriteQuick(packed, data uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.curSlot = int(val2chan[(packed>>3)&0x1f])
	c.address = packed & 7
	if c.curSlot < 0 {
		return
	}
	c.writeSlotLocked(c.curSlot, c.address, data)
}

// Read always returns 0: the chip's read interface is unused on real
// hardware as far as is documented, and spec §4.F/§9 says not to
// synthesize behavior for it.
func (c *Chip) Read(port int) uint8 {
	return 0
}

// writeSlotLocked implements the per-slot register semantics of spec
// §4.F. Callers must hold c.mu.
func (c *Chip) writeSlotLocked(slot int, reg uint8, data uint8) {
	v := &c.voices[slot]
	v.regs[reg] = data

	switch reg {
	case 0:
		v.pan = (data >> 4) & 0xf
	case 1:
		v.sample = &c.samples[data]
		c.writeSlotLocked(slot, 6, v.sample.LFOVIB)
		c.writeSlotLocked(slot, 7, v.sample.AM)
	case 2, 3:
		v.recomputeStep(c.rate, &c.fns)
	case 4:
		if data&0x80 != 0 {
			v.keyOn(c.bankL, c.bankR)
		} else {
			v.keyOff()
		}
	case 5:
		v.writeTL(data)
	case 6, 7:
		if data != 0 {
			v.plfo.setFreq(v.regs[6], c.rate)
			v.plfo.setScale(&pscales[v.regs[6]&7])
			v.alfo.setFreq(v.regs[6], c.rate)
			v.alfo.setScale(&ascales[v.regs[7]&7])
		}
	}
}

// SetBank sets the raw 24-bit bank bases used to remap a voice's ROM
// base when its sample's Start is >= 0x100000, per spec §6.
func (c *Chip) SetBank(left, right uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bankL = left
	c.bankR = right
}

// BankWrite applies a selector-gated bank write: bit 0 of sel updates
// BankL, bit 1 updates BankR, both shifted left 16, per spec §6.
func (c *Chip) BankWrite(sel uint8, word uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sel&1 != 0 {
		c.bankL = word << 16
	}
	if sel&2 != 0 {
		c.bankR = word << 16
	}
}

// SetMuteMask sets the per-voice mute bitmask: bit i silences voice i
// without touching its phase or envelope state.
func (c *Chip) SetMuteMask(mask uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muteMask = mask
	for i := range c.voices {
		c.voices[i].muted = mask&(1<<uint(i)) != 0
	}
}

// MuteMask returns the current per-voice mute bitmask.
func (c *Chip) MuteMask() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muteMask
}

// VoiceMuted reports whether voice i is currently muted. It is a pure
// query alongside the bulk SetMuteMask setter (see SPEC_FULL.md §6).
func (c *Chip) VoiceMuted(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= NumVoices {
		return false
	}
	return c.voices[i].muted
}

// AllocROM (re)allocates the chip's ROM buffer, filling it with 0xFF
// and recomputing ROMMask to the smallest power-of-two-minus-one that
// covers size, per spec §6. A call with the currently allocated size
// is a no-op.
func (c *Chip) AllocROM(size uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size == 0 || size == c.romSize {
		return nil
	}
	if size > 1<<30 {
		return ErrROMTooLarge
	}
	capSize := nextPow2(size)
	rom := make([]byte, capSize)
	for i := range rom {
		rom[i] = 0xff
	}
	c.rom = rom
	c.romSize = size
	c.romMask = capSize - 1
	return nil
}

// WriteROM copies data into the ROM buffer at offset, silently
// truncating any portion that runs past ROMSize. If the written
// window intersects [0, 6144) every sample descriptor is re-parsed
// from the new ROM contents, per spec §3/§4.B/§6.
func (c *Chip) WriteROM(offset uint32, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offset >= c.romSize {
		return
	}
	n := uint32(len(data))
	if offset+n > c.romSize {
		n = c.romSize - offset
	}
	copy(c.rom[offset:offset+n], data[:n])

	if offset < sampleHeaderBytes {
		c.samples = parseSamples(c.rom)
	}
}

// ROMSize returns the logical ROM size last passed to AllocROM.
func (c *Chip) ROMSize() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.romSize
}

// Sample returns a copy of sample descriptor i (0..511).
func (c *Chip) Sample(i int) Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= NumSamples {
		return Sample{}
	}
	return c.samples[i]
}

// VoiceSnapshot is a read-only copy of one voice's live state, for
// debug/inspection use only - grounded on the teacher's debug_ioview.go
// pattern of copying engine state out for display rather than exposing
// the live struct.
type VoiceSnapshot struct {
	Playing  bool
	Muted    bool
	Pan      uint8
	TL       int32
	DstTL    uint8
	Offset   uint64
	Step     int32
	EGState  int
	EGVolume int32
}

// DebugVoice returns a snapshot of voice i's current state.
func (c *Chip) DebugVoice(i int) VoiceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= NumVoices {
		return VoiceSnapshot{}
	}
	v := &c.voices[i]
	return VoiceSnapshot{
		Playing:  v.playing,
		Muted:    v.muted,
		Pan:      v.pan,
		TL:       v.tl,
		DstTL:    v.dstTL,
		Offset:   v.offset,
		Step:     v.step,
		EGState:  int(v.eg.state),
		EGVolume: v.eg.volume,
	}
}

// Update renders n stereo samples, overwriting (not accumulating into)
// outL/outR, per spec §4.G/§6. Voices that are stopped or muted
// contribute silence. outL and outR must each have length >= n.
func (c *Chip) Update(n int, outL, outR []int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n; i++ {
		var l, r int32
		for vi := range c.voices {
			vl, vr := c.voices[vi].advance(c.rom, c.romMask)
			l += vl
			r += vr
		}
		outL[i] = l
		outR[i] = r
	}
}

// nextPow2 returns the smallest power of two >= n (n > 0).
func nextPow2(n uint32) uint32 {
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}
