// errors.go - failure modes (spec §7)

package multipcm

import "errors"

// ErrROMTooLarge is returned by AllocROM when the requested size would
// overflow the 32-bit addressing the chip's register fields expect.
var ErrROMTooLarge = errors.New("multipcm: rom size exceeds addressable range")

// ErrZeroClock is returned by New when the supplied clock is zero,
// since Rate = clock/180 would otherwise silently divide to zero and
// every voice's step/LFO rate would be meaningless.
var ErrZeroClock = errors.New("multipcm: clock must be non-zero")
