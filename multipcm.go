// multipcm.go - package overview and shared fixed-point constants

// Package multipcm emulates the core synthesis engine of the Sega
// 315-5560 "MultiPCM" wavetable chip used in System 32, Model 1 and
// Model 2 arcade hardware: 28 sample-playback voices, a four-stage
// envelope generator, pitch/amplitude LFOs, target-level ramping and
// stereo panning, driven entirely by register writes and a raw sample
// ROM buffer supplied by the caller.
//
// This package models chip behavior, not silicon timing: it renders a
// stereo stream of 32-bit samples one chip tick at a time and leaves
// output resampling, mixing with other chips and ROM provisioning to
// the host.
package multipcm

const (
	// Shift is the Q(n.12) fixed-point precision used for voice phase
	// accumulation and for the pan/volume lookup tables.
	Shift = 12
	// EGShift is the Q(10.16) precision of the envelope generator's
	// internal volume accumulator.
	EGShift = 16
	// LFOShift is the Q(n.8) precision used by the PLFO/ALFO phase
	// accumulators and their scale tables.
	LFOShift = 8
	// linExpShift is the right shift applied when folding the
	// envelope's linear-to-exponential gain into a voice sample.
	linExpShift = 10

	// NumVoices is the number of independent sample-playback voices.
	NumVoices = 28
	// NumSamples is the number of sample descriptors parsed from ROM.
	NumSamples = 512
	// sampleHeaderBytes is the byte span at the start of ROM that
	// holds the 512 12-byte sample descriptors.
	sampleHeaderBytes = NumSamples * 12

	// clockDivider converts the chip's input clock to its output
	// sample rate: Rate = clock / clockDivider.
	clockDivider = 180

	// bankThreshold is the sample start offset at or above which a
	// voice's ROM base is remapped through BankL/BankR.
	bankThreshold = 0x100000
	bankMask      = bankThreshold - 1
)
