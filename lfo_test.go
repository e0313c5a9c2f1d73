// lfo_test.go - PLFO/ALFO oscillator tests

package multipcm

import "testing"

func TestLFO_SetFreqZeroRateIsSafe(t *testing.T) {
	l := newPLFO()
	l.setFreq(0, 0)
	if l.phaseStep != 0 {
		t.Errorf("phaseStep = %d, want 0 for zero rate", l.phaseStep)
	}
	// must not panic on step either
	_ = l.step()
}

func TestLFO_StepAdvancesPhase(t *testing.T) {
	l := newPLFO()
	l.setFreq(0x08, 44100) // (regs6>>3)&7 == 1
	if l.phaseStep == 0 {
		t.Fatal("expected non-zero phaseStep for non-zero rate/freq index")
	}
	start := l.phase
	l.step()
	if l.phase == start {
		t.Error("phase did not advance after step")
	}
}

func TestPLFO_PitchMultiplierUnityAtDepth0(t *testing.T) {
	l := newPLFO()
	l.setFreq(0x08, 44100)
	unity := int32(1) << LFOShift
	for i := 0; i < 300; i++ {
		if got := l.pitchMultiplier(); got != unity {
			t.Fatalf("pitchMultiplier at depth 0 = %d, want unity %d", got, unity)
		}
	}
}

func TestALFO_GainMultiplierUnityAtDepth0(t *testing.T) {
	l := newALFO()
	l.setFreq(0x08, 44100)
	unity := int32(1) << LFOShift
	for i := 0; i < 300; i++ {
		if got := l.gainMultiplier(); got != unity {
			t.Fatalf("gainMultiplier at depth 0 = %d, want unity %d", got, unity)
		}
	}
}

func TestPLFO_SetScaleChangesDepth(t *testing.T) {
	l := newPLFO()
	l.setFreq(0x08, 44100)
	l.setScale(&pscales[7]) // deepest depth
	sawNonUnity := false
	unity := int32(1) << LFOShift
	for i := 0; i < 3000; i++ {
		if l.pitchMultiplier() != unity {
			sawNonUnity = true
		}
	}
	if !sawNonUnity {
		t.Error("expected deepest PLFO depth to deviate from unity at some phase")
	}
}
