// envelope_test.go - envelope generator state machine tests

package multipcm

import "testing"

func fastSample() *Sample {
	// AR/DR1/DR2/RR = 0xf would snap instantly and defeat these tests,
	// so pick a fast-but-finite rate (0xe) with a shallow decay level.
	return &Sample{AR: 0xe, DR1: 0xe, DR2: 0xe, DL: 0x1, RR: 0xe, KRS: 0xf}
}

func TestEnvelope_AttackIsMonotonicIncreasing(t *testing.T) {
	var e Envelope
	e.calc(0, fastSample())

	prev := e.volume
	for i := 0; i < 1000 && e.state == egAttack; i++ {
		e.update()
		if e.volume < prev {
			t.Fatalf("attack volume decreased at step %d: %d < %d", i, e.volume, prev)
		}
		prev = e.volume
	}
}

func TestEnvelope_AttackReachesMaxThenTransitions(t *testing.T) {
	var e Envelope
	e.calc(0, fastSample())

	for i := 0; i < 100000 && e.state == egAttack; i++ {
		e.update()
	}
	if e.state == egAttack {
		t.Fatal("attack never transitioned out within bound")
	}
	if e.state != egDecay1 && e.state != egDecay2 {
		t.Errorf("unexpected post-attack state %v", e.state)
	}
}

func TestEnvelope_DecayIsMonotonicDecreasing(t *testing.T) {
	var e Envelope
	e.calc(0, fastSample())
	for i := 0; i < 100000 && e.state == egAttack; i++ {
		e.update()
	}

	prev := e.volume
	for i := 0; i < 100000 && (e.state == egDecay1 || e.state == egDecay2); i++ {
		e.update()
		if e.volume > prev {
			t.Fatalf("decay volume increased at step %d: %d > %d", i, e.volume, prev)
		}
		prev = e.volume
	}
}

func TestEnvelope_KeyOffAlwaysStopsEventually(t *testing.T) {
	var e Envelope
	e.calc(0, fastSample())
	e.state = egRelease

	stopped := false
	for i := 0; i < 100000; i++ {
		_, s := e.update()
		if s {
			stopped = true
			break
		}
	}
	if !stopped {
		t.Fatal("release never reached stopped within bound")
	}
	if e.volume != 0 {
		t.Errorf("stopped volume = %d, want 0", e.volume)
	}
}

func TestEnvelope_ReleaseWithRR0xfHandledByVoiceNotEnvelope(t *testing.T) {
	// RR==0xf is special-cased in Voice.keyOff (immediate stop, spec
	// §4.F reg4) rather than in Envelope itself - this test documents
	// that Envelope.update alone does not special-case rr==table[0x3f].
	s := fastSample()
	s.RR = 0xf
	var e Envelope
	e.calc(0, s)
	if e.rr != drStepGlobal[0x3f] {
		t.Errorf("rr = %d, want drStepGlobal[0x3f]=%d", e.rr, drStepGlobal[0x3f])
	}
}

func TestEnvelope_StateMachineNeverGoesBackToAttack(t *testing.T) {
	var e Envelope
	e.calc(0, fastSample())
	sawNonAttack := false
	for i := 0; i < 200000; i++ {
		e.update()
		if e.state != egAttack {
			sawNonAttack = true
		}
		if sawNonAttack && e.state == egAttack {
			t.Fatalf("state returned to attack at step %d", i)
		}
	}
}
