// tables_test.go - fixed-point table construction tests

package multipcm

import "testing"

func TestPanVolumeLUT_CenteredIsSymmetric(t *testing.T) {
	for tl := 0; tl < 128; tl++ {
		idx := tl // pan == 0
		if lpan[idx] != rpan[idx] {
			t.Fatalf("pan 0 TL=%d: lpan=%d rpan=%d, want equal", tl, lpan[idx], rpan[idx])
		}
	}
}

func TestPanVolumeLUT_FullMuteAtPan8(t *testing.T) {
	for tl := 0; tl < 128; tl++ {
		idx := (0x8 << 7) | tl
		if lpan[idx] != 0 || rpan[idx] != 0 {
			t.Fatalf("pan 0x8 TL=%d: lpan=%d rpan=%d, want both 0", tl, lpan[idx], rpan[idx])
		}
	}
}

func TestPanVolumeLUT_LeftFamilyMutesLeftAtMax(t *testing.T) {
	// pan 0x7: left-attenuating family, fully muted at its extreme,
	// right channel left untouched.
	idx := (0x7 << 7) | 0
	if lpan[idx] != 0 {
		t.Errorf("pan 0x7 TL=0: lpan=%d, want 0", lpan[idx])
	}
	if rpan[idx] == 0 {
		t.Errorf("pan 0x7 TL=0: rpan=0, want non-zero")
	}
}

func TestPanVolumeLUT_MonotonicWithTL(t *testing.T) {
	// higher TL means more attenuation, so lpan must be non-increasing with TL
	prev := lpan[0]
	for tl := 1; tl < 128; tl++ {
		cur := lpan[tl]
		if cur > prev {
			t.Fatalf("lpan not monotonic at TL=%d: prev=%d cur=%d", tl, prev, cur)
		}
		prev = cur
	}
}

func TestLin2Exp_MonotonicIncreasing(t *testing.T) {
	for i := 1; i < 1024; i++ {
		if lin2exp[i] < lin2exp[i-1] {
			t.Fatalf("lin2exp not monotonic at %d: %d < %d", i, lin2exp[i], lin2exp[i-1])
		}
	}
}

func TestLFOTriangleTables_RangeAndShape(t *testing.T) {
	for i, v := range plfoTri {
		if v < -128 || v > 126 {
			t.Fatalf("plfoTri[%d]=%d out of signed range", i, v)
		}
	}
	for i, v := range alfoTri {
		if v < 0 || v > 254 {
			t.Fatalf("alfoTri[%d]=%d out of unsigned range", i, v)
		}
	}
	// the unsigned table is just the signed one shifted up by 128
	for i := range plfoTri {
		if alfoTri[i] != plfoTri[i]+128 {
			t.Fatalf("alfoTri[%d]=%d, want plfoTri+128=%d", i, alfoTri[i], plfoTri[i]+128)
		}
	}
}

func TestLFOScales_ZeroDepthIsIdentity(t *testing.T) {
	// depth 0 has a cents/dB range of 0, so every pitch multiplier
	// should come out at unity (1<<LFOShift) and every gain multiplier
	// at unity too.
	unity := int32(1) << LFOShift
	for x := 0; x < 256; x++ {
		if got := pscales[0][x]; got != unity {
			t.Errorf("pscales[0][%d]=%d, want unity %d", x, got, unity)
		}
		if got := ascales[0][x]; got != unity {
			t.Errorf("ascales[0][%d]=%d, want unity %d", x, got, unity)
		}
	}
}

func TestGetRate_SpecialValues(t *testing.T) {
	var table [64]int32
	for i := range table {
		table[i] = int32(i)
	}
	if got := getRate(&table, 5, 0); got != table[0] {
		t.Errorf("val=0: got %d, want table[0]=%d", got, table[0])
	}
	if got := getRate(&table, 5, 0xf); got != table[0x3f] {
		t.Errorf("val=0xf: got %d, want table[0x3f]=%d", got, table[0x3f])
	}
}

func TestGetRate_ClampsBothDirections(t *testing.T) {
	var table [64]int32
	for i := range table {
		table[i] = int32(i)
	}
	if got := getRate(&table, 1000, 5); got != table[0x3f] {
		t.Errorf("overflowing rate: got %d, want clamp to table[0x3f]=%d", got, table[0x3f])
	}
	if got := getRate(&table, -1000, 5); got != table[0] {
		t.Errorf("underflowing rate: got %d, want clamp to table[0]=%d", got, table[0])
	}
}

func TestSignExtend4(t *testing.T) {
	cases := map[uint8]int32{
		0x0: 0,
		0x7: 7,
		0x8: -8,
		0xf: -1,
	}
	for in, want := range cases {
		if got := signExtend4(in); got != want {
			t.Errorf("signExtend4(%#x) = %d, want %d", in, got, want)
		}
	}
}
