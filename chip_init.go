// chip_init.go - rate-dependent table construction (component G)

package multipcm

// buildFNSTable fills the 1024-entry pitch (FNS) table for one chip's
// output rate, per spec §4.A: i -> floor(Rate*(1024+i)/1024 * 2^Shift).
// Unlike the EG step tables (which are pinned to a 44100 Hz reference
// and so are shared process-wide, see tables.go), the FNS table is
// genuinely rate-dependent and is rebuilt once per Chip at New.
func buildFNSTable(fns *[1024]int32, rate uint32) {
	for i := 0; i < 1024; i++ {
		v := float64(rate) * float64(1024+i) / 1024.0 * float64(int32(1)<<Shift)
		fns[i] = int32(v)
	}
}
