// main.go - builds a synthetic single-sample ROM and plays it through
// the multipcm engine via oto, for manual listening checks.

package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/segasound/multipcm"
)

func main() {
	clockHz := flag.Uint("clock", 3579545, "chip input clock in Hz")
	note := flag.Uint("note", 0x400, "raw pitch value written to registers 2/3")
	pan := flag.Uint("pan", 0, "4-bit pan value (0 = centered)")
	tl := flag.Uint("tl", 0, "7-bit total level (0 = loudest)")
	seconds := flag.Float64("seconds", 2.0, "seconds to play before exiting")
	muteMask := flag.Uint("mute", 0, "32-bit mask of voices to silence")
	checkROM := flag.Bool("check-rom", false, "print Sample.Sanity() results and exit")
	flag.Parse()

	chip, err := multipcm.New(uint32(*clockHz))
	if err != nil {
		fmt.Fprintf(os.Stderr, "multipcmtone: %v\n", err)
		os.Exit(1)
	}

	rom := buildSquareToneROM()
	if err := chip.AllocROM(uint32(len(rom))); err != nil {
		fmt.Fprintf(os.Stderr, "multipcmtone: %v\n", err)
		os.Exit(1)
	}
	chip.WriteROM(0, rom)

	if *checkROM {
		for i := 0; i < 1; i++ {
			s := chip.Sample(i)
			fmt.Printf("sample %d: Start=%#x Loop=%#x End=%#x sane=%v\n", i, s.Start, s.Loop, s.End, s.Sanity())
		}
		return
	}

	chip.SetMuteMask(uint32(*muteMask))

	chip.Write(1, 0) // select voice 0
	chip.Write(2, 0)
	chip.Write(0, byte(*pan<<4))
	chip.Write(2, 1)
	chip.Write(0, 0) // sample 0
	chip.Write(2, 2)
	chip.Write(0, byte(*note&0xff))
	chip.Write(2, 3)
	chip.Write(0, byte((*note>>8)&0xff))
	chip.Write(2, 5)
	chip.Write(0, byte((*tl<<1)|1))
	chip.Write(2, 4)
	chip.Write(0, 0x80) // key on

	if err := playThroughOto(chip, *seconds); err != nil {
		fmt.Fprintf(os.Stderr, "multipcmtone: %v\n", err)
		os.Exit(1)
	}
}

// buildSquareToneROM returns a minimal ROM: a 512-descriptor header
// (only sample 0 populated) followed by a short looping square wave.
func buildSquareToneROM() []byte {
	const headerBytes = 512 * 12
	const waveLen = 64
	rom := make([]byte, headerBytes+waveLen)
	for i := range rom {
		rom[i] = 0xff
	}

	start := uint32(headerBytes)
	rom[0] = byte(start >> 16)
	rom[1] = byte(start >> 8)
	rom[2] = byte(start)
	rom[3], rom[4] = 0, 0 // Loop = 0
	length := uint16(waveLen)
	lengthField := uint16(0xffff - length)
	rom[5] = byte(lengthField >> 8)
	rom[6] = byte(lengthField)
	rom[7] = 0          // LFOVIB
	rom[8] = 0xf0 | 0x0  // AR=0xf, DR1=0
	rom[9] = 0x00        // DL=0, DR2=0
	rom[10] = 0xf0 | 0xf // KRS=0xf, RR=0xf
	rom[11] = 0

	for i := 0; i < waveLen; i++ {
		if i < waveLen/2 {
			rom[int(start)+i] = 0x40
		} else {
			rom[int(start)+i] = 0xc0
		}
	}
	return rom
}

// chipReader adapts a multipcm.Chip to io.Reader for oto, rendering
// interleaved stereo float32 PCM on demand - grounded on the teacher's
// OtoPlayer.Read pull model.
type chipReader struct {
	chip        *multipcm.Chip
	left, right []int32
}

func newChipReader(chip *multipcm.Chip) *chipReader {
	return &chipReader{chip: chip}
}

func (r *chipReader) Read(p []byte) (int, error) {
	n := len(p) / 8 // 2 channels * 4 bytes/float32
	if n == 0 {
		return 0, nil
	}
	if cap(r.left) < n {
		r.left = make([]int32, n)
		r.right = make([]int32, n)
	}
	left := r.left[:n]
	right := r.right[:n]
	r.chip.Update(n, left, right)

	const scale = 1.0 / float32(1<<20)
	for i := 0; i < n; i++ {
		putFloat32LE(p[i*8:], float32(left[i])*scale)
		putFloat32LE(p[i*8+4:], float32(right[i])*scale)
	}
	return n * 8, nil
}

func putFloat32LE(p []byte, f float32) {
	bits := math.Float32bits(f)
	p[0] = byte(bits)
	p[1] = byte(bits >> 8)
	p[2] = byte(bits >> 16)
	p[3] = byte(bits >> 24)
}

func playThroughOto(chip *multipcm.Chip, seconds float64) error {
	rate := int(chip.Rate())
	if rate <= 0 {
		rate = 44100
	}

	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return err
	}
	<-ready

	player := ctx.NewPlayer(newChipReader(chip))
	player.Play()
	defer player.Close()

	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return nil
}
