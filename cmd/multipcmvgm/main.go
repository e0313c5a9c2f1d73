//go:build !windows

// main.go - replays a register-write command stream against the
// multipcm engine, walking the log sequentially the way pmf2bin walks
// a premaster image, and driving oto the way cmd/multipcmtone does.
//
// The command stream is not VGM proper: it is a small fixed-record
// format of (delaySamples uint32LE, port byte, data byte) triples,
// easy to emit from a VGM-to-multipcm extraction tool without pulling
// in a full VGM parser this package does not otherwise need.
//
// The raw-mode quit key needs syscall.SetNonblock/syscall.Read, which
// are unix-only; a windows build would need its own host the way the
// teacher's terminal_host_windows.go stands in for terminal_host.go.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/term"

	"github.com/segasound/multipcm"
)

const recordSize = 6 // uint32 delay + byte port + byte data

type command struct {
	delay uint32
	port  byte
	data  byte
}

func main() {
	clockHz := flag.Uint("clock", 3579545, "chip input clock in Hz")
	romPath := flag.String("rom", "", "path to a raw ROM image")
	cmdPath := flag.String("cmds", "", "path to a register-write command stream")
	flag.Parse()

	if *romPath == "" || *cmdPath == "" {
		fmt.Fprintln(os.Stderr, "usage: multipcmvgm -rom FILE -cmds FILE")
		os.Exit(1)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "multipcmvgm: %v\n", err)
		os.Exit(1)
	}

	cmds, err := readCommands(*cmdPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "multipcmvgm: %v\n", err)
		os.Exit(1)
	}

	chip, err := multipcm.New(uint32(*clockHz))
	if err != nil {
		fmt.Fprintf(os.Stderr, "multipcmvgm: %v\n", err)
		os.Exit(1)
	}
	if err := chip.AllocROM(uint32(len(rom))); err != nil {
		fmt.Fprintf(os.Stderr, "multipcmvgm: %v\n", err)
		os.Exit(1)
	}
	chip.WriteROM(0, rom)

	host := newRawKeyHost()
	host.Start()
	defer host.Stop()

	player, err := newStreamPlayer(chip)
	if err != nil {
		fmt.Fprintf(os.Stderr, "multipcmvgm: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()
	player.Play()

	fmt.Println("replaying - press q to stop")
	replay(chip, cmds, host)
}

// readCommands walks cmdPath sequentially, one fixed-size record at a
// time, mirroring the teacher pack's pmf2bin sector-by-sector walk of
// a premaster image.
func readCommands(path string) ([]command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var out []command
	buf := make([]byte, recordSize)
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		out = append(out, command{
			delay: binary.LittleEndian.Uint32(buf[0:4]),
			port:  buf[4],
			data:  buf[5],
		})
	}
	return out, nil
}

// replay applies each command's register write then advances the
// chip by delaySamples, stopping early if the host signals a quit.
func replay(chip *multipcm.Chip, cmds []command, host *rawKeyHost) {
	scratchL := make([]int32, 256)
	scratchR := make([]int32, 256)
	for _, c := range cmds {
		if host.quitRequested() {
			return
		}
		chip.Write(int(c.port), c.data)

		remaining := int(c.delay)
		for remaining > 0 {
			n := remaining
			if n > len(scratchL) {
				n = len(scratchL)
			}
			chip.Update(n, scratchL[:n], scratchR[:n])
			remaining -= n
		}
	}
}

// streamPlayer pulls rendered audio from the chip on oto's schedule,
// independent of replay's own delay-driven ticking - the two sides
// share the chip only through its mutex, per the ambient concurrency
// model in chip.go.
type streamPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	chip   *multipcm.Chip
	left   []int32
	right  []int32
}

func newStreamPlayer(chip *multipcm.Chip) (*streamPlayer, error) {
	rate := int(chip.Rate())
	if rate <= 0 {
		rate = 44100
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	sp := &streamPlayer{ctx: ctx, chip: chip}
	sp.player = ctx.NewPlayer(sp)
	return sp, nil
}

func (sp *streamPlayer) Read(p []byte) (int, error) {
	n := len(p) / 8
	if n == 0 {
		return 0, nil
	}
	if cap(sp.left) < n {
		sp.left = make([]int32, n)
		sp.right = make([]int32, n)
	}
	left := sp.left[:n]
	right := sp.right[:n]
	sp.chip.Update(n, left, right)
	const scale = 1.0 / float32(1<<20)
	for i := 0; i < n; i++ {
		putFloat32LE(p[i*8:], float32(left[i])*scale)
		putFloat32LE(p[i*8+4:], float32(right[i])*scale)
	}
	return n * 8, nil
}

func (sp *streamPlayer) Play()  { sp.player.Play() }
func (sp *streamPlayer) Close() { sp.player.Close() }

func putFloat32LE(p []byte, f float32) {
	bits := math.Float32bits(f)
	p[0] = byte(bits)
	p[1] = byte(bits >> 8)
	p[2] = byte(bits >> 16)
	p[3] = byte(bits >> 24)
}

// rawKeyHost puts stdin into raw mode and watches for 'q' to request
// a stop, grounded on the teacher's TerminalHost (terminal_host.go):
// same MakeRaw/SetNonblock/Read-loop/Restore shape, narrowed to a
// single quit key instead of a full MMIO byte stream.
type rawKeyHost struct {
	fd           int
	oldState     *term.State
	nonblockSet  bool
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	quit         chan struct{}
	quitSignaled sync.Once
}

func newRawKeyHost() *rawKeyHost {
	return &rawKeyHost{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
}

func (h *rawKeyHost) Start() {
	h.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return
	}
	h.oldState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldState)
		h.oldState = nil
		close(h.done)
		return
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-h.stopCh:
				return
			default:
			}
			n, err := syscall.Read(h.fd, buf)
			if n > 0 && (buf[0] == 'q' || buf[0] == 'Q') {
				h.quitSignaled.Do(func() { close(h.quit) })
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()
}

func (h *rawKeyHost) Stop() {
	h.stopped.Do(func() { close(h.stopCh) })
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldState != nil {
		_ = term.Restore(h.fd, h.oldState)
		h.oldState = nil
	}
}

func (h *rawKeyHost) quitRequested() bool {
	select {
	case <-h.quit:
		return true
	default:
		return false
	}
}
