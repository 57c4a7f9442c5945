package strip

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/rkarls/go-rawjpeg/internal/demosaic"
	"github.com/rkarls/go-rawjpeg/internal/pixel"
)

// captureSink records everything the orchestrator emits. step and rows
// describe the tight block geometry so blocks can be copied out of the
// reused output strip.
type captureSink struct {
	step, rows int

	begins, ends  int
	width, height int
	sub           demosaic.Subsampling
	quality       int
	pitch         int
	blocks        [][]byte
	beginErr      error
}

func (s *captureSink) Begin(w, h int, sub demosaic.Subsampling, q int) error {
	s.begins++
	s.width, s.height, s.sub, s.quality = w, h, sub, q
	return s.beginErr
}

func (s *captureSink) AddBlock(b []byte, pitch int) error {
	s.pitch = pitch
	cp := make([]byte, s.step*s.rows)
	for j := 0; j < s.rows; j++ {
		copy(cp[j*s.step:(j+1)*s.step], b[j*pitch:j*pitch+s.step])
	}
	s.blocks = append(s.blocks, cp)
	return nil
}

func (s *captureSink) End() error {
	s.ends++
	return nil
}

func byteSource(src []byte) ReadFunc {
	off := 0
	return func(p []byte) int {
		n := copy(p, src[off:])
		off += n
		return n
	}
}

func TestOrchestratorBlockOrder(t *testing.T) {
	const width, height = 20, 20
	p := Params{
		Width: width, Height: height,
		Format:      pixel.Raw8,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub444,
		Quality:     85,
		Fast:        true,
	}
	raw := make([]byte, width*height)
	sink := &captureSink{step: 24, rows: 8}
	var ws Workspace
	o, err := New(p, &ws, byteSource(raw), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Run(); err != nil {
		t.Fatal(err)
	}

	if sink.begins != 1 || sink.ends != 1 {
		t.Errorf("begins = %d, ends = %d; want 1, 1", sink.begins, sink.ends)
	}
	if sink.width != width || sink.height != height || sink.sub != demosaic.Sub444 || sink.quality != 85 {
		t.Errorf("Begin got (%d, %d, %v, %d)", sink.width, sink.height, sink.sub, sink.quality)
	}
	// 20 pixels pad to 24: three blocks per row, three block rows.
	if len(sink.blocks) != 9 {
		t.Fatalf("got %d blocks, want 9", len(sink.blocks))
	}
	if sink.pitch != 24*3 {
		t.Errorf("pitch = %d, want 72", sink.pitch)
	}
	if o.State() != StateDone {
		t.Errorf("state = %v, want StateDone", o.State())
	}
}

// TestOrchestratorMatchesRowConversion reassembles the emitted blocks
// into an image and checks every pixel against a direct row-by-row
// conversion with full vertical context. Carry-over and lookahead
// wiring across block boundaries must not change a single byte.
func TestOrchestratorMatchesRowConversion(t *testing.T) {
	const (
		width, height = 10, 10
		black         = 16
	)
	rng := rand.New(rand.NewSource(11))
	raw := make([]byte, width*height)
	for i := range raw {
		raw[i] = byte(rng.Intn(256))
	}

	p := Params{
		Width: width, Height: height,
		Format:      pixel.Raw8,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub444,
		Quality:     85,
		BlackLevel:  black,
		Fast:        true,
	}
	sink := &captureSink{step: 24, rows: 8}
	var ws Workspace
	o, err := New(p, &ws, byteSource(raw), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Run(); err != nil {
		t.Fatal(err)
	}
	if len(sink.blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(sink.blocks))
	}

	// Direct conversion of the whole image.
	img := make([][]uint16, height)
	for y := range img {
		img[y] = make([]uint16, width)
		for x := range img[y] {
			v := uint16(raw[y*width+x])
			if v > black {
				v -= black
			} else {
				v = 0
			}
			img[y][x] = v
		}
	}
	conv := demosaic.New(demosaic.Options{
		Width: width, Pattern: demosaic.RGGB, Subsampling: demosaic.Sub444,
		BitDepth: 8, Fast: true,
	})
	want := make([][]byte, height)
	for y := range img {
		want[y] = make([]byte, width*3)
		var prev, next []uint16
		if y > 0 {
			prev = img[y-1]
		}
		if y+1 < height {
			next = img[y+1]
		}
		conv.ConvertRow(want[y], nil, prev, img[y], next, y)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			blk := sink.blocks[(y/8)*2+x/8]
			for c := 0; c < 3; c++ {
				got := blk[(y%8)*24+(x%8)*3+c]
				if got != want[y][3*x+c] {
					t.Fatalf("pixel (%d,%d) channel %d: got %d, want %d",
						x, y, c, got, want[y][3*x+c])
				}
			}
		}
	}
}

// TestOrchestratorPadsByReplication checks that padded columns repeat
// the last real pixel and padded rows repeat the last real row.
func TestOrchestratorPadsByReplication(t *testing.T) {
	const width, height = 10, 10
	raw := make([]byte, width*height)
	for i := range raw {
		raw[i] = byte(100 + i%50)
	}
	p := Params{
		Width: width, Height: height,
		Format:      pixel.Raw8,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub444,
		Quality:     85,
		Fast:        true,
	}
	sink := &captureSink{step: 24, rows: 8}
	var ws Workspace
	o, err := New(p, &ws, byteSource(raw), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Run(); err != nil {
		t.Fatal(err)
	}

	// Right padding: columns 10..15 of the second block column repeat
	// column 9.
	for y := 0; y < 8; y++ {
		blk := sink.blocks[1]
		for x := 10; x < 16; x++ {
			for c := 0; c < 3; c++ {
				if blk[y*24+(x%8)*3+c] != blk[y*24+1*3+c] {
					t.Fatalf("row %d col %d not replicated from col 9", y, x)
				}
			}
		}
	}
	// Bottom padding: rows 10..15 of the lower blocks repeat row 9.
	for _, blk := range sink.blocks[2:] {
		for y := 2; y < 8; y++ {
			for i := 0; i < 24; i++ {
				if blk[y*24+i] != blk[1*24+i] {
					t.Fatalf("padded row %d differs from last real row", y+8)
				}
			}
		}
	}
}

// TestOrchestratorTruncatedInput feeds only four of sixteen rows; the
// missing tail must render as black, not stale bytes.
func TestOrchestratorTruncatedInput(t *testing.T) {
	const width, height = 16, 16
	raw := make([]byte, width*4)
	for i := range raw {
		raw[i] = 200
	}
	p := Params{
		Width: width, Height: height,
		Format:      pixel.Raw8,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub444,
		Quality:     85,
		Fast:        true,
	}
	sink := &captureSink{step: 24, rows: 8}
	var ws Workspace
	o, err := New(p, &ws, byteSource(raw), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Run(); err != nil {
		t.Fatal(err)
	}

	// The second block row covers rows 8..15, all beyond the data.
	for _, blk := range sink.blocks[2:] {
		for j := 0; j < 8; j++ {
			for i := 0; i < 8; i++ {
				yv := blk[j*24+3*i]
				cb := blk[j*24+3*i+1]
				cr := blk[j*24+3*i+2]
				if yv != 0 || cb != 128 || cr != 128 {
					t.Fatalf("block row 1 pixel (%d,%d) = (%d,%d,%d), want black", i, j, yv, cb, cr)
				}
			}
		}
	}
}

func TestOrchestratorShortSkip(t *testing.T) {
	p := Params{
		Width: 16, Height: 8,
		Format:      pixel.Raw8,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub444,
		SkipLines:   2,
		Fast:        true,
	}
	sink := &captureSink{step: 24, rows: 8}
	var ws Workspace
	o, err := New(p, &ws, byteSource(make([]byte, 24)), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Run(); !errors.Is(err, ErrShortSkip) {
		t.Fatalf("Run() error = %v, want ErrShortSkip", err)
	}
	if sink.begins != 0 {
		t.Errorf("sink started despite failed skip")
	}
}

func TestOrchestratorBeginError(t *testing.T) {
	p := Params{
		Width: 8, Height: 8,
		Format:      pixel.Raw8,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub444,
		Fast:        true,
	}
	sink := &captureSink{step: 24, rows: 8, beginErr: errors.New("refused")}
	var ws Workspace
	o, err := New(p, &ws, byteSource(make([]byte, 64)), sink)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.Run(); !errors.Is(err, ErrCompressorInit) {
		t.Fatalf("Run() error = %v, want ErrCompressorInit", err)
	}
}

// TestOrchestratorWorkspaceReuse runs two same-sized conversions over
// one workspace; the second must not allocate.
func TestOrchestratorWorkspaceReuse(t *testing.T) {
	p := Params{
		Width: 32, Height: 16,
		Format:      pixel.Raw16,
		Pattern:     demosaic.RGGB,
		Subsampling: demosaic.Sub420,
		Fast:        true,
	}
	var ws Workspace
	for i := 0; i < 2; i++ {
		raw := make([]byte, 32*2*16)
		sink := &captureSink{step: 32, rows: 16}
		o, err := New(p, &ws, byteSource(raw), sink)
		if err != nil {
			t.Fatal(err)
		}
		if err := o.Run(); err != nil {
			t.Fatal(err)
		}
		if ws.Grows != 5 {
			t.Fatalf("run %d: Grows = %d, want 5", i, ws.Grows)
		}
	}
}
