package universe

import (
	"errors"
	"testing"
)

//fromCoords creates the universe with live cells at the [row, column] coordinates
func fromCoords(t *testing.T, width uint32, height uint32, coords [][2]uint32) *Universe {
	t.Helper()
	cells := make([]Cell, width*height)
	for _, rc := range coords {
		cells[rc[0]*width+rc[1]] = Alive
	}
	u, err := FromCells(width, height, cells)
	if err != nil {
		t.Fatalf("FromCells: %v", err)
	}
	return u
}

func liveCoords(u *Universe) map[[2]uint32]bool {
	live := map[[2]uint32]bool{}
	for row := uint32(0); row < u.Height(); row++ {
		for column := uint32(0); column < u.Width(); column++ {
			if u.Cells()[u.index(row, column)] == Alive {
				live[[2]uint32{row, column}] = true
			}
		}
	}
	return live
}

func assertLive(t *testing.T, u *Universe, want [][2]uint32) {
	t.Helper()
	got := liveCoords(u)
	if len(got) != len(want) {
		t.Fatalf("live cells: got %d, want %d\n%s", len(got), len(want), u.Render())
	}
	for _, rc := range want {
		if !got[rc] {
			t.Fatalf("cell %v is expected to be alive\n%s", rc, u.Render())
		}
	}
}

func TestNew_BufferLength(t *testing.T) {
	for _, tc := range []struct {
		w, h uint32
		p    float32
	}{
		{1, 1, 0.5}, {3, 7, 0.25}, {64, 1, 1}, {1, 64, 0}, {387, 200, 0.25},
	} {
		u, err := New(tc.w, tc.h, tc.p)
		if err != nil {
			t.Fatalf("New(%d, %d, %v): %v", tc.w, tc.h, tc.p, err)
		}
		if got, want := len(u.Cells()), int(tc.w*tc.h); got != want {
			t.Errorf("New(%d, %d, %v): got %d cells, want %d", tc.w, tc.h, tc.p, got, want)
		}
		if u.Width() != tc.w || u.Height() != tc.h {
			t.Errorf("dimensions: got %d x %d, want %d x %d", u.Width(), u.Height(), tc.w, tc.h)
		}
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	for _, d := range [][2]uint32{{0, 5}, {5, 0}, {0, 0}} {
		u, err := New(d[0], d[1], 0.5)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("New(%d, %d): got error %v, want ErrInvalidDimensions", d[0], d[1], err)
		}
		if u != nil {
			t.Errorf("New(%d, %d): universe must be nil on error", d[0], d[1])
		}
	}
}

func TestNew_ProbabilityBoundaries(t *testing.T) {
	for _, tc := range []struct {
		p    float32
		want Cell
	}{
		{-1, Dead}, {0, Dead}, {1, Alive}, {2, Alive},
	} {
		u, err := New(17, 13, tc.p)
		if err != nil {
			t.Fatal(err)
		}
		for i, c := range u.Cells() {
			if c != tc.want {
				t.Fatalf("p=%v: cell %d is %d, want %d", tc.p, i, c, tc.want)
			}
		}
	}
}

func TestNewWithOptions_Seed(t *testing.T) {
	o := Options{Width: 40, Height: 30, AliveProbability: 0.3, Seed: 1234}
	u1, err := NewWithOptions(o)
	if err != nil {
		t.Fatal(err)
	}
	u2, err := NewWithOptions(o)
	if err != nil {
		t.Fatal(err)
	}
	if string(u1.Bytes()) != string(u2.Bytes()) {
		t.Fatal("the same seed must produce the same generation")
	}
	if u1.Stats().LiveCells == 0 || u1.Stats().LiveCells == len(u1.Cells()) {
		t.Fatalf("unexpected live cells for p=0.3: %d", u1.Stats().LiveCells)
	}
}

func TestFromCells_Invalid(t *testing.T) {
	if _, err := FromCells(3, 3, make([]Cell, 8)); !errors.Is(err, ErrInvalidCells) {
		t.Errorf("short buffer: got %v, want ErrInvalidCells", err)
	}
	bad := make([]Cell, 9)
	bad[4] = 2
	if _, err := FromCells(3, 3, bad); !errors.Is(err, ErrInvalidCells) {
		t.Errorf("bad value: got %v, want ErrInvalidCells", err)
	}
	if _, err := FromCells(0, 3, nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: got %v, want ErrInvalidDimensions", err)
	}
}

func TestFromCells_Copies(t *testing.T) {
	cells := []Cell{Alive, Dead, Dead, Alive}
	u, err := FromCells(2, 2, cells)
	if err != nil {
		t.Fatal(err)
	}
	cells[0] = Dead
	if u.Cells()[0] != Alive {
		t.Fatal("FromCells must copy the seed buffer")
	}
}

func TestLiveNeighborCount_CornerWraps(t *testing.T) {
	const w, h = 5, 4
	neighbours := [][2]uint32{
		{h - 1, w - 1}, {h - 1, 0}, {h - 1, 1},
		{0, w - 1}, {0, 1},
		{1, w - 1}, {1, 0}, {1, 1},
	}
	u := fromCoords(t, w, h, neighbours)
	if n := u.liveNeighborCount(0, 0); n != 8 {
		t.Fatalf("corner neighbours: got %d, want 8", n)
	}
	for _, rc := range neighbours {
		u := fromCoords(t, w, h, [][2]uint32{rc})
		if n := u.liveNeighborCount(0, 0); n != 1 {
			t.Errorf("neighbour %v is not counted for (0,0)", rc)
		}
	}
	self := fromCoords(t, w, h, [][2]uint32{{0, 0}, {2, 2}, {2, 3}})
	if n := self.liveNeighborCount(0, 0); n != 0 {
		t.Errorf("cell must not count itself or far cells: got %d", n)
	}
}

func TestTick_Block(t *testing.T) {
	block := [][2]uint32{{1, 1}, {1, 2}, {2, 1}, {2, 2}}
	u := fromCoords(t, 6, 6, block)
	u.Tick()
	assertLive(t, u, block)
	if st := u.Stats(); st.Changed || st.LiveCells != 4 || st.Generation != 1 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestTick_Blinker(t *testing.T) {
	horizontal := [][2]uint32{{2, 1}, {2, 2}, {2, 3}}
	vertical := [][2]uint32{{1, 2}, {2, 2}, {3, 2}}
	u := fromCoords(t, 5, 5, horizontal)
	u.Tick()
	assertLive(t, u, vertical)
	u.Tick()
	assertLive(t, u, horizontal)
	if !u.Stats().Changed {
		t.Error("blinker tick must report changes")
	}
}

func TestTick_GliderWrapsAround(t *testing.T) {
	glider := [][2]uint32{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	u := fromCoords(t, 8, 8, glider)
	//the glider moves one cell diagonally every 4 generations, 8*4 generations return it home
	for i := 0; i < 32; i++ {
		u.Tick()
		if u.Stats().LiveCells != 5 {
			t.Fatalf("generation %d: got %d live cells, want 5", i+1, u.Stats().LiveCells)
		}
	}
	assertLive(t, u, glider)
}

func TestTick_SmallTorus(t *testing.T) {
	D, A := Dead, Alive
	u, err := FromCells(3, 3, []Cell{
		D, A, D,
		D, A, D,
		D, A, D,
	})
	if err != nil {
		t.Fatal(err)
	}
	//column 1 cells see the two others of their column (survive with 2),
	//columns 0 and 2 see the whole column 1 through the wrap (born with 3)
	u.Tick()
	for i, c := range u.Cells() {
		if c != Alive {
			t.Fatalf("generation 1: cell %d is dead\n%s", i, u.Render())
		}
	}
	//every cell has 8 live neighbours now
	u.Tick()
	for i, c := range u.Cells() {
		if c != Dead {
			t.Fatalf("generation 2: cell %d is alive\n%s", i, u.Render())
		}
	}
}

func TestTick_Deterministic(t *testing.T) {
	seed, err := NewWithOptions(Options{Width: 31, Height: 17, AliveProbability: 0.4, Seed: 99})
	if err != nil {
		t.Fatal(err)
	}
	u1, _ := FromCells(31, 17, seed.Cells())
	u2, _ := FromCells(31, 17, seed.Cells())
	for i := 0; i < 2; i++ {
		u1.Tick()
		u2.Tick()
	}
	if string(u1.Bytes()) != string(u2.Bytes()) {
		t.Fatal("identical generations must tick identically")
	}
}

func TestTick_ParallelMatchesSequential(t *testing.T) {
	for _, workers := range []int{2, 3, 4, DefWorkers, 64} {
		o := Options{Width: 50, Height: 37, AliveProbability: 0.35, Seed: 7}
		seq, err := NewWithOptions(o)
		if err != nil {
			t.Fatal(err)
		}
		o.Workers = workers
		par, err := NewWithOptions(o)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 20; i++ {
			seq.Tick()
			par.Tick()
			if string(seq.Bytes()) != string(par.Bytes()) {
				t.Fatalf("workers=%d: generation %d differs", workers, i+1)
			}
			if seq.Stats().LiveCells != par.Stats().LiveCells || seq.Stats().Changed != par.Stats().Changed {
				t.Fatalf("workers=%d: stats differ: %+v vs %+v", workers, seq.Stats(), par.Stats())
			}
		}
	}
}

func TestSetWorkers_BandsCoverRows(t *testing.T) {
	for _, tc := range []struct {
		height  uint32
		workers int
	}{
		{1, 10}, {2, 4}, {3, 2}, {7, 3}, {37, 4}, {100, 10}, {101, 10},
	} {
		u, err := NewWithOptions(Options{Width: 4, Height: tc.height, Workers: tc.workers})
		if err != nil {
			t.Fatal(err)
		}
		if len(u.bands) == 0 {
			t.Fatalf("height=%d workers=%d: no bands", tc.height, tc.workers)
		}
		next := uint32(0)
		for _, b := range u.bands {
			if b.row1 != next || b.row2 <= b.row1 {
				t.Fatalf("height=%d workers=%d: bad band %+v", tc.height, tc.workers, b)
			}
			next = b.row2
		}
		if next != tc.height {
			t.Fatalf("height=%d workers=%d: bands end at %d", tc.height, tc.workers, next)
		}
		if u.Workers() != len(u.bands) {
			t.Errorf("workers: got %d, want %d", u.Workers(), len(u.bands))
		}
	}
}

func TestBytes_View(t *testing.T) {
	u := fromCoords(t, 5, 5, [][2]uint32{{2, 1}, {2, 2}, {2, 3}})
	b := u.Bytes()
	if len(b) != 25 {
		t.Fatalf("got %d bytes, want 25", len(b))
	}
	for i, c := range u.Cells() {
		if b[i] != byte(c) {
			t.Fatalf("byte %d: got %d, want %d", i, b[i], c)
		}
	}
	if b[11] != 1 || b[10] != 0 {
		t.Fatalf("unexpected encoding: %v", b)
	}
	u.Tick()
	if b := u.Bytes(); b[7] != 1 || b[11] != 0 {
		t.Fatalf("Bytes must be fetched from the new generation: %v", b)
	}
}

func TestCopyCells(t *testing.T) {
	u := fromCoords(t, 3, 2, [][2]uint32{{0, 0}, {1, 2}})
	dst := make([]byte, 6)
	if n := u.CopyCells(dst); n != 6 {
		t.Fatalf("copied %d bytes, want 6", n)
	}
	if want := []byte{1, 0, 0, 0, 0, 1}; string(dst) != string(want) {
		t.Fatalf("got %v, want %v", dst, want)
	}
	short := make([]byte, 2)
	if n := u.CopyCells(short); n != 2 {
		t.Fatalf("copied %d bytes into the short buffer, want 2", n)
	}
	dst[0] = 0
	if u.Cells()[0] != Alive {
		t.Fatal("CopyCells must not alias the universe buffer")
	}
}

func TestRender(t *testing.T) {
	u := fromCoords(t, 3, 2, [][2]uint32{{0, 0}, {1, 2}})
	want := "◼◻◻\n◻◻◼\n"
	if got := u.Render(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if u.String() != want {
		t.Fatal("String must match Render")
	}
}
