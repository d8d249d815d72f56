package universe

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unsafe"
)

//Cell is the state of one cell, exactly one byte: 0 is Dead, 1 is Alive
//the byte encoding is the external contract of the raw cell buffer
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//glyphs used by Render
const (
	DeadGlyph  = '◻'
	AliveGlyph = '◼'
)

//ErrInvalidDimensions is returned when the universe is constructed with a zero width or height
var ErrInvalidDimensions = errors.New("universe dimensions must be greater than zero")

//ErrInvalidCells is returned by FromCells when the seed buffer doesn't match the dimensions
var ErrInvalidCells = errors.New("invalid cells buffer")

//Options represents the Universe's configurable options
type Options struct {
	Width            uint32
	Height           uint32
	AliveProbability float32
	Seed             int64 //random seed, 0 means seeding from the clock
	Workers          int   //tick workers, 0 or 1 means sequential computation
}

//Stats represents the universe statistics after the last tick
type Stats struct {
	Generation    uint64
	LiveCells     int
	Changed       bool
	IterationTime time.Duration
}

//Universe is the toroidal Game of Life field
//it is not safe for concurrent use, Tick must be serialized by the caller
type Universe struct {
	width   uint32
	height  uint32
	cells   []Cell //current generation, row-major
	next    []Cell //next generation buffer, swapped with cells on Tick
	workers int
	bands   []band
	stats   Stats
}

//New creates the universe with width x height cells
//each cell is alive with aliveProbability
func New(width uint32, height uint32, aliveProbability float32) (*Universe, error) {
	return NewWithOptions(Options{Width: width, Height: height, AliveProbability: aliveProbability})
}

//NewWithOptions creates the universe configured by Options
//the same non-zero Seed always produces the same initial generation,
//Seed 0 is replaced by the current time, so the generation seeded with 0 can't be reproduced
func NewWithOptions(o Options) (*Universe, error) {
	u, err := newUniverse(o.Width, o.Height, o.Workers)
	if err != nil {
		return nil, err
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))
	for i := range u.cells {
		if rnd.Float32() < o.AliveProbability {
			u.cells[i] = Alive
		}
	}
	u.stats.LiveCells = u.liveCells()
	return u, nil
}

//FromCells creates the universe from the explicit seed pattern
//cells are copied, every value must be Dead or Alive
func FromCells(width uint32, height uint32, cells []Cell) (*Universe, error) {
	u, err := newUniverse(width, height, 0)
	if err != nil {
		return nil, err
	}
	if len(cells) != len(u.cells) {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidCells, len(cells), len(u.cells))
	}
	for i, c := range cells {
		if c != Dead && c != Alive {
			return nil, fmt.Errorf("%w: cell %d has value %d", ErrInvalidCells, i, c)
		}
	}
	copy(u.cells, cells)
	u.stats.LiveCells = u.liveCells()
	return u, nil
}

func newUniverse(width uint32, height uint32, workers int) (*Universe, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %d x %d", ErrInvalidDimensions, width, height)
	}
	size := int(width) * int(height)
	u := &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, size),
		next:   make([]Cell, size),
	}
	u.setWorkers(workers)
	return u, nil
}

//Width returns the universe width
func (u *Universe) Width() uint32 {
	return u.width
}

//Height returns the universe height
func (u *Universe) Height() uint32 {
	return u.height
}

//Workers returns the number of goroutines used by Tick
func (u *Universe) Workers() int {
	return u.workers
}

//Cells returns the view of the current generation, row-major
//the view is valid until the next Tick, it must be fetched again after every Tick
func (u *Universe) Cells() []Cell {
	return u.cells
}

//Bytes returns the current generation as raw bytes without copying (0 - dead, 1 - alive)
//the same invalidation rule as for Cells applies
func (u *Universe) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&u.cells[0])), len(u.cells))
}

//CopyCells copies the current generation into dst and returns the number of copied bytes
func (u *Universe) CopyCells(dst []byte) int {
	return copy(dst, u.Bytes())
}

//Stats returns the universe statistics
func (u *Universe) Stats() Stats {
	return u.stats
}

//Tick computes the next generation from the current one and replaces it
func (u *Universe) Tick() {
	start := time.Now()
	var live int
	var changed bool
	if u.workers > 1 {
		live, changed = u.parallelGeneration()
	} else {
		live, changed = u.sequentialGeneration()
	}
	u.cells, u.next = u.next, u.cells
	u.stats.Generation++
	u.stats.LiveCells = live
	u.stats.Changed = changed
	u.stats.IterationTime = time.Since(start)
}

//Render returns the text snapshot of the current generation, one line per row
func (u *Universe) Render() string {
	return u.String()
}

func (u *Universe) String() string {
	var b strings.Builder
	w := int(u.width)
	b.Grow(len(u.cells)*len(string(AliveGlyph)) + int(u.height))
	for start := 0; start < len(u.cells); start += w {
		for _, c := range u.cells[start : start+w] {
			if c == Alive {
				b.WriteRune(AliveGlyph)
			} else {
				b.WriteRune(DeadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

//index maps in-range row and column to the buffer index
func (u *Universe) index(row uint32, column uint32) int {
	return int(row)*int(u.width) + int(column)
}

//liveNeighborCount counts live cells among 8 neighbors, the edges wrap to the opposite edge
func (u *Universe) liveNeighborCount(row uint32, column uint32) uint8 {
	var count uint8
	for _, dr := range [3]uint32{u.height - 1, 0, 1} {
		for _, dc := range [3]uint32{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr) % u.height
			c := (column + dc) % u.width
			count += uint8(u.cells[u.index(r, c)])
		}
	}
	return count
}

//nextState applies B3/S23 to the cell at row, column of the current generation
func (u *Universe) nextState(row uint32, column uint32) Cell {
	n := u.liveNeighborCount(row, column)
	switch {
	case n == 3:
		return Alive
	case n == 2:
		return u.cells[u.index(row, column)]
	}
	return Dead
}

func (u *Universe) liveCells() int {
	live := 0
	for _, c := range u.cells {
		live += int(c)
	}
	return live
}
