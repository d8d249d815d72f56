package universe

import (
	"sync"
)

/*
	Multithreaded generation
	the field is splitted into the row bands each of which is computed by individual goroutine,
	all bands read the current generation and write disjoint ranges of the next buffer
*/

const (
	DefWorkers          = 10 //default workers
	DefMinRowsPerWorker = 3  //minimum rows for one worker
)

//band describes the rows computed by one worker
type band struct {
	row1      uint32
	row2      uint32 //exclusive
	liveCells int
	changed   bool
}

//setWorkers splits the field into row bands, at least DefMinRowsPerWorker rows each
func (u *Universe) setWorkers(workers int) {
	u.bands = nil
	if workers <= 1 {
		u.workers = 1
		return
	}
	rowsPerWorker := int(u.height) / workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	} else if rowsPerWorker*workers < int(u.height) {
		rowsPerWorker++
	}
	for row1 := 0; row1 < int(u.height); row1 += rowsPerWorker {
		row2 := row1 + rowsPerWorker
		if row2 > int(u.height) {
			row2 = int(u.height)
		}
		u.bands = append(u.bands, band{row1: uint32(row1), row2: uint32(row2)})
	}
	u.workers = len(u.bands)
}

//parallelGeneration starts goroutines, waits for finishing and sums the bands metrics
func (u *Universe) parallelGeneration() (liveCells int, changed bool) {
	var waitGroup sync.WaitGroup
	for i := range u.bands {
		b := &u.bands[i]
		waitGroup.Add(1)
		go func() {
			u.calcBand(b)
			waitGroup.Done()
		}()
	}
	waitGroup.Wait()
	for _, b := range u.bands {
		liveCells += b.liveCells
		changed = changed || b.changed
	}
	return
}

//calcBand calculates new states for the cells inside the band
func (u *Universe) calcBand(b *band) {
	b.liveCells = 0
	b.changed = false
	for row := b.row1; row < b.row2; row++ {
		for column := uint32(0); column < u.width; column++ {
			i := u.index(row, column)
			nextState := u.nextState(row, column)
			b.liveCells += int(nextState)
			b.changed = b.changed || nextState != u.cells[i]
			u.next[i] = nextState
		}
	}
}
