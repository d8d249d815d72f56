package universe

/*
	Sequential generation with two buffers
	All cells state is calculated to the next buffer reading the current one only,
	Tick then swaps the buffers, so the current generation is never mutated while it is scanned
*/

func (u *Universe) sequentialGeneration() (liveCells int, changed bool) {
	i := 0
	for row := uint32(0); row < u.height; row++ {
		for column := uint32(0); column < u.width; column++ {
			nextState := u.nextState(row, column)
			liveCells += int(nextState)
			changed = changed || nextState != u.cells[i]
			u.next[i] = nextState
			i++
		}
	}
	return
}
