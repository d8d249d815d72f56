package main

import (
	"fmt"
	"os"
	"simlife/src/driver"
	"simlife/src/universe"
	"simlife/src/view"
	"time"

	"github.com/integrii/flaggy"
)

//default universe configuration, the same field the browser host starts with
const (
	DefWidth            = 387
	DefHeight           = 200
	DefAliveProbability = 0.25
)

type EnvOptions struct {
	interactive bool
	showField   bool
}

func main() {
	eo, uo, do := initOptions(os.Args[1:])

	u, err := universe.NewWithOptions(*uo)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	var stateCh chan driver.Status
	if !eo.interactive {
		stateCh = make(chan driver.Status, 10) //the buffered channel to getting the driver status
	}
	d := driver.New(u, do, stateCh)

	if eo.interactive {
		v := view.NewConsoleUI()
		d.RegisterViewer(v)
		v.Start()
		d.Close()
		return
	}

	c := view.NewConsoleOut()
	c.ShowField = eo.showField
	d.RegisterViewer(c)
	c.Start()
	startTime := time.Now()
	d.Run()
	for st := range d.StateCh() {
		if st.RunningMode == driver.RunningStateFinished {
			fmt.Printf("Finished, generation is: %v, total running time: %v\n", st.Generation, time.Since(startTime).Round(time.Millisecond))
			break
		}
	}
	d.Close()
}

//initOptions parses the command line args into the environment, universe and driver options
func initOptions(args []string) (eo *EnvOptions, uo *universe.Options, do *driver.Options) {
	uo = &universe.Options{
		Width:            DefWidth,
		Height:           DefHeight,
		AliveProbability: DefAliveProbability,
	}
	opts := driver.DefaultOptions
	do = &opts
	eo = &EnvOptions{}

	var width, height uint
	width, height = uint(uo.Width), uint(uo.Height)
	probability := float64(uo.AliveProbability)

	flaggy.SetName("simlife")
	flaggy.SetDescription("Toroidal \"Life\" game simulation")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.UInt(&width, "x", "width", "Width of a universe")
	flaggy.UInt(&height, "y", "height", "Height of a universe")
	flaggy.Float64(&probability, "p", "probability", "Probability of a cell to be alive in the first generation")
	flaggy.Int64(&uo.Seed, "", "seed", "Random seed of the first generation, 0 seeds from the clock")
	flaggy.Int(&uo.Workers, "w", "workers", "Goroutines computing the generation, 1 is sequential")
	flaggy.Duration(&do.Interval, "i", "interval", "Simulation speed (interval between the generations) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&do.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations, 0 is unlimited")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.showField, "f", "field", "Print the universe on every generation")

	flaggy.ParseArgs(args)

	uo.Width, uo.Height = uint32(width), uint32(height)
	uo.AliveProbability = float32(probability)
	return
}
