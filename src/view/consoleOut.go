package view

import (
	"fmt"
	"io"
	"os"
	"simlife/src/driver"
	"simlife/src/universe"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"
)

//ConsoleOut prints the simulation progress to the writer (stdout by default)
type ConsoleOut struct {
	d         *driver.Driver
	w         io.Writer
	au        aurora.Aurora
	startTime time.Time
	ShowField bool //print the rendered field on every refresh
}

func NewConsoleOut() *ConsoleOut {
	return NewConsoleOutWriter(os.Stdout, true)
}

//NewConsoleOutWriter creates ConsoleOut writing to w, colors disables aurora's escape sequences when false
func NewConsoleOutWriter(w io.Writer, colors bool) *ConsoleOut {
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors)}
}

func (c *ConsoleOut) Refresh() {
	st := c.d.Status()
	if c.ShowField {
		c.d.View(func(u *universe.Universe) {
			_, _ = fmt.Fprintf(c.w, "%s %v\n%s", c.au.Cyan("Generation"), st.Generation, u.Render())
		})
	}
	if st.RunningMode == driver.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		_, _ = fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
	} else if !c.ShowField && st.Generation%10 == 0 {
		_, _ = fmt.Fprintf(c.w, "  Generations done: %v\n", st.Generation)
	}
}

func (c *ConsoleOut) Register(d *driver.Driver) {
	c.d = d
	o := d.Options()
	var w, h uint32
	var workers int
	d.View(func(u *universe.Universe) {
		w, h, workers = u.Width(), u.Height(), u.Workers()
	})
	_, _ = fmt.Fprintln(c.w, c.au.Green("Running configuration:"))
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v x %v", w, h),
		"Interval":       o.Interval,
		"Max iterations": fmt.Sprintf("%v steps", o.MaxSteps),
		"Workers":        workers,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", c.au.Green(propName), d[propName])
	}
}
