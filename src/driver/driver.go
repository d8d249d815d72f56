package driver

import (
	"simlife/src/universe"
	"sync"
	"time"
)

//Options represents the Driver's configurable options
type Options struct {
	Interval time.Duration
	MaxSteps int
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	Generation    uint64
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the driver
type Viewer interface {
	Refresh()
	Register(d *Driver)
	Start()
}

//The simulation running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
)

const (
	RunningStateManual   = RunningState(0x0)
	RunningStateStep     = RunningState(0x1)
	RunningStateRun      = RunningState(0x2)
	RunningStateFinished = RunningState(0x3)
)

var DefaultOptions = Options{
	Interval: DefSimulationInterval,
	MaxSteps: DefMaxSteps,
}

//Driver is the animation loop around the Universe
//all universe ticks are executed by the single command goroutine
type Driver struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	universe struct {
		*universe.Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan bool
	closeOnce sync.Once
	done      chan struct{}
}

//New creates the Driver for the universe and starts its command loop
//stateCh can be nil, otherwise the Status is written to it on every running state switch
func New(u *universe.Universe, o *Options, stateCh chan Status) *Driver {
	if o == nil {
		o = &DefaultOptions
	}
	d := Driver{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		done:      make(chan struct{}),
		stateCh:   stateCh,
	}
	d.universe.Universe = u
	st := u.Stats()
	d.state.Generation = st.Generation
	d.state.LiveCells = st.LiveCells
	go d.mainLoop()
	return &d
}

//RegisterViewer registers the viewer - the driver will call the viewer when the state is changed
func (d *Driver) RegisterViewer(v Viewer) {
	d.views = append(d.views, v)
	v.Register(d)
}

//StateCh returns the channel with the status updates
func (d *Driver) StateCh() chan Status {
	return d.stateCh
}

//Status returns current simulation status represented by Status struct
func (d *Driver) Status() Status {
	d.state.Lock()
	defer d.state.Unlock()
	return d.state.Status
}

//Options returns the driver configuration represented by Options struct
func (d *Driver) Options() Options {
	return d.options
}

//View calls fn with the universe locked against ticks
//cells obtained inside fn must not be used after fn returns
func (d *Driver) View(fn func(u *universe.Universe)) {
	d.universe.Lock()
	defer d.universe.Unlock()
	fn(d.universe.Universe)
}

//Run starts the simulation, returns immediately
func (d *Driver) Run() {
	d.command(d.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (d *Driver) Stop() {
	d.command(d.stop)
}

//Step does one generation, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (d *Driver) Step() {
	d.command(d.step)
}

//Close stops the main loop and waits for it, the commands sent after Close are ignored
//Close can be called more than once
func (d *Driver) Close() {
	d.closeOnce.Do(func() {
		d.closeCh <- true
	})
	<-d.done
}

//command passes cmd to the main loop, cmd is dropped when the loop is closed
func (d *Driver) command(cmd func()) {
	select {
	case d.controlCh <- cmd:
	case <-d.done:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (d *Driver) mainLoop() {
	defer close(d.done)
	for {
		select {
		case cmd := <-d.controlCh:
			cmd()
		case <-d.closeCh:
			d.state.Lock()
			if d.state.RunningMode == RunningStateRun {
				d.state.RunningMode = RunningStateManual
			}
			d.state.Unlock()
			return
		}
	}
}

func (d *Driver) runningMode() RunningState {
	d.state.Lock()
	defer d.state.Unlock()
	return d.state.RunningMode
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (d *Driver) switchRunningState(to RunningState) {
	d.setRunningMode(to)
	d.notify()
}

func (d *Driver) setRunningMode(to RunningState) {
	d.state.Lock()
	d.state.RunningMode = to
	d.state.Unlock()
}

//notify writes the current status to the stateCh
func (d *Driver) notify() {
	if d.stateCh != nil {
		d.stateCh <- d.Status()
	}
}

//run starts the simulation loop
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (d *Driver) run() {
	mode := d.runningMode()
	if mode == RunningStateRun || mode == RunningStateFinished {
		return
	}
	d.switchRunningState(RunningStateRun)
	//the loop waits for every tick, so the ticks never overlap
	//a manual Step sent while running is serialized by the main loop between the ticks
	go func() {
		done := make(chan bool)
		for {
			mode := d.runningMode()
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			select {
			case d.controlCh <- func() {
				if d.runningMode() == RunningStateRun {
					d.step()
				}
				done <- true
			}:
				select {
				case <-done:
				case <-d.done:
					return
				}
			case <-d.done:
				return
			}
			if d.options.Interval > 0 {
				time.Sleep(d.options.Interval)
			}
		}
	}()
}

//stop stops the simulation running cycle
func (d *Driver) stop() {
	if d.runningMode() == RunningStateRun {
		d.switchRunningState(RunningStateManual)
	}
}

//step does one tick of the universe
//the simulation is finished when MaxSteps is reached, all cells died or nothing changed
func (d *Driver) step() {
	rm := d.runningMode()
	if rm == RunningStateFinished {
		return
	}
	finished := false
	//viewers are refreshed before the final status is written to the stateCh
	defer func() {
		if finished {
			d.setRunningMode(RunningStateFinished)
		} else {
			d.setRunningMode(rm)
		}
		d.refreshView()
		d.notify()
	}()

	maxIter := d.options.MaxSteps
	if maxIter != 0 && d.Status().Generation >= uint64(maxIter) {
		finished = true
		return
	}
	d.switchRunningState(RunningStateStep)

	d.universe.Lock()
	d.universe.Tick()
	st := d.universe.Stats()
	d.universe.Unlock()

	d.state.Lock()
	d.state.Generation = st.Generation
	d.state.LiveCells = st.LiveCells
	d.state.IterationTime = st.IterationTime
	d.state.Unlock()

	if st.LiveCells == 0 || !st.Changed || (maxIter != 0 && st.Generation >= uint64(maxIter)) {
		finished = true
	}
}

//refreshView calls Refresh event for all registered views
func (d *Driver) refreshView() {
	for _, v := range d.views {
		v.Refresh()
	}
}
