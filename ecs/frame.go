package ecs

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/ds"
	"github.com/15mga/sigecs/sid"
	"github.com/15mga/sigecs/util"
	"github.com/15mga/sigecs/worker"
)

type (
	frameOption struct {
		maxFrame      int64
		tickDur       time.Duration
		parallel      bool
		profileDur    time.Duration
		beforeDispose FnFrame
	}
	FrameOption func(o *frameOption)
)

// FrameMax stops the frame loop after frames ticks, 0 runs until Stop.
func FrameMax(frames int64) FrameOption {
	return func(o *frameOption) {
		o.maxFrame = frames
	}
}

func FrameTickDur(dur time.Duration) FrameOption {
	return func(o *frameOption) {
		o.tickDur = dur
	}
}

// FrameParallel runs conflict free systems concurrently, see BuildStages.
func FrameParallel(parallel bool) FrameOption {
	return func(o *frameOption) {
		o.parallel = parallel
	}
}

// FrameProfile logs process cpu and memory usage every dur while the loop runs.
func FrameProfile(dur time.Duration) FrameOption {
	return func(o *frameOption) {
		o.profileDur = dur
	}
}

func FrameBeforeDispose(fn FnFrame) FrameOption {
	return func(o *frameOption) {
		o.beforeDispose = fn
	}
}

func NewFrame(registry *Registry, opts ...FrameOption) *Frame {
	o := &frameOption{
		tickDur: time.Millisecond * 16,
	}
	for _, opt := range opts {
		opt(o)
	}
	ctx, ccl := context.WithCancel(util.Ctx())
	c := 64
	f := &Frame{
		id:        sid.GetId(),
		option:    o,
		registry:  registry,
		startTime: time.Now(),
		started:   make(map[ISystem]struct{}),
		stagesVer: -1,
		ctx:       ctx,
		ccl:       ccl,
		sign:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		buffer:    make([]util.Fn, 0, c),
		swap:      make([]util.Fn, 0, c),
		before:    ds.NewFnLink(),
		after:     ds.NewFnLink(),
		deferred:  ds.NewFnLink(),
	}
	registry.BindSystemRemoved(f.onSystemRemoved)
	return f
}

// Frame drives a registry: pushed jobs, Update, then every system, once
// per tick. All of it happens on one goroutine, the loop goroutine after
// Start or the caller's when ticking by hand.
type Frame struct {
	id         int64
	option     *frameOption
	registry   *Registry
	currFrame  atomic.Int64
	totalDur   time.Duration
	maxDur     time.Duration
	delta      time.Duration
	startTime  time.Time
	lastTick   time.Time
	started    map[ISystem]struct{}
	stages     [][]ISystem
	stagesVer  int64
	systems    []ISystem
	before     *ds.FnLink
	after      *ds.FnLink
	deferred   *ds.FnLink
	deferMtx   sync.Mutex
	ctx        context.Context
	ccl        context.CancelFunc
	buffer     []util.Fn
	swap       []util.Fn
	mtx        sync.Mutex
	sign       chan struct{}
	running    atomic.Bool
	done       chan struct{}
	disposeOne sync.Once
}

func (f *Frame) Id() int64 {
	return f.id
}

func (f *Frame) Registry() *Registry {
	return f.registry
}

// Num is the number of ticks so far, safe from any goroutine.
func (f *Frame) Num() int64 {
	return f.currFrame.Load()
}

// Delta is the time since the previous tick, 0 on the first.
func (f *Frame) Delta() time.Duration {
	return f.delta
}

func (f *Frame) StartTime() time.Time {
	return f.startTime
}

// Before runs at the start of the next tick, then is cleared.
func (f *Frame) Before() *ds.FnLink {
	return f.before
}

// After runs at the end of the next tick, then is cleared.
func (f *Frame) After() *ds.FnLink {
	return f.after
}

// Defer queues fn to run once every system of this tick returned. Systems
// running in parallel use it for structural changes. Goroutine safe.
func (f *Frame) Defer(fn util.Fn) {
	f.deferMtx.Lock()
	f.deferred.Push(fn)
	f.deferMtx.Unlock()
}

// Push queues fn for the frame goroutine. Goroutine safe.
func (f *Frame) Push(fn util.Fn) {
	f.mtx.Lock()
	f.buffer = append(f.buffer, fn)
	f.mtx.Unlock()

	select {
	case f.sign <- struct{}{}:
	default:
	}
}

func (f *Frame) doJobs() {
	for {
		f.mtx.Lock()
		if len(f.buffer) == 0 {
			f.mtx.Unlock()
			return
		}
		f.swap, f.buffer = f.buffer, f.swap[:0]
		f.mtx.Unlock()

		for i, fn := range f.swap {
			fn()
			f.swap[i] = nil
		}
	}
}

// Tick runs one frame. Structural changes made by before links and
// pushed jobs are visible to systems in this tick, those made by systems
// in the next.
func (f *Frame) Tick() {
	now := time.Now()
	if f.currFrame.Load() > 0 {
		f.delta = now.Sub(f.lastTick)
	}
	f.lastTick = now
	f.currFrame.Add(1)

	f.before.InvokeAndReset()
	f.doJobs()
	f.registry.Update()
	f.startSystems()
	if f.option.parallel {
		f.runStages()
	} else {
		for _, system := range f.snapshot() {
			if !f.registry.isRegistered(system) {
				continue
			}
			system.OnUpdate(f)
		}
	}
	f.runDeferred()
	f.after.InvokeAndReset()

	dur := time.Since(now)
	f.totalDur += dur
	if dur > f.maxDur {
		f.maxDur = dur
	}
}

func (f *Frame) runDeferred() {
	f.deferMtx.Lock()
	if f.deferred.Count() == 0 {
		f.deferMtx.Unlock()
		return
	}
	link := f.deferred
	f.deferred = ds.NewFnLink()
	f.deferMtx.Unlock()
	link.Invoke()
}

// snapshot copies the registered systems into a frame owned buffer,
// systems may be removed while it is iterated.
func (f *Frame) snapshot() []ISystem {
	f.systems = append(f.systems[:0], f.registry.systems...)
	return f.systems
}

func (f *Frame) startSystems() {
	for _, system := range f.snapshot() {
		if _, ok := f.started[system]; ok {
			continue
		}
		if !f.registry.isRegistered(system) {
			continue
		}
		f.started[system] = struct{}{}
		system.Base().frame = f
		system.OnStart(f)
		sigecs.Info("start system", util.M{
			"system": reflect.TypeOf(system).String(),
		})
	}
}

func (f *Frame) onSystemRemoved(system ISystem) {
	if _, ok := f.started[system]; !ok {
		return
	}
	delete(f.started, system)
	system.OnStop()
	sigecs.Info("stop system", util.M{
		"system": reflect.TypeOf(system).String(),
	})
}

// Stages returns the parallel stages of the current systems.
func (f *Frame) Stages() [][]ISystem {
	if f.stagesVer != f.registry.systemsVer {
		f.stages = BuildStages(f.registry.systems)
		f.stagesVer = f.registry.systemsVer
	}
	return f.stages
}

func (f *Frame) runStages() {
	stages := f.Stages()
	f.registry.lock()
	defer f.registry.unlock()
	fns := make([]util.Fn, 0, 8)
	for _, stage := range stages {
		if len(stage) == 1 {
			stage[0].OnUpdate(f)
			continue
		}
		fns = fns[:0]
		for _, system := range stage {
			s := system
			fns = append(fns, func() {
				s.OnUpdate(f)
			})
		}
		worker.PEach(fns)
	}
}

// Start runs Tick every tick duration on a new goroutine until Stop, the
// max frame count or process exit.
func (f *Frame) Start() {
	if !f.running.CompareAndSwap(false, true) {
		return
	}
	completeCh := sigecs.BeforeExitCh("stop frame")
	if f.option.profileDur > 0 {
		util.StartProfile(f.ctx, f.option.profileDur, func(m util.M) {
			m["frame"] = f.Num()
			m["registry"] = f.registry.option.name
			sigecs.Info("profile", m)
		})
	}
	go func() {
		defer func() {
			f.Dispose()
			close(completeCh)
			close(f.done)
		}()

		ticker := time.NewTicker(f.option.tickDur)
		defer ticker.Stop()
		for {
			select {
			case <-f.ctx.Done():
				sigecs.Debug("ctx done", nil)
				return
			case <-ticker.C:
				f.Tick()
				if f.option.maxFrame > 0 && f.Num() >= f.option.maxFrame {
					return
				}
			case <-f.sign:
				f.doJobs()
			}
		}
	}()
}

func (f *Frame) Stop() {
	f.ccl()
}

// Done is closed once the loop started by Start has exited and disposed.
func (f *Frame) Done() <-chan struct{} {
	return f.done
}

// Dispose stops every started system and logs frame stats. The loop
// calls it on exit, callers ticking by hand call it themselves.
func (f *Frame) Dispose() {
	f.disposeOne.Do(func() {
		f.ccl()
		if f.option.beforeDispose != nil {
			f.option.beforeDispose(f)
		}
		for _, system := range f.registry.systems {
			if _, ok := f.started[system]; !ok {
				continue
			}
			delete(f.started, system)
			system.OnStop()
			sigecs.Info("stop system", util.M{
				"system": reflect.TypeOf(system).String(),
			})
		}
		if n := f.Num(); n > 0 {
			sigecs.Info("frames", util.M{
				"id":       f.id,
				"registry": f.registry.option.name,
				"total":    f.totalDur.String(),
				"average":  (f.totalDur / time.Duration(n)).String(),
				"max":      f.maxDur.String(),
				"frames":   n,
			})
		}
	})
}
