package ecs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockWatchSystem struct {
	System
	locked atomic.Bool
}

func (s *lockWatchSystem) OnUpdate(frame *Frame) {
	s.locked.Store(frame.Registry().IsLocked())
}

type spawnSystem struct {
	System
}

func newSpawnSystem() *spawnSystem {
	s := &spawnSystem{}
	Require[health](s)
	s.SetExclusive(true)
	return s
}

func (s *spawnSystem) OnUpdate(frame *Frame) {
	r := frame.Registry()
	frame.Defer(func() {
		e := r.CreateEntity()
		_ = Add(e, position{})
	})
}

type hookSystem struct {
	System
	fn func(frame *Frame)
}

func (s *hookSystem) OnUpdate(frame *Frame) {
	s.fn(frame)
}

type (
	firstSystem  struct{ hookSystem }
	secondSystem struct{ hookSystem }
	thirdSystem  struct{ hookSystem }
)

func TestFrameTick(t *testing.T) {
	r := newRegistry()
	move := AddSystem(r, newMoveSystem())
	f := NewFrame(r)
	e := r.CreateEntity()
	_ = Add(e, position{})
	_ = Add(e, velocity{X: 1, Y: 1})

	f.Tick()
	assert.Equal(t, int64(1), f.Num())
	assert.Equal(t, time.Duration(0), f.Delta())
	assert.Equal(t, 1, move.starts)
	assert.Same(t, f, move.Frame())
	assert.Equal(t, position{X: 1, Y: 1}, *Get[position](e))

	f.Tick()
	assert.Equal(t, 1, move.starts)
	assert.Equal(t, 2, move.updates)
	assert.Equal(t, position{X: 2, Y: 2}, *Get[position](e))

	RemoveSystem[*moveSystem](r)
	assert.Equal(t, 1, move.stops)
	f.Tick()
	assert.Equal(t, 2, move.updates)
	f.Dispose()
	assert.Equal(t, 1, move.stops)
}

func TestFrameDispose(t *testing.T) {
	r := newRegistry()
	move := AddSystem(r, newMoveSystem())
	disposed := false
	f := NewFrame(r, FrameBeforeDispose(func(frame *Frame) {
		disposed = true
	}))
	f.Tick()
	f.Dispose()
	f.Dispose()
	assert.True(t, disposed)
	assert.Equal(t, 1, move.stops)
}

func TestFrameOrder(t *testing.T) {
	r := newRegistry()
	AddSystem(r, newPosSystem())
	f := NewFrame(r)
	var order []string
	f.Before().Push(func() {
		order = append(order, "before")
	})
	f.Push(func() {
		order = append(order, "job")
	})
	f.After().Push(func() {
		order = append(order, "after")
	})
	f.Defer(func() {
		order = append(order, "defer")
	})
	f.Tick()
	assert.Equal(t, []string{"before", "job", "defer", "after"}, order)

	order = order[:0]
	f.Tick()
	assert.Empty(t, order)
}

func TestFrameRemoveSystemDuringTick(t *testing.T) {
	r := newRegistry()
	f := NewFrame(r)
	var calls []string
	AddSystem(r, &firstSystem{hookSystem{fn: func(frame *Frame) {
		calls = append(calls, "first")
		RemoveSystem[*firstSystem](frame.Registry())
		RemoveSystem[*thirdSystem](frame.Registry())
	}}})
	AddSystem(r, &secondSystem{hookSystem{fn: func(frame *Frame) {
		calls = append(calls, "second")
	}}})
	AddSystem(r, &thirdSystem{hookSystem{fn: func(frame *Frame) {
		calls = append(calls, "third")
	}}})

	f.Tick()
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.False(t, HasSystem[*firstSystem](r))
	assert.False(t, HasSystem[*thirdSystem](r))
	assert.Equal(t, 1, r.SystemCount())

	calls = calls[:0]
	f.Tick()
	assert.Equal(t, []string{"second"}, calls)
}

func TestFrameJobVisibleSameTick(t *testing.T) {
	r := newRegistry()
	s := AddSystem(r, newPosSystem())
	f := NewFrame(r)
	done := make(chan struct{})
	go func() {
		f.Push(func() {
			e := r.CreateEntity()
			_ = Add(e, position{})
		})
		close(done)
	}()
	<-done
	f.Tick()
	assert.Equal(t, 1, s.EntityCount())
}

func TestFrameDeferVisibleNextTick(t *testing.T) {
	r := newRegistry()
	pos := AddSystem(r, newPosSystem())
	AddSystem(r, newSpawnSystem())
	f := NewFrame(r, FrameParallel(true))
	e := r.CreateEntity()
	_ = Add(e, health{})

	f.Tick()
	assert.Equal(t, 0, pos.EntityCount())
	f.Tick()
	assert.Equal(t, 1, pos.EntityCount())
	assert.Equal(t, 3, r.EntityCount())
}

func TestFrameParallelLocksRegistry(t *testing.T) {
	r := newRegistry()
	watch := AddSystem(r, &lockWatchSystem{})
	AddSystem(r, newPosSystem())
	f := NewFrame(r, FrameParallel(true))
	f.Tick()
	assert.True(t, watch.locked.Load())
	assert.False(t, r.IsLocked())

	seq := newRegistry()
	watch = AddSystem(seq, &lockWatchSystem{})
	NewFrame(seq).Tick()
	assert.False(t, watch.locked.Load())
}

func TestBuildStages(t *testing.T) {
	r := newRegistry()
	move := AddSystem(r, newMoveSystem())
	hp := AddSystem(r, newHealthSystem())
	pos := AddSystem(r, newPosSystem())
	spawn := AddSystem(r, newSpawnSystem())

	stages := BuildStages(r.Systems())
	require.Len(t, stages, 3)
	assert.Equal(t, []ISystem{move, hp}, stages[0])
	assert.Equal(t, []ISystem{pos}, stages[1])
	assert.Equal(t, []ISystem{spawn}, stages[2])

	f := NewFrame(r, FrameParallel(true))
	assert.Len(t, f.Stages(), 3)
	RemoveSystem[*spawnSystem](r)
	assert.Len(t, f.Stages(), 2)
}

func TestFrameStartStop(t *testing.T) {
	r := newRegistry()
	move := AddSystem(r, newMoveSystem())
	f := NewFrame(r, FrameTickDur(time.Millisecond), FrameMax(5))
	f.Start()
	f.Start()
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("frame did not finish")
	}
	assert.Equal(t, int64(5), f.Num())
	assert.Equal(t, 5, move.updates)
	assert.Equal(t, 1, move.stops)

	f = NewFrame(newRegistry(), FrameTickDur(time.Millisecond))
	f.Start()
	var ran atomic.Bool
	f.Push(func() {
		ran.Store(true)
	})
	time.Sleep(10 * time.Millisecond)
	f.Stop()
	<-f.Done()
	assert.True(t, ran.Load())
	assert.Greater(t, f.Num(), int64(0))
}

func TestPEach(t *testing.T) {
	r := newRegistry()
	move := AddSystem(r, newMoveSystem())
	for i := 0; i < 1000; i++ {
		e := r.CreateEntity()
		_ = Add(e, position{})
		_ = Add(e, velocity{X: 1})
	}
	r.Update()
	var count atomic.Int64
	PEach(move, 64, func(e Entity) {
		Get[position](e).X += Get[velocity](e).X
		count.Add(1)
	})
	assert.Equal(t, int64(1000), count.Load())
	move.Iter(func(e Entity) {
		assert.Equal(t, float32(1), Get[position](e).X)
	})
}
