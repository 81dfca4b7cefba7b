package main

import (
	"fmt"
	"io"

	"github.com/15mga/sigecs/ecs"
	"github.com/15mga/sigecs/util"
)

type MovementSystem struct {
	ecs.System
	bounds util.Vec2
	min    int
}

// NewMovementSystem moves every body by its velocity. Entities leaving
// [0, bounds] are killed once the frame's systems are done.
func NewMovementSystem(bounds util.Vec2, parallelMin int) *MovementSystem {
	s := &MovementSystem{
		bounds: bounds,
		min:    parallelMin,
	}
	ecs.Write[Transform](s)
	ecs.Require[RigidBody](s)
	return s
}

func (s *MovementSystem) OnUpdate(frame *ecs.Frame) {
	dt := float32(frame.Delta().Seconds())
	if dt == 0 {
		return
	}
	ecs.PEach(s, s.min, func(e ecs.Entity) {
		t := ecs.Get[Transform](e)
		rb := ecs.Get[RigidBody](e)
		t.Position = util.Vec2Add(t.Position, util.Vec2Mul(rb.Velocity, dt))
		if s.outside(t.Position) {
			frame.Defer(e.Kill)
		}
	})
}

func (s *MovementSystem) outside(p util.Vec2) bool {
	return p.X < 0 || p.Y < 0 || p.X > s.bounds.X || p.Y > s.bounds.Y
}

// RenderSystem prints the sprites every n frames.
type RenderSystem struct {
	ecs.System
	writer io.Writer
	every  int64
	limit  int
}

func NewRenderSystem(writer io.Writer, every int64, limit int) *RenderSystem {
	s := &RenderSystem{
		writer: writer,
		every:  every,
		limit:  limit,
	}
	ecs.Require[Transform](s)
	ecs.Require[Sprite](s)
	return s
}

func (s *RenderSystem) OnUpdate(frame *ecs.Frame) {
	if s.every <= 0 || frame.Num()%s.every != 0 {
		return
	}
	_, _ = fmt.Fprintf(s.writer, "frame %d: %d sprites\n", frame.Num(), s.EntityCount())
	n := 0
	s.Iter(func(e ecs.Entity) {
		if n >= s.limit {
			return
		}
		n++
		t := ecs.Get[Transform](e)
		sp := ecs.Get[Sprite](e)
		_, _ = fmt.Fprintf(s.writer, "  %s %s %dx%d at (%.1f, %.1f)\n",
			e, sp.AssetId, sp.Width, sp.Height, t.Position.X, t.Position.Y)
	})
}
