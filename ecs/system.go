package ecs

import (
	"reflect"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
	"github.com/15mga/sigecs/worker"
)

// System is the base every system embeds. It records the component types
// the system reads and writes and, once added to a registry, the entities
// whose signature matches.
type System struct {
	reads     []reflect.Type
	writes    []reflect.Type
	exclusive bool
	signature Signature
	writeSig  Signature
	registry  *Registry
	frame     *Frame
	entities  []Entity
	members   map[EntityId]struct{}
	removing  map[EntityId]struct{}
}

// Require adds T to the signature of s as a read only component.
// It has no effect once s is added to a registry.
func Require[T any](s ISystem) {
	b := s.Base()
	if b.registry != nil {
		sigecs.Warn2(util.EcIllegalOp, util.M{
			"system":    reflect.TypeOf(s).String(),
			"component": typeOf[T]().String(),
		})
		return
	}
	b.reads = append(b.reads, typeOf[T]())
}

// Write is Require plus a write mark, two systems writing or reading what
// the other writes never share a parallel stage.
func Write[T any](s ISystem) {
	b := s.Base()
	if b.registry != nil {
		sigecs.Warn2(util.EcIllegalOp, util.M{
			"system":    reflect.TypeOf(s).String(),
			"component": typeOf[T]().String(),
		})
		return
	}
	b.writes = append(b.writes, typeOf[T]())
}

func (s *System) Base() *System {
	return s
}

func (s *System) OnStart(frame *Frame) {
}

func (s *System) OnUpdate(frame *Frame) {
}

func (s *System) OnStop() {
}

// SetExclusive keeps s out of every parallel stage shared with other systems.
func (s *System) SetExclusive(exclusive bool) {
	s.exclusive = exclusive
}

func (s *System) IsExclusive() bool {
	return s.exclusive
}

func (s *System) Signature() Signature {
	return s.signature
}

func (s *System) WriteSignature() Signature {
	return s.writeSig
}

func (s *System) Registry() *Registry {
	return s.registry
}

// Frame is set before OnStart.
func (s *System) Frame() *Frame {
	return s.frame
}

// Entities returns a copy in the order entities entered the system.
func (s *System) Entities() []Entity {
	entities := make([]Entity, len(s.entities))
	copy(entities, s.entities)
	return entities
}

func (s *System) EntityCount() int {
	return len(s.entities)
}

func (s *System) HasEntity(e Entity) bool {
	if e.registry != s.registry {
		return false
	}
	_, ok := s.members[e.id]
	return ok
}

// Iter walks the entity list without copying it, fn must not change
// registry structure.
func (s *System) Iter(fn FnEntity) {
	for _, e := range s.entities {
		fn(e)
	}
}

// PEach runs fn over the entities of s on the worker pool, min entities
// per task at least.
func PEach(s ISystem, min int, fn FnEntity) {
	worker.P(min, s.Base().entities, fn)
}

func (s *System) resolve(r *Registry) {
	var sig, wsig Signature
	for _, t := range s.reads {
		sig.Set(r.componentId(t))
	}
	for _, t := range s.writes {
		id := r.componentId(t)
		sig.Set(id)
		wsig.Set(id)
	}
	s.signature = sig
	s.writeSig = wsig
	s.registry = r
	s.entities = s.entities[:0]
	s.members = make(map[EntityId]struct{}, r.option.poolCap)
	s.removing = make(map[EntityId]struct{})
}

func (s *System) detach() {
	s.registry = nil
	s.frame = nil
	s.entities = nil
	s.members = nil
	s.removing = nil
}

func (s *System) addEntity(e Entity) {
	if _, ok := s.members[e.id]; ok {
		return
	}
	s.members[e.id] = struct{}{}
	s.entities = append(s.entities, e)
}

// removeEntity takes e out of the membership set at once, the list is
// compacted by flush.
func (s *System) removeEntity(e Entity) {
	if _, ok := s.members[e.id]; !ok {
		return
	}
	delete(s.members, e.id)
	s.removing[e.id] = struct{}{}
}

func (s *System) flush() {
	if len(s.removing) == 0 {
		return
	}
	i := 0
	for _, e := range s.entities {
		if _, ok := s.removing[e.id]; ok {
			continue
		}
		s.entities[i] = e
		i++
	}
	for j := i; j < len(s.entities); j++ {
		s.entities[j] = Entity{}
	}
	s.entities = s.entities[:i]
	for id := range s.removing {
		delete(s.removing, id)
	}
}

// conflicts reports whether a and b must not run concurrently.
func conflicts(a, b *System) bool {
	if a.exclusive || b.exclusive {
		return true
	}
	return a.writeSig.Intersects(b.signature) || b.writeSig.Intersects(a.signature)
}

// BuildStages groups systems into stages whose members may run
// concurrently. A system lands in the first stage after the last one
// holding a system it conflicts with, so conflicting systems keep their
// registration order.
func BuildStages(systems []ISystem) [][]ISystem {
	stages := make([][]ISystem, 0, len(systems))
	for _, system := range systems {
		b := system.Base()
		last := -1
		for i := len(stages) - 1; i >= 0 && last < 0; i-- {
			for _, o := range stages[i] {
				if conflicts(b, o.Base()) {
					last = i
					break
				}
			}
		}
		if last+1 < len(stages) {
			stages[last+1] = append(stages[last+1], system)
		} else {
			stages = append(stages, []ISystem{system})
		}
	}
	return stages
}
