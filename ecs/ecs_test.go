package ecs

type (
	position struct {
		X, Y float32
	}
	velocity struct {
		X, Y float32
	}
	health struct {
		Hp int
	}
	frozen struct{}
)

type moveSystem struct {
	System
	starts  int
	stops   int
	updates int
}

func newMoveSystem() *moveSystem {
	s := &moveSystem{}
	Write[position](s)
	Require[velocity](s)
	return s
}

func (s *moveSystem) OnStart(frame *Frame) {
	s.starts++
}

func (s *moveSystem) OnStop() {
	s.stops++
}

func (s *moveSystem) OnUpdate(frame *Frame) {
	s.updates++
	s.Iter(func(e Entity) {
		p := Get[position](e)
		v := Get[velocity](e)
		p.X += v.X
		p.Y += v.Y
	})
}

type posSystem struct {
	System
}

func newPosSystem() *posSystem {
	s := &posSystem{}
	Require[position](s)
	return s
}

type healthSystem struct {
	System
}

func newHealthSystem() *healthSystem {
	s := &healthSystem{}
	Write[health](s)
	return s
}

type allSystem struct {
	System
}

func newRegistry() *Registry {
	return NewRegistry(RegistryPoolCap(4))
}

func ids(entities []Entity) []EntityId {
	slc := make([]EntityId, len(entities))
	for i, e := range entities {
		slc[i] = e.Id()
	}
	return slc
}
