package ecs

import (
	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
)

func poolOf[T any](r *Registry, id ComponentId) *Pool[T] {
	if int(id) >= len(r.pools) {
		pools := make([]IPool, int(id)+1)
		copy(pools, r.pools)
		r.pools = pools
	}
	p := r.pools[id]
	if p == nil {
		np := NewPool[T](r.option.poolCap)
		r.pools[id] = np
		return np
	}
	return p.(*Pool[T])
}

// PoolOf returns the pool of T, nil until a T was first added.
func PoolOf[T any](r *Registry) *Pool[T] {
	id, ok := LookupComponentId[T](r.option.types)
	if !ok || int(id) >= len(r.pools) || r.pools[id] == nil {
		return nil
	}
	return r.pools[id].(*Pool[T])
}

// AddComponent stores component for e, replacing any previous value, and
// sets its bit in the signature of e. Systems see the change on the next
// Update. Adding to a killed entity fails with EcEntityNotAlive.
func AddComponent[T any](r *Registry, e Entity, component T) *util.Err {
	r.checkUnlocked("add component")
	state := r.State(e)
	if state != EntityPending && state != EntityActive {
		return util.NewErr(util.EcEntityNotAlive, util.M{
			"registry":  r.option.name,
			"entity":    e.id,
			"state":     state.String(),
			"component": typeOf[T]().String(),
		})
	}
	id := ComponentIdOf[T](r.option.types)
	pool := poolOf[T](r, id)
	if int(e.id) >= pool.Len() {
		pool.Resize(r.numEntities)
	}
	pool.Set(e.id, component)
	sigecs.Debug("add component", util.M{
		"registry":  r.option.name,
		"entity":    e.id,
		"component": typeOf[T]().String(),
	})
	sig := &r.signatures[e.id]
	if sig.Test(id) {
		return nil
	}
	sig.Set(id)
	if state == EntityActive {
		r.changed.Add(e.id)
	}
	return nil
}

// RemoveComponent clears the bit of T for e. The stored value is left in
// place until e is killed.
func RemoveComponent[T any](r *Registry, e Entity) {
	r.checkUnlocked("remove component")
	state := r.State(e)
	if state != EntityPending && state != EntityActive {
		return
	}
	id, ok := LookupComponentId[T](r.option.types)
	if !ok {
		return
	}
	sig := &r.signatures[e.id]
	if !sig.Test(id) {
		return
	}
	sig.Unset(id)
	if state == EntityActive {
		r.changed.Add(e.id)
	}
}

func HasComponent[T any](r *Registry, e Entity) bool {
	if !r.owns(e) {
		return false
	}
	id, ok := LookupComponentId[T](r.option.types)
	if !ok {
		return false
	}
	return r.signatures[e.id].Test(id)
}

// GetComponent is unchecked, e must hold a T. The pointer stays valid
// until the pool of T grows.
func GetComponent[T any](r *Registry, e Entity) *T {
	id, _ := LookupComponentId[T](r.option.types)
	return r.pools[id].(*Pool[T]).Get(e.id)
}

func TryGetComponent[T any](r *Registry, e Entity) (*T, *util.Err) {
	if !HasComponent[T](r, e) {
		return nil, util.NewErr(util.EcComponentNotExist, util.M{
			"registry":  r.option.name,
			"entity":    e.id,
			"component": typeOf[T]().String(),
		})
	}
	return GetComponent[T](r, e), nil
}
