package ecs

import (
	"strconv"

	"github.com/15mga/sigecs/util"
)

type EntityState uint8

const (
	EntityInvalid EntityState = iota
	// EntityPending was created since the last Update, systems do not see it yet.
	EntityPending
	EntityActive
	// EntityKilling was killed since the last Update.
	EntityKilling
	EntityRemoved
)

func (s EntityState) String() string {
	switch s {
	case EntityPending:
		return "pending"
	case EntityActive:
		return "active"
	case EntityKilling:
		return "killing"
	case EntityRemoved:
		return "removed"
	default:
		return "invalid"
	}
}

// Entity is a handle, an id plus the registry that issued it. It is
// comparable and cheap to copy. The zero Entity belongs to no registry.
type Entity struct {
	id       EntityId
	registry *Registry
}

func (e Entity) Id() EntityId {
	return e.id
}

func (e Entity) Registry() *Registry {
	return e.registry
}

func (e Entity) IsValid() bool {
	return e.registry != nil
}

func (e Entity) Alive() bool {
	return e.registry != nil && e.registry.IsAlive(e)
}

func (e Entity) State() EntityState {
	if e.registry == nil {
		return EntityInvalid
	}
	return e.registry.State(e)
}

func (e Entity) Kill() {
	e.registry.KillEntity(e)
}

func (e Entity) String() string {
	return "entity(" + strconv.Itoa(int(e.id)) + ")"
}

func Add[T any](e Entity, component T) *util.Err {
	return AddComponent(e.registry, e, component)
}

func Remove[T any](e Entity) {
	RemoveComponent[T](e.registry, e)
}

func Has[T any](e Entity) bool {
	return HasComponent[T](e.registry, e)
}

// Get is unchecked, see GetComponent.
func Get[T any](e Entity) *T {
	return GetComponent[T](e.registry, e)
}

func TryGet[T any](e Entity) (*T, *util.Err) {
	return TryGetComponent[T](e.registry, e)
}
