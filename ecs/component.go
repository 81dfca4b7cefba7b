package ecs

import (
	"hash/fnv"
	"reflect"
	"sync"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

func typeShard(t reflect.Type) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(util.StrToBytes(t.String()))
	return h.Sum32()
}

// ComponentTypes hands out dense component ids, first come first served.
// An id never changes once assigned. Lookups are lock free, allocation of a
// new id is serialized.
type ComponentTypes struct {
	mtx      sync.Mutex
	typeToId cmap.ConcurrentMap[reflect.Type, ComponentId]
	types    []reflect.Type
}

func NewComponentTypes() *ComponentTypes {
	return &ComponentTypes{
		typeToId: cmap.NewWithCustomShardingFunction[reflect.Type, ComponentId](typeShard),
		types:    make([]reflect.Type, 0, MaxComponents),
	}
}

// Id returns the id of t, assigning the next free one on first use.
func (c *ComponentTypes) Id(t reflect.Type) (ComponentId, *util.Err) {
	if id, ok := c.typeToId.Get(t); ok {
		return id, nil
	}
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if id, ok := c.typeToId.Get(t); ok {
		return id, nil
	}
	n := len(c.types)
	if n >= MaxComponents {
		return 0, util.NewErr(util.EcTooManyComponents, util.M{
			"component": t.String(),
			"max":       MaxComponents,
		})
	}
	id := ComponentId(n)
	c.types = append(c.types, t)
	c.typeToId.Set(t, id)
	sigecs.Debug("component type", util.M{
		"component": t.String(),
		"id":        id,
	})
	return id, nil
}

// Lookup never assigns.
func (c *ComponentTypes) Lookup(t reflect.Type) (ComponentId, bool) {
	return c.typeToId.Get(t)
}

func (c *ComponentTypes) Type(id ComponentId) (reflect.Type, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if int(id) >= len(c.types) {
		return nil, false
	}
	return c.types[id], true
}

func (c *ComponentTypes) Name(id ComponentId) string {
	t, ok := c.Type(id)
	if !ok {
		return ""
	}
	return t.String()
}

func (c *ComponentTypes) Count() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.types)
}

// Names lists every registered type, indexed by id.
func (c *ComponentTypes) Names() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	names := make([]string, len(c.types))
	for i, t := range c.types {
		names[i] = t.String()
	}
	return names
}

// ComponentIdOf returns the id of T in c. Running out of ids is a
// programming error, it is logged and panics with EcTooManyComponents.
func ComponentIdOf[T any](c *ComponentTypes) ComponentId {
	id, err := c.Id(typeOf[T]())
	if err != nil {
		sigecs.Error(err)
		panic(err)
	}
	return id
}

// LookupComponentId is ComponentIdOf without assignment.
func LookupComponentId[T any](c *ComponentTypes) (ComponentId, bool) {
	return c.Lookup(typeOf[T]())
}
