package ecs

import (
	"reflect"

	"github.com/15mga/sigecs/util"
)

const _PoolSlowGrow = 4096

// IPool is the type erased view the registry keeps of every Pool.
type IPool interface {
	Type() reflect.Type
	Len() int
	IsEmpty() bool
	Resize(n int)
	Reset(id EntityId)
	Clear()
}

// Pool stores one component value per entity id. Slots of entities that
// never got the component hold the zero value.
type Pool[T any] struct {
	data []T
}

func NewPool[T any](size int) *Pool[T] {
	p := &Pool[T]{}
	p.Resize(size)
	return p
}

func (p *Pool[T]) Type() reflect.Type {
	return typeOf[T]()
}

func (p *Pool[T]) Len() int {
	return len(p.data)
}

func (p *Pool[T]) IsEmpty() bool {
	return len(p.data) == 0
}

// Resize only grows, existing values are kept.
func (p *Pool[T]) Resize(n int) {
	if n <= len(p.data) {
		return
	}
	if n <= cap(p.data) {
		p.data = p.data[:n]
		return
	}
	c, _ := util.NextCap(n, cap(p.data), _PoolSlowGrow)
	data := make([]T, n, c)
	copy(data, p.data)
	p.data = data
}

// Set requires id < Len.
func (p *Pool[T]) Set(id EntityId, v T) {
	p.data[id] = v
}

// Get requires id < Len. The pointer stays valid until the pool grows.
func (p *Pool[T]) Get(id EntityId) *T {
	return &p.data[id]
}

func (p *Pool[T]) Reset(id EntityId) {
	if int(id) >= len(p.data) {
		return
	}
	var zero T
	p.data[id] = zero
}

func (p *Pool[T]) Clear() {
	p.data = nil
}
