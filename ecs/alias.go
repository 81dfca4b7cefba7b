package ecs

import (
	"reflect"

	"github.com/15mga/sigecs/ds"
)

type (
	EntityId    int
	ComponentId uint8
	FnEntity    func(Entity)
	FnSystem    func(ISystem)
	FnFrame     func(*Frame)
)

// EntityBinding is a bound entity hook, see Registry.BindEntityAdded.
type EntityBinding = *ds.LinkElem[func(Entity)]

// MaxComponents bounds the distinct component types one ComponentTypes can hold.
const MaxComponents = 32

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
