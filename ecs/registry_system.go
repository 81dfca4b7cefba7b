package ecs

import (
	"reflect"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
)

// AddSystem registers s, keyed by its dynamic type, and resolves its
// signature against the component types of r. A system of the same type
// is replaced in place. The entity list of s is filled on the next Update.
func AddSystem[S ISystem](r *Registry, s S) S {
	r.checkUnlocked("add system")
	t := reflect.TypeOf(s)
	b := s.Base()
	b.resolve(r)
	if idx, ok := r.typeToSystem[t]; ok {
		old := r.systems[idx]
		r.systems[idx] = s
		if old != ISystem(s) {
			old.Base().detach()
			r.onSystemRemoved.Invoke(old)
		}
		sigecs.Info("replace system", util.M{
			"registry":  r.option.name,
			"system":    t.String(),
			"signature": b.signature.String(),
		})
	} else {
		r.typeToSystem[t] = len(r.systems)
		r.systems = append(r.systems, s)
		sigecs.Info("add system", util.M{
			"registry":  r.option.name,
			"system":    t.String(),
			"signature": b.signature.String(),
		})
	}
	r.systemsVer++
	r.rescan = append(r.rescan, s)
	r.onSystemAdded.Invoke(s)
	return s
}

// RemoveSystem reports whether a system of type S was registered.
func RemoveSystem[S ISystem](r *Registry) bool {
	r.checkUnlocked("remove system")
	t := typeOf[S]()
	idx, ok := r.typeToSystem[t]
	if !ok {
		return false
	}
	s := r.systems[idx]
	r.systems = append(r.systems[:idx], r.systems[idx+1:]...)
	delete(r.typeToSystem, t)
	for i := idx; i < len(r.systems); i++ {
		r.typeToSystem[reflect.TypeOf(r.systems[i])] = i
	}
	r.systemsVer++
	s.Base().detach()
	r.onSystemRemoved.Invoke(s)
	sigecs.Info("remove system", util.M{
		"registry": r.option.name,
		"system":   t.String(),
	})
	return true
}

func HasSystem[S ISystem](r *Registry) bool {
	_, ok := r.typeToSystem[typeOf[S]()]
	return ok
}

func GetSystem[S ISystem](r *Registry) (S, *util.Err) {
	t := typeOf[S]()
	idx, ok := r.typeToSystem[t]
	if !ok {
		return util.Default[S](), util.NewErr(util.EcSystemNotExist, util.M{
			"registry": r.option.name,
			"system":   t.String(),
		})
	}
	return r.systems[idx].(S), nil
}

// MustGetSystem panics with EcSystemNotExist.
func MustGetSystem[S ISystem](r *Registry) S {
	s, err := GetSystem[S](r)
	if err != nil {
		panic(err)
	}
	return s
}

// Systems returns the systems in registration order.
func (r *Registry) Systems() []ISystem {
	systems := make([]ISystem, len(r.systems))
	copy(systems, r.systems)
	return systems
}

func (r *Registry) SystemCount() int {
	return len(r.systems)
}

func (r *Registry) isRegistered(s ISystem) bool {
	idx, ok := r.typeToSystem[reflect.TypeOf(s)]
	return ok && r.systems[idx] == s
}
