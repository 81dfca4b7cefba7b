// Package prefab spawns entities from named blueprints, component name to
// field values, typically read from yaml.
package prefab

import (
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/ecs"
	"github.com/15mga/sigecs/loader"
	"github.com/15mga/sigecs/util"
)

// Blueprint maps component names to their fields.
type Blueprint map[string]util.M

type binder func(e ecs.Entity, fields util.M) *util.Err

func NewCatalog() *Catalog {
	return &Catalog{
		nameToBinder: make(map[string]binder),
	}
}

// Catalog knows how to build each named component type.
type Catalog struct {
	nameToBinder map[string]binder
}

func defName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return util.ToUnderline(t.Name())
}

// Bind registers T under name, the snake case type name when empty.
func Bind[T any](c *Catalog, name string) {
	BindDefault[T](c, name, nil)
}

// BindDefault is Bind with fields not set by the blueprint taken from def.
func BindDefault[T any](c *Catalog, name string, def func() T) {
	if name == "" {
		name = defName[T]()
	}
	name = strings.ToLower(name)
	if _, ok := c.nameToBinder[name]; ok {
		sigecs.Warn2(util.EcExist, util.M{
			"component": name,
		})
	}
	c.nameToBinder[name] = func(e ecs.Entity, fields util.M) *util.Err {
		var v T
		if def != nil {
			v = def()
		}
		if len(fields) > 0 {
			err := decode(fields, &v)
			if err != nil {
				err.AddParam("component", name)
				return err
			}
		}
		return ecs.Add(e, v)
	}
}

func decode(input util.M, output any) *util.Err {
	decoder, e := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if e != nil {
		return util.WrapErr(util.EcParamsErr, e)
	}
	e = decoder.Decode(map[string]any(input))
	if e != nil {
		return util.WrapErr(util.EcUnmarshallErr, e)
	}
	return nil
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.nameToBinder[strings.ToLower(name)]
	return ok
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.nameToBinder))
	for name := range c.nameToBinder {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply adds every component of bp to e, in name order. It stops at the
// first failure, components already added stay.
func (c *Catalog) Apply(e ecs.Entity, bp Blueprint) *util.Err {
	names := make([]string, 0, len(bp))
	for name := range bp {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b, ok := c.nameToBinder[strings.ToLower(name)]
		if !ok {
			return util.NewErr(util.EcComponentNotExist, util.M{
				"component": name,
			})
		}
		err := b(e, bp[name])
		if err != nil {
			return err
		}
	}
	return nil
}

// Spawn creates an entity built from bp. On failure the entity is killed.
func (c *Catalog) Spawn(r *ecs.Registry, bp Blueprint) (ecs.Entity, *util.Err) {
	e := r.CreateEntity()
	err := c.Apply(e, bp)
	if err != nil {
		r.KillEntity(e)
		return ecs.Entity{}, err
	}
	return e, nil
}

// LoadBlueprints reads blueprints from conf files, see loader.LoadViper.
// Each top level key names a blueprint.
func LoadBlueprints(paths ...string) (map[string]Blueprint, *util.Err) {
	vpr, err := loader.LoadViper(paths...)
	if err != nil {
		return nil, err
	}
	return ParseBlueprints(vpr.AllSettings())
}

func ParseBlueprints(settings map[string]any) (map[string]Blueprint, *util.Err) {
	blueprints := make(map[string]Blueprint, len(settings))
	for name, raw := range settings {
		components, ok := toM(raw)
		if !ok {
			return nil, util.NewErr(util.EcParseErr, util.M{
				"blueprint": name,
			})
		}
		bp := make(Blueprint, len(components))
		for component, fields := range components {
			if fields == nil {
				bp[component] = util.M{}
				continue
			}
			m, ok := toM(fields)
			if !ok {
				return nil, util.NewErr(util.EcParseErr, util.M{
					"blueprint": name,
					"component": component,
				})
			}
			bp[component] = m
		}
		blueprints[name] = bp
	}
	return blueprints, nil
}

func toM(v any) (util.M, bool) {
	switch m := v.(type) {
	case util.M:
		return m, true
	case map[string]any:
		return m, true
	case map[any]any:
		n := make(util.M, len(m))
		for k, v := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			n[s] = v
		}
		return n, true
	default:
		return nil, false
	}
}
