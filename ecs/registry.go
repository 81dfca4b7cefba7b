package ecs

import (
	"reflect"
	"sync/atomic"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/ds"
	"github.com/15mga/sigecs/sid"
	"github.com/15mga/sigecs/util"
)

type (
	registryOption struct {
		name    string
		types   *ComponentTypes
		poolCap int
	}
	RegistryOption func(o *registryOption)
)

func RegistryName(name string) RegistryOption {
	return func(o *registryOption) {
		o.name = name
	}
}

// RegistryComponentTypes shares types between registries, each registry
// owns a new ComponentTypes otherwise.
func RegistryComponentTypes(types *ComponentTypes) RegistryOption {
	return func(o *registryOption) {
		o.types = types
	}
}

// RegistryPoolCap is the initial slot count of every pool.
func RegistryPoolCap(c int) RegistryOption {
	return func(o *registryOption) {
		o.poolCap = c
	}
}

// NewRegistry creates an empty registry. A registry is driven from a
// single goroutine, see Frame for the parallel mode.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := &registryOption{
		name:    "main",
		poolCap: 64,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.types == nil {
		o.types = NewComponentTypes()
	}
	if o.poolCap < 0 {
		o.poolCap = 0
	}
	r := &Registry{
		id:              sid.GetId(),
		option:          o,
		signatures:      make([]Signature, 0, o.poolCap),
		states:          make([]EntityState, 0, o.poolCap),
		typeToSystem:    make(map[reflect.Type]int),
		created:         ds.NewIdSet[EntityId](o.poolCap),
		changed:         ds.NewIdSet[EntityId](o.poolCap),
		killed:          ds.NewIdSet[EntityId](o.poolCap),
		createdSwap:     ds.NewIdSet[EntityId](o.poolCap),
		changedSwap:     ds.NewIdSet[EntityId](o.poolCap),
		killedSwap:      ds.NewIdSet[EntityId](o.poolCap),
		onEntityAdded:   ds.NewFnLink1[Entity](),
		onEntityKilled:  ds.NewFnLink1[Entity](),
		onSystemAdded:   ds.NewFnLink1[ISystem](),
		onSystemRemoved: ds.NewFnLink1[ISystem](),
	}
	sigecs.Info("new registry", util.M{
		"id":   r.id,
		"name": o.name,
	})
	return r
}

// Registry owns entities, their component pools and the systems. Changes
// to entity structure are queued and reach systems on the next Update.
type Registry struct {
	id              int64
	option          *registryOption
	numEntities     int
	alive           int
	pools           []IPool
	signatures      []Signature
	states          []EntityState
	systems         []ISystem
	typeToSystem    map[reflect.Type]int
	systemsVer      int64
	rescan          []ISystem
	created         *ds.IdSet[EntityId]
	changed         *ds.IdSet[EntityId]
	killed          *ds.IdSet[EntityId]
	createdSwap     *ds.IdSet[EntityId]
	changedSwap     *ds.IdSet[EntityId]
	killedSwap      *ds.IdSet[EntityId]
	addedBuf        []Entity
	killedBuf       []Entity
	onEntityAdded   *ds.FnLink1[Entity]
	onEntityKilled  *ds.FnLink1[Entity]
	onSystemAdded   *ds.FnLink1[ISystem]
	onSystemRemoved *ds.FnLink1[ISystem]
	locked          atomic.Bool
}

func (r *Registry) Id() int64 {
	return r.id
}

func (r *Registry) Name() string {
	return r.option.name
}

func (r *Registry) ComponentTypes() *ComponentTypes {
	return r.option.types
}

// lock is held by Frame while systems run in parallel.
func (r *Registry) lock() {
	r.locked.Store(true)
}

func (r *Registry) unlock() {
	r.locked.Store(false)
}

func (r *Registry) IsLocked() bool {
	return r.locked.Load()
}

func (r *Registry) checkUnlocked(op string) {
	if !r.locked.Load() {
		return
	}
	err := util.NewErr(util.EcIllegalOp, util.M{
		"registry": r.option.name,
		"op":       op,
	})
	sigecs.Error(err)
	panic(err)
}

func (r *Registry) componentId(t reflect.Type) ComponentId {
	id, err := r.option.types.Id(t)
	if err != nil {
		sigecs.Error(err)
		panic(err)
	}
	return id
}

func (r *Registry) owns(e Entity) bool {
	return e.registry == r && e.id >= 0 && int(e.id) < r.numEntities
}

// CreateEntity issues the next id. The entity stays invisible to systems
// until the next Update.
func (r *Registry) CreateEntity() Entity {
	r.checkUnlocked("create entity")
	id := EntityId(r.numEntities)
	r.numEntities++
	r.alive++
	r.signatures = append(r.signatures, Signature{})
	r.states = append(r.states, EntityPending)
	r.created.Add(id)
	sigecs.Debug("create entity", util.M{
		"registry": r.option.name,
		"entity":   id,
	})
	return Entity{
		id:       id,
		registry: r,
	}
}

// KillEntity queues e for removal. Killing twice, or an entity of another
// registry, does nothing.
func (r *Registry) KillEntity(e Entity) {
	r.checkUnlocked("kill entity")
	if !r.owns(e) {
		sigecs.Warn2(util.EcParamsErr, util.M{
			"registry": r.option.name,
			"entity":   e.id,
		})
		return
	}
	switch r.states[e.id] {
	case EntityPending:
		r.created.Del(e.id)
	case EntityActive:
		r.changed.Del(e.id)
	default:
		return
	}
	r.states[e.id] = EntityKilling
	r.killed.Add(e.id)
	r.alive--
	sigecs.Debug("kill entity", util.M{
		"registry": r.option.name,
		"entity":   e.id,
	})
}

func (r *Registry) State(e Entity) EntityState {
	if !r.owns(e) {
		return EntityInvalid
	}
	return r.states[e.id]
}

// IsAlive is true from CreateEntity until KillEntity.
func (r *Registry) IsAlive(e Entity) bool {
	switch r.State(e) {
	case EntityPending, EntityActive:
		return true
	default:
		return false
	}
}

func (r *Registry) EntityCount() int {
	return r.alive
}

// EntitySignature is the zero Signature for unknown or removed entities.
func (r *Registry) EntitySignature(e Entity) Signature {
	if !r.owns(e) {
		return Signature{}
	}
	return r.signatures[e.id]
}

// Entity rebuilds the handle of id, ok is false if id was never issued.
func (r *Registry) Entity(id EntityId) (Entity, bool) {
	e := Entity{
		id:       id,
		registry: r,
	}
	return e, r.owns(e)
}

// BindEntityAdded runs fn at the end of Update for every entity that
// became active. Keep the binding to unbind fn later.
func (r *Registry) BindEntityAdded(fn FnEntity) EntityBinding {
	return r.onEntityAdded.Add(fn)
}

func (r *Registry) UnbindEntityAdded(b EntityBinding) bool {
	return r.onEntityAdded.DelElem(b)
}

// BindEntityKilled runs fn at the end of Update for every entity removed.
func (r *Registry) BindEntityKilled(fn FnEntity) EntityBinding {
	return r.onEntityKilled.Add(fn)
}

func (r *Registry) UnbindEntityKilled(b EntityBinding) bool {
	return r.onEntityKilled.DelElem(b)
}

func (r *Registry) BindSystemAdded(fn FnSystem) {
	r.onSystemAdded.Push(fn)
}

func (r *Registry) BindSystemRemoved(fn FnSystem) {
	r.onSystemRemoved.Push(fn)
}

func (r *Registry) pendingCounts() (int, int, int) {
	return r.created.Count(), r.changed.Count(), r.killed.Count()
}

// Update brings systems up to date with every structural change queued
// since the previous call. New systems are filled with the active
// entities first, then created entities become active, changed entities
// are matched again and killed entities are removed for good.
func (r *Registry) Update() {
	r.checkUnlocked("update")

	if len(r.rescan) > 0 {
		for _, system := range r.rescan {
			if !r.isRegistered(system) {
				continue
			}
			r.backfill(system.Base())
		}
		r.rescan = r.rescan[:0]
	}

	created, changed, killed := r.created, r.changed, r.killed
	r.created, r.createdSwap = r.createdSwap, r.created
	r.changed, r.changedSwap = r.changedSwap, r.changed
	r.killed, r.killedSwap = r.killedSwap, r.killed

	created.Iter(func(id EntityId) {
		r.states[id] = EntityActive
		e := Entity{id: id, registry: r}
		sig := r.signatures[id]
		for _, system := range r.systems {
			b := system.Base()
			if sig.Matches(b.signature) {
				b.addEntity(e)
			}
		}
		r.addedBuf = append(r.addedBuf, e)
	})
	created.Reset()

	changed.Iter(func(id EntityId) {
		if r.states[id] != EntityActive {
			return
		}
		e := Entity{id: id, registry: r}
		sig := r.signatures[id]
		for _, system := range r.systems {
			b := system.Base()
			if sig.Matches(b.signature) {
				b.addEntity(e)
			} else {
				b.removeEntity(e)
			}
		}
	})
	changed.Reset()

	killed.Iter(func(id EntityId) {
		e := Entity{id: id, registry: r}
		for _, system := range r.systems {
			system.Base().removeEntity(e)
		}
		r.signatures[id] = Signature{}
		for _, pool := range r.pools {
			if pool != nil {
				pool.Reset(id)
			}
		}
		r.states[id] = EntityRemoved
		r.killedBuf = append(r.killedBuf, e)
	})
	killed.Reset()

	for _, system := range r.systems {
		system.Base().flush()
	}

	// hooks may call Update again, they get fresh buffers
	added, removed := r.addedBuf, r.killedBuf
	r.addedBuf, r.killedBuf = nil, nil
	for i, e := range added {
		r.onEntityAdded.Invoke(e)
		added[i] = Entity{}
	}
	for i, e := range removed {
		r.onEntityKilled.Invoke(e)
		removed[i] = Entity{}
	}
	if r.addedBuf == nil {
		r.addedBuf = added[:0]
	}
	if r.killedBuf == nil {
		r.killedBuf = removed[:0]
	}
}

func (r *Registry) backfill(b *System) {
	for id := 0; id < r.numEntities; id++ {
		if r.states[id] != EntityActive {
			continue
		}
		if r.signatures[id].Matches(b.signature) {
			b.addEntity(Entity{id: EntityId(id), registry: r})
		}
	}
}

// Stats is a snapshot for logs.
func (r *Registry) Stats() util.M {
	pools := 0
	for _, p := range r.pools {
		if p != nil {
			pools++
		}
	}
	created, changed, killed := r.pendingCounts()
	return util.M{
		"id":              r.id,
		"name":            r.option.name,
		"entities":        r.alive,
		"issued":          r.numEntities,
		"systems":         len(r.systems),
		"pools":           pools,
		"pending_created": created,
		"pending_changed": changed,
		"pending_killed":  killed,
	}
}

type (
	dumpEntity struct {
		Id         EntityId `json:"id"`
		State      string   `json:"state"`
		Signature  string   `json:"signature"`
		Components []string `json:"components"`
	}
	dumpSystem struct {
		Type      string     `json:"type"`
		Signature string     `json:"signature"`
		Entities  []EntityId `json:"entities"`
	}
	dumpRegistry struct {
		Id       int64        `json:"id"`
		Name     string       `json:"name"`
		Entities []dumpEntity `json:"entities"`
		Systems  []dumpSystem `json:"systems"`
	}
)

// Dump renders every entity not yet removed and every system as json.
func (r *Registry) Dump() ([]byte, *util.Err) {
	d := dumpRegistry{
		Id:       r.id,
		Name:     r.option.name,
		Entities: make([]dumpEntity, 0, r.alive),
		Systems:  make([]dumpSystem, 0, len(r.systems)),
	}
	types := r.option.types
	for id := 0; id < r.numEntities; id++ {
		state := r.states[id]
		if state == EntityRemoved {
			continue
		}
		sig := r.signatures[id]
		ids := sig.Ids()
		names := make([]string, len(ids))
		for i, cid := range ids {
			names[i] = types.Name(cid)
		}
		d.Entities = append(d.Entities, dumpEntity{
			Id:         EntityId(id),
			State:      state.String(),
			Signature:  sig.String(),
			Components: names,
		})
	}
	for _, system := range r.systems {
		b := system.Base()
		ids := make([]EntityId, len(b.entities))
		for i, e := range b.entities {
			ids[i] = e.id
		}
		d.Systems = append(d.Systems, dumpSystem{
			Type:      reflect.TypeOf(system).String(),
			Signature: b.signature.String(),
			Entities:  ids,
		})
	}
	return util.JsonMarshalIndent(d, "  ")
}
