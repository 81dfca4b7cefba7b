package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/ecs"
	"github.com/15mga/sigecs/loader"
	"github.com/15mga/sigecs/log"
	"github.com/15mga/sigecs/prefab"
	"github.com/15mga/sigecs/util"
	"github.com/15mga/sigecs/worker"
)

func init() {
	sigecs.AddVar("conf", "conf/ecsdemo.yml", "conf files, comma separated")
	sigecs.AddVar("prefab", "conf/prefab.yml", "blueprint files, comma separated")
	sigecs.AddVar("frames", int64(300), "frames to run, 0 until interrupted")
	sigecs.AddVar("count", 100, "entities spawned per blueprint")
	sigecs.AddVar("render", int64(60), "print sprites every n frames")
	sigecs.AddVar("profile", "", "pprof mode, cpu or mem")
}

func main() {
	sigecs.ParseVar()

	conf := sigecs.DefConf()
	confPath, _ := sigecs.GetVar[string]("conf")
	confErr := loader.LoadConf(conf, loader.ConvertConfLocalPath(strings.Split(confPath, ",")...)...)
	setupLog(conf)
	if confErr != nil {
		sigecs.Warn(confErr)
	}

	if mode, _ := sigecs.GetVar[string]("profile"); mode != "" {
		p := profile.Start(profileMode(mode), profile.ProfilePath("."), profile.NoShutdownHook)
		defer p.Stop()
	}

	if err := worker.InitParallel(0); err != nil {
		sigecs.Fatal(err)
	}
	defer worker.Release()

	registry := ecs.NewRegistry(
		ecs.RegistryName(conf.Registry.Name),
		ecs.RegistryPoolCap(conf.Registry.PoolCap),
	)
	ecs.AddSystem(registry, NewMovementSystem(util.Vec2{X: 1280, Y: 720}, 256))
	render, _ := sigecs.GetVar[int64]("render")
	ecs.AddSystem(registry, NewRenderSystem(os.Stdout, render, 5))
	registry.BindEntityKilled(func(e ecs.Entity) {
		sigecs.Debug("left the screen", util.M{
			"entity": e.Id(),
		})
	})

	spawn(registry)

	frames, _ := sigecs.GetVar[int64]("frames")
	if conf.Frame.MaxFrame > 0 {
		frames = conf.Frame.MaxFrame
	}
	opts := []ecs.FrameOption{
		ecs.FrameTickDur(time.Duration(conf.Frame.TickMs) * time.Millisecond),
		ecs.FrameMax(frames),
		ecs.FrameParallel(conf.Frame.Parallel),
		ecs.FrameBeforeDispose(func(frame *ecs.Frame) {
			sigecs.Info("registry", frame.Registry().Stats())
		}),
	}
	if conf.Profile.IntervalSec > 0 {
		opts = append(opts, ecs.FrameProfile(time.Duration(conf.Profile.IntervalSec)*time.Second))
	}
	frame := ecs.NewFrame(registry, opts...)
	frame.Start()
	go func() {
		<-frame.Done()
		util.Cancel()
	}()
	sigecs.WaitExit(time.Second * 5)
}

func setupLog(conf *sigecs.Conf) {
	// stdout belongs to the render system
	sigecs.AddLogger(log.NewStd(
		log.StdLogStrLvl(conf.Log.Levels...),
		log.StdTimeLayout(conf.Log.TimeLayout),
		log.StdColor(conf.Log.Color),
		log.StdWriter(os.Stderr),
	))
	if conf.Log.File != "" {
		sigecs.AddLogger(log.NewStd(
			log.StdLogStrLvl(conf.Log.Levels...),
			log.StdTimeLayout(conf.Log.TimeLayout),
			log.StdFile(conf.Log.File),
		))
	}
	if conf.Log.Mongo != "" {
		l, err := log.NewMgo(
			log.MgoUri(conf.Log.Mongo),
			log.MgoDb(conf.Log.MgoDb),
			log.MgoLogLvl(conf.Log.Levels...),
		)
		if err != nil {
			sigecs.Warn(err)
			return
		}
		sigecs.AddLogger(l)
	}
}

func spawn(registry *ecs.Registry) {
	catalog := prefab.NewCatalog()
	prefab.BindDefault(catalog, "", DefTransform)
	prefab.Bind[RigidBody](catalog, "")
	prefab.Bind[Sprite](catalog, "")

	prefabPath, _ := sigecs.GetVar[string]("prefab")
	blueprints, err := prefab.LoadBlueprints(loader.ConvertConfLocalPath(strings.Split(prefabPath, ",")...)...)
	if err != nil {
		sigecs.Warn(err)
		blueprints = defBlueprints()
	}
	count, _ := sigecs.GetVar[int]("count")
	for name, bp := range blueprints {
		for i := 0; i < count; i++ {
			e, err := catalog.Spawn(registry, bp)
			if err != nil {
				sigecs.Error(err)
				break
			}
			t := ecs.Get[Transform](e)
			t.Position.X += float32(i % 64 * 16)
			t.Position.Y += float32(i / 64 * 16)
		}
		sigecs.Info("spawn", util.M{
			"blueprint": name,
			"count":     count,
		})
	}
}

func defBlueprints() map[string]prefab.Blueprint {
	return map[string]prefab.Blueprint{
		"tank": {
			"transform":  util.M{"position": util.M{"x": 10, "y": 30}},
			"rigid_body": util.M{"velocity": util.M{"x": 50, "y": 50}},
			"sprite":     util.M{"asset_id": "tank", "width": 10, "height": 10},
		},
	}
}

func profileMode(mode string) func(*profile.Profile) {
	switch mode {
	case "mem":
		return profile.MemProfileAllocs
	default:
		return profile.CPUProfile
	}
}
