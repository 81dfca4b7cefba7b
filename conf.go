package sigecs

// Conf is the runtime configuration, loaded with loader.LoadConf.
type Conf struct {
	Log      LogConf      `mapstructure:"log"`
	Frame    FrameConf    `mapstructure:"frame"`
	Registry RegistryConf `mapstructure:"registry"`
	Profile  ProfileConf  `mapstructure:"profile"`
}

type LogConf struct {
	Levels     []string `mapstructure:"levels"`
	TimeLayout string   `mapstructure:"time_layout"`
	File       string   `mapstructure:"file"`
	Color      bool     `mapstructure:"color"`
	Mongo      string   `mapstructure:"mongo"`
	MgoDb      string   `mapstructure:"mgo_db"`
}

type FrameConf struct {
	TickMs   int64 `mapstructure:"tick_ms"`
	MaxFrame int64 `mapstructure:"max_frame"`
	Parallel bool  `mapstructure:"parallel"`
}

type RegistryConf struct {
	Name    string `mapstructure:"name"`
	PoolCap int    `mapstructure:"pool_cap"`
}

type ProfileConf struct {
	IntervalSec int64 `mapstructure:"interval_sec"`
}

// DefConf is used for anything the config files leave unset.
func DefConf() *Conf {
	return &Conf{
		Log: LogConf{
			Levels:     []string{SInfo, SWarn, SError, SFatal},
			TimeLayout: DefTimeFormatter,
			Color:      true,
			MgoDb:      "log",
		},
		Frame: FrameConf{
			TickMs: 16,
		},
		Registry: RegistryConf{
			Name:    "main",
			PoolCap: 100,
		},
	}
}
