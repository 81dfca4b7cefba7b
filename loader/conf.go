package loader

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
)

const (
	ConfLocalLoader = "local"
	ConfPathSep     = "|"
)

type (
	// ConfLoader reads path into v, merging over what v already holds when merge is set.
	ConfLoader     func(path string, v *viper.Viper, merge bool) *util.Err
	ConfPathParser func(path string) (loaderType, filePath string, err *util.Err)
)

var (
	_TypeToLoader   = make(map[string]ConfLoader)
	_ConfPathParser = func(path string) (string, string, *util.Err) {
		ss := strings.Split(path, ConfPathSep)
		if len(ss) != 2 {
			return "", "", util.NewErr(util.EcParamsErr, util.M{
				"path": path,
			})
		}
		return ss[0], ss[1], nil
	}
	_ConfRoot = util.WorkDir()
)

func init() {
	SetConfLoader(ConfLocalLoader, confLocalLoader)
}

// SetConfRoot is the directory relative local paths resolve against.
func SetConfRoot(p string) {
	_ConfRoot = p
}

func SetConfPathParser(parser ConfPathParser) {
	_ConfPathParser = parser
}

func SetConfLoader(typ string, loader ConfLoader) {
	_TypeToLoader[typ] = loader
}

func GetConfLoader(typ string) ConfLoader {
	return _TypeToLoader[typ]
}

// LoadViper reads every path, "type|file", in order. Later files override
// earlier ones key by key. A path that fails is logged and skipped, the
// error is only returned when nothing was loaded.
func LoadViper(paths ...string) (*viper.Viper, *util.Err) {
	if len(paths) == 0 {
		return nil, util.NewErr(util.EcParamsErr, util.M{
			"error": "no conf path",
		})
	}
	vpr := viper.New()
	loaded := 0
	var last *util.Err
	for _, p := range paths {
		loaderType, filePath, err := _ConfPathParser(p)
		if err != nil {
			sigecs.Warn(err)
			last = err
			continue
		}
		loader, ok := _TypeToLoader[loaderType]
		if !ok {
			last = util.NewErr(util.EcNotExist, util.M{
				"loader": loaderType,
				"path":   p,
			})
			sigecs.Warn(last)
			continue
		}
		err = loader(filePath, vpr, loaded > 0)
		if err != nil {
			sigecs.Warn(err)
			last = err
			continue
		}
		loaded++
		sigecs.Info("load conf", util.M{
			"path": p,
		})
	}
	if loaded == 0 {
		return nil, last
	}
	return vpr, nil
}

// LoadConf decodes the merged files into conf, fields missing from every
// file keep their current value.
func LoadConf(conf any, paths ...string) *util.Err {
	vpr, err := LoadViper(paths...)
	if err != nil {
		return err
	}
	e := vpr.Unmarshal(conf)
	if e != nil {
		return util.WrapErr(util.EcUnmarshallErr, e)
	}
	return nil
}

func confLocalLoader(p string, v *viper.Viper, merge bool) *util.Err {
	if !filepath.IsAbs(p) {
		p = filepath.Join(_ConfRoot, p)
	}
	ext := strings.TrimPrefix(filepath.Ext(p), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	v.SetConfigFile(p)
	v.SetConfigType(ext)
	var e error
	if merge {
		e = v.MergeInConfig()
	} else {
		e = v.ReadInConfig()
	}
	if e != nil {
		return util.NewErr(util.EcIo, util.M{
			"error": e.Error(),
			"path":  p,
		})
	}
	return nil
}

func ConvertConfLocalPath(paths ...string) []string {
	slc := make([]string, len(paths))
	for i, p := range paths {
		slc[i] = ConfLocalLoader + ConfPathSep + p
	}
	return slc
}
