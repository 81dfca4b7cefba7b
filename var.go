package sigecs

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/15mga/sigecs/util"
)

type varItem struct {
	name  string
	usage string
	val   any
}

type Var interface {
	int | int64 | float64 | bool | string
}

var (
	_VarNames []string
	_VarMap   = make(map[string]*varItem, 4)
)

// AddVar declares a process variable, settable by flag -name or env NAME.
func AddVar[T Var](name string, def T, usage string) {
	if _, ok := _VarMap[name]; !ok {
		_VarNames = append(_VarNames, name)
	}
	_VarMap[name] = &varItem{
		name:  name,
		val:   def,
		usage: usage,
	}
}

// ParseVar reads os.Args then the environment; env wins.
func ParseVar() {
	ParseVarFrom(flag.CommandLine, os.Args[1:])
}

func ParseVarFrom(fs *flag.FlagSet, args []string) {
	parseFlag(fs, args)
	parseEnv()
}

func parseFlag(fs *flag.FlagSet, args []string) {
	m := make(map[string]any, len(_VarNames))
	for _, name := range _VarNames {
		item := _VarMap[name]
		switch d := item.val.(type) {
		case int:
			m[name] = fs.Int(name, d, item.usage)
		case int64:
			m[name] = fs.Int64(name, d, item.usage)
		case float64:
			m[name] = fs.Float64(name, d, item.usage)
		case bool:
			m[name] = fs.Bool(name, d, item.usage)
		case string:
			m[name] = fs.String(name, d, item.usage)
		}
	}
	if err := fs.Parse(args); err != nil {
		Warn(util.WrapErr(util.EcParseErr, err))
	}
	for name, v := range m {
		item := _VarMap[name]
		switch d := v.(type) {
		case *int:
			item.val = *d
		case *int64:
			item.val = *d
		case *float64:
			item.val = *d
		case *bool:
			item.val = *d
		case *string:
			item.val = *d
		}
	}
}

func parseEnv() {
	for _, name := range _VarNames {
		item := _VarMap[name]
		v, ok := os.LookupEnv(strings.ToUpper(name))
		if !ok {
			continue
		}
		var e error
		switch item.val.(type) {
		case int:
			var i int
			i, e = strconv.Atoi(v)
			if e == nil {
				item.val = i
			}
		case int64:
			var i int64
			i, e = strconv.ParseInt(v, 10, 64)
			if e == nil {
				item.val = i
			}
		case float64:
			var f float64
			f, e = strconv.ParseFloat(v, 64)
			if e == nil {
				item.val = f
			}
		case bool:
			item.val = strings.ToLower(v) == "true"
		case string:
			item.val = v
		}
		if e != nil {
			Warn(util.NewErr(util.EcParseErr, util.M{
				"name":  name,
				"value": v,
				"error": e.Error(),
			}))
		}
	}
}

func GetVar[T Var](name string) (T, bool) {
	o, ok := _VarMap[name]
	if !ok {
		return util.Default[T](), false
	}
	v, ok := o.val.(T)
	return v, ok
}
