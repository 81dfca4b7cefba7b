package sigecs

import (
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/15mga/sigecs/util"
)

// ILogger is a log sink.
type ILogger interface {
	Log(level TLevel, msg, caller string, stack []byte, params util.M)
}

var (
	TestLevels = []TLevel{TDebug, TInfo, TWarn, TError, TFatal}
	DevLevels  = []TLevel{TInfo, TWarn, TError, TFatal}
	ProdLevels = []TLevel{TWarn, TError, TFatal}
)

type TLevel = int64

const (
	TDebug TLevel = 1 << iota
	TInfo
	TWarn
	TError
	TFatal
)

const (
	SDebug = "debug"
	SInfo  = "info"
	SWarn  = "warn"
	SError = "error"
	SFatal = "fatal"
)

const (
	DefTimeFormatter = "2006-01-02 15:04:05.999"
)

func StrToLevel(l string) TLevel {
	switch l {
	case SDebug:
		return TDebug
	case SInfo:
		return TInfo
	case SWarn:
		return TWarn
	case SError:
		return TError
	case SFatal:
		return TFatal
	default:
		return TInfo
	}
}

func LevelToStr(l TLevel) string {
	switch l {
	case TDebug:
		return SDebug
	case TInfo:
		return SInfo
	case TWarn:
		return SWarn
	case TError:
		return SError
	case TFatal:
		return SFatal
	default:
		return SInfo
	}
}

func StrLvlToMask(levels ...string) TLevel {
	slc := make([]TLevel, 0, len(levels))
	for _, level := range levels {
		slc = append(slc, StrToLevel(level))
	}
	return util.GenMask(slc...)
}

func LvlToMask(levels ...TLevel) TLevel {
	return util.GenMask(levels...)
}

var (
	_LogMtx       sync.RWMutex
	_Loggers      []ILogger
	_LogDefParams = util.M{}
	_CallerSkip   = 2
)

// SetLogDefParams merges params into every record, e.g. the process name.
func SetLogDefParams(params util.M) {
	_LogMtx.Lock()
	defer _LogMtx.Unlock()
	for k, v := range params {
		_LogDefParams[k] = v
	}
}

func AddLogger(logger ILogger) {
	_LogMtx.Lock()
	_Loggers = append(_Loggers, logger)
	_LogMtx.Unlock()
}

// ClearLoggers drops every sink, tests use it to swap in a buffer logger.
func ClearLoggers() {
	_LogMtx.Lock()
	_Loggers = nil
	_LogMtx.Unlock()
}

func log(level TLevel, msg string, stack []byte, params util.M) {
	_LogMtx.RLock()
	defer _LogMtx.RUnlock()
	if len(_Loggers) == 0 {
		return
	}
	if len(_LogDefParams) > 0 {
		if params == nil {
			params = make(util.M, len(_LogDefParams))
		}
		for k, v := range _LogDefParams {
			if _, ok := params[k]; !ok {
				params[k] = v
			}
		}
	}
	caller := GetCaller(_CallerSkip + 1)
	for _, l := range _Loggers {
		l.Log(level, msg, caller, stack, params)
	}
}

func Debug(str string, params util.M) {
	log(TDebug, str, nil, params)
}

func Info(str string, params util.M) {
	log(TInfo, str, nil, params)
}

func Warn(err *util.Err) {
	if err == nil {
		return
	}
	log(TWarn, err.String(), err.Stack(), err.Params())
}

func Warn2(code util.TErrCode, m util.M) {
	err := util.NewErr(code, m)
	log(TWarn, err.String(), err.Stack(), err.Params())
}

func Error(err *util.Err) {
	if err == nil {
		return
	}
	log(TError, err.String(), err.Stack(), err.Params())
}

func Error2(code util.TErrCode, m util.M) {
	err := util.NewErr(code, m)
	log(TError, err.String(), err.Stack(), err.Params())
}

func Error3(code util.TErrCode, e error) {
	err := util.WrapErr(code, e)
	log(TError, err.String(), err.Stack(), err.Params())
}

func Fatal(err *util.Err) {
	if err == nil {
		return
	}
	log(TFatal, err.String(), err.Stack(), err.Params())
	os.Exit(1)
}

func GetCaller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return util.LogTrim(file) + ":" + strconv.Itoa(line)
}
