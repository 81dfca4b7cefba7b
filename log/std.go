package log

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
)

const (
	_SDebug = "[D]"
	_SInfo  = "[I]"
	_SWarn  = "[W]"
	_SError = "[E]"
	_SFatal = "[F]"
)

const (
	ColorRed      = "\033[31m"
	ColorGreen    = "\033[32m"
	ColorYellow   = "\033[33m"
	ColorCyan     = "\033[36m"
	ColorWhite    = "\033[37m"
	ColorHiRed    = "\033[91m"
	ColorHiGreen  = "\033[92m"
	ColorHiYellow = "\033[93m"
	ColorHiPurple = "\033[95m"
	ColorHiWhite  = "\033[97m"
	ColorReset    = "\033[0m"
)

func LogLvlToStr(l sigecs.TLevel) string {
	switch l {
	case sigecs.TDebug:
		return _SDebug
	case sigecs.TInfo:
		return _SInfo
	case sigecs.TWarn:
		return _SWarn
	case sigecs.TError:
		return _SError
	case sigecs.TFatal:
		return _SFatal
	default:
		return ""
	}
}

type (
	stdOption struct {
		logLvl     sigecs.TLevel
		timeLayout string
		color      bool
		writer     io.Writer
	}
	StdOption func(opt *stdOption)
)

func StdLogStrLvl(levels ...string) StdOption {
	return func(opt *stdOption) {
		opt.logLvl = sigecs.StrLvlToMask(levels...)
	}
}

// StdTimeLayout sets the time format, empty keeps the default.
func StdTimeLayout(layout string) StdOption {
	return func(opt *stdOption) {
		if layout != "" {
			opt.timeLayout = layout
		}
	}
}

func StdWriter(writer io.Writer) StdOption {
	return func(opt *stdOption) {
		opt.writer = writer
	}
}

func StdColor(color bool) StdOption {
	return func(opt *stdOption) {
		opt.color = color
	}
}

// StdFile writes to a rotated file, colors are turned off.
func StdFile(file string) StdOption {
	return func(opt *stdOption) {
		opt.color = false
		opt.writer = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, //mb
			MaxAge:     30,  //days
			MaxBackups: 10,
			Compress:   true,
		}
	}
}

func NewStd(opts ...StdOption) *stdLogger {
	opt := &stdOption{
		logLvl:     sigecs.LvlToMask(sigecs.TestLevels...),
		timeLayout: sigecs.DefTimeFormatter,
		color:      true,
		writer:     os.Stdout,
	}
	for _, o := range opts {
		o(opt)
	}
	l := &stdLogger{
		option:       opt,
		headLogDebug: _SDebug,
		headLogInfo:  _SInfo,
		headLogWarn:  _SWarn,
		headLogError: _SError,
		headLogFatal: _SFatal,
		tail:         "\n",
	}
	if opt.color {
		l.headLogDebug = ColorHiWhite + l.headLogDebug
		l.headLogInfo = ColorHiGreen + l.headLogInfo
		l.headLogWarn = ColorHiYellow + l.headLogWarn
		l.headLogError = ColorHiRed + l.headLogError
		l.headLogFatal = ColorHiPurple + l.headLogFatal
		l.tail = ColorReset + l.tail
	}
	return l
}

type stdLogger struct {
	option       *stdOption
	mtx          sync.Mutex
	headLogDebug string
	headLogInfo  string
	headLogWarn  string
	headLogError string
	headLogFatal string
	tail         string
}

func (l *stdLogger) getTimestamp() string {
	return time.Now().Format(l.option.timeLayout)
}

// Log writes a header line, the json params and the caller, then the
// stack if any.
func (l *stdLogger) Log(level sigecs.TLevel, msg, caller string, stack []byte, params util.M) {
	if !util.TestMask(level, l.option.logLvl) {
		return
	}
	var buffer bytes.Buffer
	if stack == nil {
		buffer.Grow(512)
	} else {
		buffer.Grow(1024 + len(stack))
	}
	switch level {
	case sigecs.TDebug:
		buffer.WriteString(l.headLogDebug)
	case sigecs.TInfo:
		buffer.WriteString(l.headLogInfo)
	case sigecs.TWarn:
		buffer.WriteString(l.headLogWarn)
	case sigecs.TError:
		buffer.WriteString(l.headLogError)
	case sigecs.TFatal:
		buffer.WriteString(l.headLogFatal)
	}
	buffer.WriteString(l.getTimestamp())
	if msg != "" {
		buffer.WriteByte(' ')
		buffer.WriteString(msg)
	}
	buffer.WriteString(l.tail)
	if len(params) > 0 {
		ps, _ := util.JsonMarshal(params)
		buffer.Write(ps)
		buffer.WriteByte('\n')
	}
	buffer.WriteString(caller)
	if stack != nil {
		buffer.Write(stack)
	}
	buffer.WriteByte('\n')

	l.mtx.Lock()
	_, _ = l.option.writer.Write(buffer.Bytes())
	l.mtx.Unlock()
}
