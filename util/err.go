package util

import (
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const (
	EcMin TErrCode = iota + 60000
	EcNil
	EcRecover
	EcWrongType
	EcExist
	EcNotExist
	EcMarshallErr
	EcUnmarshallErr
	EcIllegalOp
	EcParamsErr
	EcParseErr
	EcIo
	EcOutOfRange
	EcConnectErr
	EcServiceErr
	EcNotImplement
	EcTooManyComponents
	EcComponentNotExist
	EcSystemNotExist
	EcEntityNotAlive
)

var (
	_ErrCodeToString = map[TErrCode]string{
		EcNil:               "object_nil",
		EcRecover:           "recover",
		EcWrongType:         "wrong_type",
		EcExist:             "exist",
		EcNotExist:          "not_exist",
		EcMarshallErr:       "marshall_error",
		EcUnmarshallErr:     "unmarshall_error",
		EcIllegalOp:         "illegal_operation",
		EcParamsErr:         "args_error",
		EcParseErr:          "parse_error",
		EcIo:                "io_error",
		EcOutOfRange:        "out_of_range",
		EcConnectErr:        "connect_error",
		EcServiceErr:        "service_error",
		EcNotImplement:      "not_implement",
		EcTooManyComponents: "too_many_components",
		EcComponentNotExist: "component_not_exist",
		EcSystemNotExist:    "system_not_exist",
		EcEntityNotAlive:    "entity_not_alive",
	}
)

func ErrCodeToStr(ec TErrCode) string {
	str, ok := _ErrCodeToString[ec]
	if ok {
		return str
	}
	return strconv.FormatInt(int64(ec), 10)
}

func WrapErr(code TErrCode, e error) *Err {
	if e == nil {
		return &Err{code: code, stack: GetStack(3)}
	}
	return &Err{code: code, stack: GetStack(3), params: M{"error": e.Error()}}
}

func NewErr(code TErrCode, params M) *Err {
	return &Err{code: code, stack: GetStack(3), params: params}
}

// Err carries a code, optional params and the stack of its creation site.
type Err struct {
	code   TErrCode
	stack  []byte
	params M
}

func (e *Err) Code() TErrCode {
	return e.code
}

func (e *Err) ToBytes() []byte {
	m := make(M, len(e.params)+2)
	for k, v := range e.params {
		m[k] = v
	}
	m["code"] = ErrCodeToStr(e.code)
	if e.stack != nil {
		m["stack"] = BytesToStr(e.stack)
	}
	bytes, _ := JsonMarshal(m)
	return bytes
}

func (e *Err) Error() string {
	if err, ok := e.params["error"]; ok {
		if s, ok := err.(string); ok {
			return s
		}
	}
	return BytesToStr(e.ToBytes())
}

func (e *Err) Params() M {
	return e.params
}

func (e *Err) Stack() []byte {
	return e.stack
}

func (e *Err) AddParam(k string, v any) {
	if e.params == nil {
		e.params = M{}
	}
	e.params[k] = v
}

func (e *Err) GetParam(k string) (v any, ok bool) {
	if e.params == nil {
		return nil, false
	}
	v, ok = e.params[k]
	return
}

func (e *Err) String() string {
	return ErrCodeToStr(e.code)
}

func GetStack(skip int) []byte {
	const depth = 16
	var rpc [depth]uintptr
	n := runtime.Callers(skip, rpc[:])
	if n < 1 {
		return nil
	}
	frames := runtime.CallersFrames(rpc[:n])

	var sb strings.Builder
	sb.Grow(256)
	for i := 0; i < StackMaxDeep; i++ {
		frame, ok := frames.Next()
		if !ok {
			break
		}
		sb.WriteString("\n\t")
		sb.WriteString(LogTrim(frame.File))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(frame.Line))
	}
	return StrToBytes(sb.String())
}

var (
	StackMaxDeep = 8
	LogPrefix    = ".."
	LogReg       = regexp.MustCompile(`(\/.+\.(com)|(org))|(\/.+go\d{1}\.\d{1,2}.\d{1,2}|/src)`)
)

func LogTrim(file string) string {
	s := LogReg.FindStringIndex(file)
	if len(s) > 0 {
		return LogPrefix + file[s[1]:]
	}
	return file
}
