package util

import jsoniter "github.com/json-iterator/go"

// keys are sorted so dumps and error payloads diff cleanly
var _Json = jsoniter.Config{
	EscapeHTML:  true,
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

func JsonMarshal(o any) ([]byte, *Err) {
	bytes, e := _Json.Marshal(o)
	if e != nil {
		return nil, WrapErr(EcMarshallErr, e)
	}
	return bytes, nil
}

func JsonMarshalIndent(o any, indent string) ([]byte, *Err) {
	bytes, e := _Json.MarshalIndent(o, "", indent)
	if e != nil {
		return nil, WrapErr(EcMarshallErr, e)
	}
	return bytes, nil
}

func JsonUnmarshal(bytes []byte, o any) *Err {
	if e := _Json.Unmarshal(bytes, o); e != nil {
		return WrapErr(EcUnmarshallErr, e)
	}
	return nil
}
