package util

// M carries params of errors and log records.
type M map[string]any

func (m M) Copy() M {
	n := make(M, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}
