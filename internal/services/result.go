package services

import "encoding/json"

// ListResult is either the data or an error descriptor. Data is never nil,
// so it always serializes as a JSON array.
type ListResult[T any] struct {
	Data []T
	Err  error
}

func okResult[T any](data []T) ListResult[T] {
	if data == nil {
		data = []T{}
	}
	return ListResult[T]{Data: data}
}

func failedResult[T any](err error) ListResult[T] {
	return ListResult[T]{Data: []T{}, Err: err}
}

func (r ListResult[T]) OK() bool { return r.Err == nil }

// ErrorString is the descriptor clients see, or "" on success.
func (r ListResult[T]) ErrorString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r ListResult[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data  []T    `json:"data"`
		Error string `json:"error,omitempty"`
	}{Data: r.Data, Error: r.ErrorString()})
}
