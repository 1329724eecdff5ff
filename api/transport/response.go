package transport

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON body the task API returns.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

func NewSuccess(data, meta any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

// NewList wraps a task collection together with its size.
func NewList(items any, count int) Envelope {
	return NewSuccess(items, ListMeta{Count: count})
}

// NewError carries a domain error code (INVALID, NOT_FOUND, CONFLICT...)
// and its message.
func NewError(code, message string, meta any) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: message, Meta: meta}
}

// String is the JSON form, for log fields.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
