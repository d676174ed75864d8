package kafkaconsumer

import (
	"encoding/json"
	"fmt"
)

// Errorf is fmt.Errorf returning an *Error.
func Errorf(format string, v ...any) error {
	return &Error{fmt.Errorf(format, v...)}
}

// Error wraps error and implements json.Marshaler so that errors carried
// inside structs (such as consumer exchanges) serialize as their text instead
// of as {}.
type Error struct {
	error
}

func (e *Error) Unwrap() error {
	return e.error
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Error())
}
