package types

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Integer is a whole number that clients may send either as a JSON number
// or as a numeric string ("20").
type Integer int64

func (n *Integer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	kind := "number"
	if strings.HasPrefix(raw, `"`) {
		kind = "string"
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: kind + " " + raw, Type: reflect.TypeOf(0)}
	}
	*n = Integer(value)
	return nil
}
