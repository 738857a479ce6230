package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialize renders val as JSON, hand-written directly to a
// bytes.Buffer rather than round-tripped through a Go map (a Go map
// can't preserve Dict's insertion order, which the isomorphism with
// the source syntax requires — spec.md §6.1).
func Serialize(val Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, val); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, val Value) error {
	switch v := val.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Int:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		buf.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case Text:
		enc, err := json.Marshal(v.String())
		if err != nil {
			return err
		}
		buf.Write(enc)
	case List:
		buf.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Dict:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			enc, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(enc)
			buf.WriteByte(':')
			item, _ := v.Get(k)
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value of kind %s is not representable as JSON", val.Kind())
	}
	return nil
}
