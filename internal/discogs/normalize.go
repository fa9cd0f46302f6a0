package discogs

import (
	"bytes"
	"encoding/json"
)

// The catalog returns several fields with unstable shapes: year arrives as
// a number or a string, genre/style/label/format as a scalar or an array.
// FlexString and FlexStrings normalize those at the decoding boundary so
// the rest of the code only ever sees fixed shapes.

// FlexString decodes a JSON string, number, null, or array (first element)
// into a single string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*f = FlexString(s)
	case '[':
		var arr []FlexString
		err := json.Unmarshal(data, &arr)
		if err != nil {
			return err
		}
		if len(arr) > 0 {
			*f = arr[0]
		} else {
			*f = ""
		}
	default:
		var n json.Number
		err := json.Unmarshal(data, &n)
		if err != nil {
			return err
		}
		*f = FlexString(n.String())
	}
	return nil
}

// FlexStrings decodes a JSON array, scalar, or null into a slice of strings.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	if data[0] == '[' {
		var arr []FlexString
		err := json.Unmarshal(data, &arr)
		if err != nil {
			return err
		}
		out := make(FlexStrings, 0, len(arr))
		for _, v := range arr {
			out = append(out, string(v))
		}
		*f = out
		return nil
	}

	var s FlexString
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	*f = FlexStrings{string(s)}
	return nil
}

// First returns the leading element, or "" when empty.
func (f FlexStrings) First() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
