package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"go.yaml.in/yaml/v4"
)

var (
	_ yaml.Marshaler        = (*Map)(nil)
	_ yaml.Unmarshaler      = (*Map)(nil)
	_ json.Marshaler        = (*Map)(nil)
	_ json.Unmarshaler      = (*Map)(nil)
	_ msgpack.CustomEncoder = (*Map)(nil)
	_ msgpack.CustomDecoder = (*Map)(nil)
)

// MarshalYAML implements yaml.Marshaler, emitting keys in order.
func (m *Map) MarshalYAML() (any, error) {
	return ToNode(m)
}

// UnmarshalYAML implements yaml.Unmarshaler, keeping source key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromNode(node)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("document: cannot unmarshal %s into a map", node.ShortTag())
	}
	*m = *decoded
	return nil
}

// MarshalJSON implements json.Marshaler, emitting keys in order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		first := true
		for k, item := range t.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}
}

// UnmarshalJSON implements json.Unmarshaler, keeping source key order.
// JSON is decoded through the YAML parser, of which it is a subset.
func (m *Map) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("document: invalid JSON")
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	return m.UnmarshalYAML(&node)
}

// EncodeMsgpack implements msgpack.CustomEncoder, emitting keys in order.
func (m *Map) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(m.Len()); err != nil {
		return err
	}
	for k, item := range m.All() {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder, keeping source key order.
func (m *Map) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := decodeMsgpackValue(dec)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("document: cannot decode msgpack %T into a map", v)
	}
	*m = *decoded
	return nil
}

func decodeMsgpackValue(dec *msgpack.Decoder) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := NewMapWithCapacity(n)
		for range n {
			key, err := dec.DecodeInterfaceLoose()
			if err != nil {
				return nil, err
			}
			val, err := decodeMsgpackValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(msgpackKey(key), val)
		}
		return m, nil

	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, n)
		for range n {
			val, err := decodeMsgpackValue(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	default:
		v, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return nil, err
		}
		return FromPlain(v), nil
	}
}

func msgpackKey(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(k)
	}
}
