package convert

import (
	"encoding/json"
	"fmt"
	"io"
)

// Kind identifies the JSON type of a decoded Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns the JSON type name for error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a decoded JSON value. Object members keep their document order,
// which standard map-based unmarshalling would destroy.
type Value struct {
	Kind    Kind
	Str     string // KindString
	Num     string // KindNumber, source lexeme
	Bool    bool   // KindBool
	Members []Member
	Items   []Value
}

// Member is a single object member.
type Member struct {
	Key   string
	Value Value
}

// Decode reads a single JSON document from r, preserving object member
// order. Numbers keep their source lexeme. Malformed input is reported as a
// ParseError.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return Value{}, &ParseError{Err: err}
	}

	// Anything after the first document is garbage.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return Value{}, &ParseError{Err: err}
	}

	return value, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return Value{}, fmt.Errorf("unexpected end of JSON input")
	}
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Num: t.String()}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Value{Kind: KindObject}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}

		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := Value{Kind: KindArray}

	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		arr.Items = append(arr.Items, item)
	}

	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return arr, nil
}
