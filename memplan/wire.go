package memplan

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Wire format of a symbol table:
//
//	message SymbolTable { repeated Symbol symbols = 1; }
//	message Symbol { string name = 1; uint64 value = 2; }
const (
	tableSymbolsField protowire.Number = 1
	symbolNameField   protowire.Number = 1
	symbolValueField  protowire.Number = 2
)

// MarshalSymbols encodes t as a protobuf SymbolTable message. Symbols are
// written in canonical order so equal tables encode to equal bytes.
func MarshalSymbols(t SymbolTable) []byte {
	var b []byte
	for _, s := range t.Symbols() {
		var m []byte
		m = protowire.AppendTag(m, symbolNameField, protowire.BytesType)
		m = protowire.AppendString(m, s.Name)
		m = protowire.AppendTag(m, symbolValueField, protowire.VarintType)
		m = protowire.AppendVarint(m, s.Value)

		b = protowire.AppendTag(b, tableSymbolsField, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	return b
}

// UnmarshalSymbols decodes a protobuf SymbolTable message. Unknown fields
// are skipped.
func UnmarshalSymbols(b []byte) (SymbolTable, error) {
	t := SymbolTable{}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num != tableSymbolsField || typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
		m, n := protowire.ConsumeBytes(v)
		if n < 0 {
			return n, nil
		}
		s, err := unmarshalSymbol(m)
		if err != nil {
			return 0, err
		}
		t[s.Name] = s.Value
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func unmarshalSymbol(b []byte) (Symbol, error) {
	var s Symbol
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == symbolNameField && typ == protowire.BytesType:
			name, n := protowire.ConsumeString(v)
			s.Name = name
			return n, nil
		case num == symbolValueField && typ == protowire.VarintType:
			val, n := protowire.ConsumeVarint(v)
			s.Value = val
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, v), nil
	})
	if err != nil {
		return Symbol{}, err
	}
	if s.Name == "" {
		return Symbol{}, wireError("symbol without a name", nil)
	}
	return s, nil
}

// consumeFields walks the fields of a message. fn consumes the value of one
// field and returns its length, or a negative protowire error code.
func consumeFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireError("bad tag", protowire.ParseError(n))
		}
		b = b[n:]
		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return wireError("bad field value", protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func wireError(detail string, cause error) *Error {
	return &Error{
		Stage:  StageSymbols,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
