package trie

import (
	"fmt"
	"os"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Tables are stored as nested msgpack maps with integer keys. A nested map
// decodes to a Branch; any other value (nil, number, string...) is a Leaf.

var (
	_ msgpack.CustomEncoder = Branch(nil)
	_ msgpack.CustomDecoder = (*Branch)(nil)
)

// EncodeMsgpack writes keys in ascending order so output is deterministic
func (b Branch) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(b)); err != nil {
		return err
	}
	keys := make([]int, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := enc.EncodeInt(int64(k)); err != nil {
			return err
		}
		if child, ok := b[k].(Branch); ok {
			if err := child.EncodeMsgpack(enc); err != nil {
				return err
			}
			continue
		}
		if err := enc.EncodeNil(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Branch) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	out := make(Branch, max(n, 0))
	for i := 0; i < n; i++ {
		k, err := dec.DecodeInt()
		if err != nil {
			return fmt.Errorf("trie key: %w", err)
		}
		child, err := decodeNode(dec)
		if err != nil {
			return fmt.Errorf("trie key %d: %w", k, err)
		}
		out[k] = child
	}
	*b = out
	return nil
}

func decodeNode(dec *msgpack.Decoder) (Node, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	if msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32 {
		var child Branch
		if err := child.DecodeMsgpack(dec); err != nil {
			return nil, err
		}
		return child, nil
	}
	if err := dec.Skip(); err != nil {
		return nil, err
	}
	return Leaf{}, nil
}

// Marshal encodes a table
func Marshal(b Branch) ([]byte, error) {
	return msgpack.Marshal(b)
}

// Unmarshal decodes a table
func Unmarshal(data []byte) (Branch, error) {
	var b Branch
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b == nil {
		b = Branch{}
	}
	return b, nil
}

// LoadFile reads a msgpack table from disk
func LoadFile(path string) (Branch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return b, nil
}

// SaveFile writes a msgpack table to disk
func SaveFile(path string, b Branch) error {
	data, err := Marshal(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
