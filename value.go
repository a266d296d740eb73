// Copyright 2020 xgfone
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bencode

import (
	"bytes"
	"math/big"
)

// Kind is the kind of a bencoded value.
type Kind uint8

// The kinds of the bencoded values.
//
// Invalid is the kind of the zero Value, which is not a well-formed
// bencoded value.
const (
	Invalid Kind = iota
	Integer
	String
	List
	Dict
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case String:
		return "string"
	case List:
		return "list"
	case Dict:
		return "dict"
	}
	return "invalid"
}

// Value is a bencoded value, that's, an integer, a byte string, a list
// or a dictionary.
//
// A Value is a freestanding tree: a list or dictionary exclusively owns
// its child Values, and the codec never shares buffers between a Value
// and the input it was decoded from.
type Value struct {
	kind Kind

	num  int64
	big  *big.Int // Set only when the integer is outside the int64 range.
	str  []byte
	list []Value
	dict []Pair
}

// Pair is a single key-value pair of a dictionary Value.
//
// The key of a pair built by the decoder is always a string Value.
// A pair built by the caller may carry any key, but only the pairs with
// a string key can be represented in bencode, so the encoder drops the
// others silently.
type Pair struct {
	Key   Value
	Value Value
}

// NewInteger returns a new integer Value.
func NewInteger(i int64) Value {
	return Value{kind: Integer, num: i}
}

// NewBigInteger returns a new integer Value from an arbitrary-precision
// integer, which bencode allows since the digit length is unbounded.
//
// The value of i is copied. A nil i is treated as zero.
func NewBigInteger(i *big.Int) Value {
	if i == nil {
		return Value{kind: Integer}
	}
	if i.IsInt64() {
		return Value{kind: Integer, num: i.Int64()}
	}
	return Value{kind: Integer, big: new(big.Int).Set(i)}
}

// NewString returns a new byte-string Value from a string.
func NewString(s string) Value {
	return Value{kind: String, str: []byte(s)}
}

// NewBytes returns a new byte-string Value from a byte slice, which may
// contain arbitrary non-text bytes and may be empty.
//
// The slice is not copied, so the caller must not modify it afterwards.
func NewBytes(b []byte) Value {
	return Value{kind: String, str: b}
}

// NewList returns a new list Value. The element order is significant
// and is preserved exactly by the codec.
func NewList(vs ...Value) Value {
	return Value{kind: List, list: vs}
}

// NewDict returns a new dictionary Value from a sequence of pairs.
//
// The pairs are kept in the given order. The encoder sorts them by key
// on output; the pair order of a decoded dictionary is the input order.
func NewDict(pairs ...Pair) Value {
	return Value{kind: Dict, dict: pairs}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Int64 returns the integer as an int64, and reports whether the value
// is an integer that fits in an int64.
func (v Value) Int64() (i int64, ok bool) {
	if v.kind == Integer && v.big == nil {
		return v.num, true
	}
	return
}

// BigInt returns a copy of the integer as a big.Int, or nil if the
// value is not an integer.
func (v Value) BigInt() *big.Int {
	if v.kind != Integer {
		return nil
	}
	if v.big != nil {
		return new(big.Int).Set(v.big)
	}
	return big.NewInt(v.num)
}

// Bytes returns the bytes of the byte string, or nil if the value is
// not a byte string. The returned slice must not be modified.
func (v Value) Bytes() []byte {
	if v.kind != String {
		return nil
	}
	if v.str == nil {
		return []byte{}
	}
	return v.str
}

// Text returns the byte string as a Go string, or "" if the value is
// not a byte string.
func (v Value) Text() string { return string(v.str) }

// List returns the elements of the list, or nil if the value is not
// a list.
func (v Value) List() []Value {
	if v.kind != List {
		return nil
	}
	return v.list
}

// Dict returns the pairs of the dictionary, or nil if the value is not
// a dictionary.
func (v Value) Dict() []Pair {
	if v.kind != Dict {
		return nil
	}
	return v.dict
}

// Len returns the number of the bytes, elements or pairs of a string,
// list or dictionary value, or 0 for the other kinds.
func (v Value) Len() int {
	switch v.kind {
	case String:
		return len(v.str)
	case List:
		return len(v.list)
	case Dict:
		return len(v.dict)
	}
	return 0
}

// Equal reports whether v and o are structurally equal, that's, they
// have the same kind and recursively equal contents, including the
// element order of the lists and the pair order of the dictionaries.
// Integers are compared numerically across the int64 and big forms.
//
// As the only exception, an empty list and an empty dictionary are
// equal: once empty, bencode cannot distinguish the two, and the
// decoder yields the same empty-collection value for "le" and "de".
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return v.isEmptyCollection() && o.isEmptyCollection()
	}

	switch v.kind {
	case Integer:
		if v.big != nil || o.big != nil {
			// A set big field never fits in an int64.
			return v.big != nil && o.big != nil && v.big.Cmp(o.big) == 0
		}
		return v.num == o.num

	case String:
		return bytes.Equal(v.str, o.str)

	case List:
		if len(v.list) != len(o.list) {
			return false
		}
		for i, e := range v.list {
			if !e.Equal(o.list[i]) {
				return false
			}
		}
		return true

	case Dict:
		if len(v.dict) != len(o.dict) {
			return false
		}
		for i, p := range v.dict {
			q := o.dict[i]
			if !p.Key.Equal(q.Key) || !p.Value.Equal(q.Value) {
				return false
			}
		}
		return true
	}

	return true // Both are the zero Value.
}

func (v Value) isEmptyCollection() bool {
	return (v.kind == List && len(v.list) == 0) ||
		(v.kind == Dict && len(v.dict) == 0)
}

// String returns the canonical encoding of the value as a string,
// which is only intended for debugging.
func (v Value) String() string { return string(EncodeValue(v)) }
