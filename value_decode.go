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
	"strconv"

	"github.com/pkg/errors"
)

// maxDepth bounds the nesting of the lists and dictionaries accepted
// by the decoder, so that an adversarial input cannot exhaust the
// stack by recursion. No real-world payload comes near it.
const maxDepth = 1024

// DecodeValue decodes b as exactly one bencoded value.
//
// DecodeValue is strict: the value must consume the whole input. If
// bytes remain after one complete value, it fails with an error whose
// cause is ErrTrailingData; if the input is empty or malformed, it
// fails with a *SyntaxError carrying the byte offset of the problem.
//
// Byte strings are copied out of b, so the returned Value does not
// alias the input. The pairs of a decoded dictionary are returned in
// the order they appear in the input, duplicate keys included: the
// decoder does not verify that the input is in the canonical order.
// An empty dictionary decodes to the same Value as an empty list (see
// Value.Equal), since bencode cannot distinguish the two once empty.
func DecodeValue(b []byte) (v Value, err error) {
	var rest []byte
	if v, rest, err = DecodeValuePrefix(b); err == nil && len(rest) != 0 {
		v = Value{}
		err = errors.Wrapf(ErrTrailingData,
			"%d bytes at offset %d", len(rest), len(b)-len(rest))
	}
	return
}

// DecodeValuePrefix decodes one bencoded value from the front of b and
// returns it together with the unconsumed remainder, which may be
// empty. It is the lenient counterpart of DecodeValue, usable when b
// holds several concatenated values or trailing protocol data.
func DecodeValuePrefix(b []byte) (v Value, rest []byte, err error) {
	d := valueDecoder{data: b}
	if v, err = d.decode(0); err != nil {
		return Value{}, nil, err
	}
	return v, b[d.off:], nil
}

type valueDecoder struct {
	data []byte
	off  int
}

func (d *valueDecoder) decode(depth int) (v Value, err error) {
	if depth > maxDepth {
		return v, syntaxErrorf(d.off, "nesting deeper than %d", maxDepth)
	}
	if d.off >= len(d.data) {
		return v, syntaxErrorf(d.off, "unexpected end of input")
	}

	switch c := d.data[d.off]; {
	case c == 'i':
		return d.decodeInteger()
	case c == 'l':
		return d.decodeList(depth)
	case c == 'd':
		return d.decodeDict(depth)
	case c >= '0' && c <= '9':
		return d.decodeString()
	default:
		return v, syntaxErrorf(d.off, "invalid value tag %q", c)
	}
}

func (d *valueDecoder) decodeInteger() (v Value, err error) {
	start := d.off
	end := bytes.IndexByte(d.data[start+1:], 'e')
	if end < 0 {
		return v, syntaxErrorf(start, "unterminated integer")
	}

	// Whatever the decimal parsers accept is accepted: the canonical
	// form has no leading zeros and no "-0", but rejecting them here
	// would narrow the accepted inputs of the format.
	text := string(d.data[start+1 : start+1+end])
	if n, perr := strconv.ParseInt(text, 10, 64); perr == nil {
		v = NewInteger(n)
	} else if ne, ok := perr.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		i, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return v, syntaxErrorf(start, "invalid integer %q", text)
		}
		v = NewBigInteger(i)
	} else {
		return v, syntaxErrorf(start, "invalid integer %q", text)
	}

	d.off = start + end + 2
	return
}

func (d *valueDecoder) decodeString() (v Value, err error) {
	start := d.off
	colon := bytes.IndexByte(d.data[start:], ':')
	if colon < 0 {
		return v, syntaxErrorf(start, "no colon after string length")
	}

	size, perr := strconv.ParseInt(string(d.data[start:start+colon]), 10, 64)
	if perr != nil {
		return v, syntaxErrorf(start, "invalid string length %q", d.data[start:start+colon])
	}

	d.off = start + colon + 1
	if size > int64(len(d.data)-d.off) {
		// Checked before touching the bytes: an unsatisfiable length
		// must not turn into a large allocation.
		return v, syntaxErrorf(start, "string length %d exceeds remaining %d bytes",
			size, len(d.data)-d.off)
	}

	v = NewBytes(append([]byte(nil), d.data[d.off:d.off+int(size)]...))
	d.off += int(size)
	return
}

func (d *valueDecoder) decodeList(depth int) (v Value, err error) {
	start := d.off
	d.off++

	var list []Value
	for {
		if d.off >= len(d.data) {
			return v, syntaxErrorf(start, "unterminated list")
		}
		if d.data[d.off] == 'e' {
			d.off++
			return Value{kind: List, list: list}, nil
		}

		e, err := d.decode(depth + 1)
		if err != nil {
			return v, err
		}
		list = append(list, e)
	}
}

func (d *valueDecoder) decodeDict(depth int) (v Value, err error) {
	start := d.off
	d.off++

	var pairs []Pair
	for {
		if d.off >= len(d.data) {
			return v, syntaxErrorf(start, "unterminated dictionary")
		}
		if d.data[d.off] == 'e' {
			d.off++
			if len(pairs) == 0 {
				// The canonical empty collection is the empty list.
				return NewList(), nil
			}
			return Value{kind: Dict, dict: pairs}, nil
		}

		if c := d.data[d.off]; c < '0' || c > '9' {
			return v, syntaxErrorf(d.off, "dictionary key is not a string, tag %q", c)
		}
		key, err := d.decodeString()
		if err != nil {
			return v, err
		}

		val, err := d.decode(depth + 1)
		if err != nil {
			return v, err
		}
		pairs = append(pairs, Pair{Key: key, Value: val})
	}
}
