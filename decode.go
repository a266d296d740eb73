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
	"bufio"
	"bytes"
	"io"
	"math/big"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// Decoder reads the bencoded values from an input stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a new Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode reads exactly one bencoded value from the underlying reader
// and decodes it into the value pointed to by v, which must be a
// non-nil pointer.
//
// The supported targets are the inverse of Encoder.Encode, plus:
//
//   - *Value: the value-model form, see DecodeValue.
//   - A type implementing Unmarshaler: it receives the verbatim bytes
//     of the value.
//   - *interface{}: int64 (or *big.Int when the integer does not fit),
//     string, []interface{} and map[string]interface{}.
//
// The dictionary keys unknown to a struct target are skipped. Decode
// returns io.EOF if the stream ends before the first byte of a value,
// and io.ErrUnexpectedEOF if it ends within one.
func (dec *Decoder) Decode(v interface{}) (err error) {
	buf := new(bytes.Buffer)
	if err = dec.readValue(buf, 0); err != nil {
		return
	}
	return DecodeBytes(buf.Bytes(), v)
}

// readValue reads the verbatim bytes of one value into buf, without
// consuming anything beyond its final byte.
func (dec *Decoder) readValue(buf *bytes.Buffer, depth int) error {
	if depth > maxDepth {
		return syntaxErrorf(buf.Len(), "nesting deeper than %d", maxDepth)
	}

	c, err := dec.r.ReadByte()
	if err != nil {
		if err == io.EOF && (depth > 0 || buf.Len() > 0) {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	switch {
	case c == 'i':
		buf.WriteByte(c)
		return dec.copyUntil(buf, 'e')

	case c >= '0' && c <= '9':
		buf.WriteByte(c)
		return dec.copyString(buf, int64(c-'0'))

	case c == 'l' || c == 'd':
		buf.WriteByte(c)
		for {
			b, err := dec.r.ReadByte()
			if err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return err
			}
			if b == 'e' {
				buf.WriteByte(b)
				return nil
			}
			if err = dec.r.UnreadByte(); err != nil {
				return err
			}
			if err = dec.readValue(buf, depth+1); err != nil {
				return err
			}
		}

	default:
		return syntaxErrorf(buf.Len(), "invalid value tag %q", c)
	}
}

// copyString reads the rest of a byte string whose length prefix began
// with the given first digit: the remaining digits, the colon, and
// exactly the declared number of bytes. Nothing is preallocated from
// the declared length, so a huge but unsatisfiable prefix fails after
// reading only what the stream actually holds.
func (dec *Decoder) copyString(buf *bytes.Buffer, size int64) error {
	for {
		c, err := dec.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		buf.WriteByte(c)

		if c == ':' {
			break
		}
		if c < '0' || c > '9' {
			return syntaxErrorf(buf.Len()-1, "invalid string length digit %q", c)
		}
		if size > (1<<62)/10 {
			return syntaxErrorf(buf.Len()-1, "string length out of range")
		}
		size = size*10 + int64(c-'0')
	}

	if _, err := io.CopyN(buf, dec.r, size); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (dec *Decoder) copyUntil(buf *bytes.Buffer, end byte) error {
	for {
		c, err := dec.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		buf.WriteByte(c)
		if c == end {
			return nil
		}
	}
}

type decodeState struct {
	data []byte
	off  int
}

func (d *decodeState) decode(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("bencode: decode target must be a non-nil pointer, not %T", v)
	}
	return d.value(rv.Elem(), 0)
}

func (d *decodeState) value(rv reflect.Value, depth int) error {
	if depth > maxDepth {
		return syntaxErrorf(d.off, "nesting deeper than %d", maxDepth)
	}
	if d.off >= len(d.data) {
		return syntaxErrorf(d.off, "unexpected end of input")
	}

	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.CanAddr() {
		switch t := rv.Addr().Interface().(type) {
		case Unmarshaler:
			raw, err := d.raw(depth)
			if err != nil {
				return err
			}
			return t.UnmarshalBencode(raw)

		case *Value:
			raw, err := d.raw(depth)
			if err != nil {
				return err
			}
			v, err := DecodeValue(raw)
			if err != nil {
				return err
			}
			*t = v
			return nil
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return errors.Errorf("bencode: unsupported decode type: %s", rv.Type())
		}
		v, err := d.generic(depth)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))

	case reflect.Bool:
		text, err := d.integerText()
		if err != nil {
			return err
		}
		n, perr := strconv.ParseInt(text, 10, 64)
		if perr != nil {
			return syntaxErrorf(d.off, "invalid integer %q", text)
		}
		rv.SetBool(n != 0)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		text, err := d.integerText()
		if err != nil {
			return err
		}
		n, perr := strconv.ParseInt(text, 10, 64)
		if perr != nil || rv.OverflowInt(n) {
			return errors.Errorf("bencode: integer %q does not fit in %s", text, rv.Type())
		}
		rv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		text, err := d.integerText()
		if err != nil {
			return err
		}
		n, perr := strconv.ParseUint(text, 10, 64)
		if perr != nil || rv.OverflowUint(n) {
			return errors.Errorf("bencode: integer %q does not fit in %s", text, rv.Type())
		}
		rv.SetUint(n)

	case reflect.String:
		b, err := d.stringBytes()
		if err != nil {
			return err
		}
		rv.SetString(string(b))

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := d.stringBytes()
			if err != nil {
				return err
			}
			rv.SetBytes(append([]byte(nil), b...))
			return nil
		}
		return d.list(rv, depth)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := d.stringBytes()
			if err != nil {
				return err
			}
			if len(b) != rv.Len() {
				return errors.Errorf("bencode: cannot decode a %d-byte string into %s",
					len(b), rv.Type())
			}
			reflect.Copy(rv, reflect.ValueOf(b))
			return nil
		}
		return d.list(rv, depth)

	case reflect.Map:
		return d.dictMap(rv, depth)

	case reflect.Struct:
		return d.dictStruct(rv, depth)

	default:
		return errors.Errorf("bencode: unsupported decode type: %s", rv.Type())
	}

	return nil
}

// generic decodes one value into the form used for interface{}
// targets: int64 or *big.Int, string, []interface{} or
// map[string]interface{}.
func (d *decodeState) generic(depth int) (interface{}, error) {
	if depth > maxDepth {
		return nil, syntaxErrorf(d.off, "nesting deeper than %d", maxDepth)
	}
	if d.off >= len(d.data) {
		return nil, syntaxErrorf(d.off, "unexpected end of input")
	}

	switch c := d.data[d.off]; {
	case c == 'i':
		start := d.off
		text, err := d.integerText()
		if err != nil {
			return nil, err
		}
		if n, perr := strconv.ParseInt(text, 10, 64); perr == nil {
			return n, nil
		}
		if i, ok := new(big.Int).SetString(text, 10); ok {
			return i, nil
		}
		return nil, syntaxErrorf(start, "invalid integer %q", text)

	case c >= '0' && c <= '9':
		b, err := d.stringBytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case c == 'l':
		start := d.off
		d.off++
		list := []interface{}{}
		for {
			if d.off >= len(d.data) {
				return nil, syntaxErrorf(start, "unterminated list")
			}
			if d.data[d.off] == 'e' {
				d.off++
				return list, nil
			}
			e, err := d.generic(depth + 1)
			if err != nil {
				return nil, err
			}
			list = append(list, e)
		}

	case c == 'd':
		start := d.off
		d.off++
		dict := map[string]interface{}{}
		for {
			if d.off >= len(d.data) {
				return nil, syntaxErrorf(start, "unterminated dictionary")
			}
			if d.data[d.off] == 'e' {
				d.off++
				return dict, nil
			}
			key, err := d.stringBytes()
			if err != nil {
				return nil, err
			}
			val, err := d.generic(depth + 1)
			if err != nil {
				return nil, err
			}
			dict[string(key)] = val
		}

	default:
		return nil, syntaxErrorf(d.off, "invalid value tag %q", c)
	}
}

func (d *decodeState) list(rv reflect.Value, depth int) error {
	start := d.off
	if d.data[d.off] != 'l' {
		return syntaxErrorf(d.off, "expected a list, tag %q", d.data[d.off])
	}
	d.off++

	n, isArray := 0, rv.Kind() == reflect.Array
	out := rv
	if !isArray {
		out = reflect.Zero(rv.Type())
	}

	for {
		if d.off >= len(d.data) {
			return syntaxErrorf(start, "unterminated list")
		}
		if d.data[d.off] == 'e' {
			d.off++
			break
		}

		if isArray {
			if n >= rv.Len() {
				return errors.Errorf("bencode: too many elements for %s", rv.Type())
			}
			if err := d.value(rv.Index(n), depth+1); err != nil {
				return err
			}
		} else {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := d.value(elem, depth+1); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		n++
	}

	if isArray {
		zero := reflect.Zero(rv.Type().Elem())
		for ; n < rv.Len(); n++ {
			rv.Index(n).Set(zero)
		}
	} else {
		rv.Set(out)
	}
	return nil
}

func (d *decodeState) dictMap(rv reflect.Value, depth int) error {
	start := d.off
	if d.data[d.off] != 'd' {
		return syntaxErrorf(d.off, "expected a dictionary, tag %q", d.data[d.off])
	}
	d.off++

	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return errors.Errorf("bencode: map key type is not a string: %s", t)
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(t))
	}

	for {
		if d.off >= len(d.data) {
			return syntaxErrorf(start, "unterminated dictionary")
		}
		if d.data[d.off] == 'e' {
			d.off++
			return nil
		}

		key, err := d.stringBytes()
		if err != nil {
			return err
		}
		elem := reflect.New(t.Elem()).Elem()
		if err = d.value(elem, depth+1); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(string(key)).Convert(t.Key()), elem)
	}
}

func (d *decodeState) dictStruct(rv reflect.Value, depth int) error {
	start := d.off
	if d.data[d.off] != 'd' {
		return syntaxErrorf(d.off, "expected a dictionary, tag %q", d.data[d.off])
	}
	d.off++

	fields := structFields(rv.Type())
	byName := make(map[string]structField, len(fields))
	for _, f := range fields {
		byName[f.name] = f
	}

	for {
		if d.off >= len(d.data) {
			return syntaxErrorf(start, "unterminated dictionary")
		}
		if d.data[d.off] == 'e' {
			d.off++
			return nil
		}

		key, err := d.stringBytes()
		if err != nil {
			return err
		}

		if f, ok := byName[string(key)]; ok {
			err = d.value(rv.Field(f.index), depth+1)
		} else {
			err = d.skip(depth + 1)
		}
		if err != nil {
			return errors.Wrapf(err, "key %q", key)
		}
	}
}

// raw returns a copy of the verbatim bytes of the next value.
func (d *decodeState) raw(depth int) (b []byte, err error) {
	start := d.off
	if err = d.skip(depth); err == nil {
		b = append([]byte(nil), d.data[start:d.off]...)
	}
	return
}

// skip consumes one value without building anything from it.
func (d *decodeState) skip(depth int) error {
	if depth > maxDepth {
		return syntaxErrorf(d.off, "nesting deeper than %d", maxDepth)
	}
	if d.off >= len(d.data) {
		return syntaxErrorf(d.off, "unexpected end of input")
	}

	switch c := d.data[d.off]; {
	case c == 'i':
		_, err := d.integerText()
		return err

	case c >= '0' && c <= '9':
		_, err := d.stringBytes()
		return err

	case c == 'l':
		start := d.off
		d.off++
		for {
			if d.off >= len(d.data) {
				return syntaxErrorf(start, "unterminated list")
			}
			if d.data[d.off] == 'e' {
				d.off++
				return nil
			}
			if err := d.skip(depth + 1); err != nil {
				return err
			}
		}

	case c == 'd':
		start := d.off
		d.off++
		for {
			if d.off >= len(d.data) {
				return syntaxErrorf(start, "unterminated dictionary")
			}
			if d.data[d.off] == 'e' {
				d.off++
				return nil
			}
			if _, err := d.stringBytes(); err != nil {
				return err
			}
			if err := d.skip(depth + 1); err != nil {
				return err
			}
		}

	default:
		return syntaxErrorf(d.off, "invalid value tag %q", c)
	}
}

// integerText consumes an integer and returns its undecoded decimal
// body.
func (d *decodeState) integerText() (string, error) {
	if c := d.data[d.off]; c != 'i' {
		return "", syntaxErrorf(d.off, "expected an integer, tag %q", c)
	}
	end := bytes.IndexByte(d.data[d.off+1:], 'e')
	if end < 0 {
		return "", syntaxErrorf(d.off, "unterminated integer")
	}
	text := string(d.data[d.off+1 : d.off+1+end])
	d.off += end + 2
	return text, nil
}

// stringBytes consumes a byte string and returns its bytes, which
// alias the input buffer.
func (d *decodeState) stringBytes() ([]byte, error) {
	start := d.off
	if c := d.data[start]; c < '0' || c > '9' {
		return nil, syntaxErrorf(start, "expected a string, tag %q", c)
	}

	colon := bytes.IndexByte(d.data[start:], ':')
	if colon < 0 {
		return nil, syntaxErrorf(start, "no colon after string length")
	}

	size, perr := strconv.ParseInt(string(d.data[start:start+colon]), 10, 64)
	if perr != nil {
		return nil, syntaxErrorf(start, "invalid string length %q", d.data[start:start+colon])
	}

	d.off = start + colon + 1
	if size > int64(len(d.data)-d.off) {
		return nil, syntaxErrorf(start, "string length %d exceeds remaining %d bytes",
			size, len(d.data)-d.off)
	}

	b := d.data[d.off : d.off+int(size)]
	d.off += int(size)
	return b, nil
}
