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
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var valueType = reflect.TypeOf(Value{})

// Encoder writes the bencoded values to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the bencoded encoding of v to the underlying writer.
//
// The supported types and their encodings are:
//
//   - Value: its canonical encoding, see EncodeValue.
//   - A type implementing Marshaler: the bytes it returns.
//   - Bools: the integers 1 and 0.
//   - Signed and unsigned integers: bencode integers.
//   - Strings, []byte and byte arrays: bencode byte strings.
//   - Other slices and arrays: bencode lists.
//   - Maps with a string key type and structs: bencode dictionaries,
//     with the keys emitted in the sorted order, so the output is
//     canonical.
//
// A struct field is named by its "bencode" tag if present, or by the
// field name. The tag option "omitempty" skips the field when it has
// an empty value, and the tag "-" skips it always.
//
// Floats, complexes, channels, funcs and nil pointers cannot be
// represented in bencode and fail the encode.
func (enc *Encoder) Encode(v interface{}) (err error) {
	b, err := EncodeBytes(v)
	if err == nil {
		_, err = enc.w.Write(b)
	}
	return
}

func marshal(buf *bytes.Buffer, rv reflect.Value) error {
	if !rv.IsValid() {
		return errors.New("bencode: cannot encode a nil interface value")
	}

	if rv.Type() == valueType {
		buf.Write(EncodeValue(rv.Interface().(Value)))
		return nil
	}

	if m, ok := rv.Interface().(Marshaler); ok {
		return marshalMarshaler(buf, m)
	}
	if rv.CanAddr() {
		if m, ok := rv.Addr().Interface().(Marshaler); ok {
			return marshalMarshaler(buf, m)
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			buf.WriteString("i1e")
		} else {
			buf.WriteString("i0e")
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(rv.Int(), 10))
		buf.WriteByte('e')

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatUint(rv.Uint(), 10))
		buf.WriteByte('e')

	case reflect.String:
		marshalStringBytes(buf, []byte(rv.String()))

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			bs := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(bs), rv)
			marshalStringBytes(buf, bs)
			return nil
		}

		buf.WriteByte('l')
		for i, _len := 0, rv.Len(); i < _len; i++ {
			if err := marshal(buf, rv.Index(i)); err != nil {
				return err
			}
		}
		buf.WriteByte('e')

	case reflect.Map:
		return marshalMap(buf, rv)

	case reflect.Struct:
		return marshalStruct(buf, rv)

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return errors.Errorf("bencode: cannot encode a nil %s", rv.Kind())
		}
		return marshal(buf, rv.Elem())

	default:
		return errors.Errorf("bencode: unsupported type: %s", rv.Type())
	}

	return nil
}

func marshalMarshaler(buf *bytes.Buffer, m Marshaler) error {
	b, err := m.MarshalBencode()
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func marshalStringBytes(buf *bytes.Buffer, s []byte) {
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteByte(':')
	buf.Write(s)
}

func marshalMap(buf *bytes.Buffer, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return errors.Errorf("bencode: map key type is not a string: %s", rv.Type())
	}

	rkeys := rv.MapKeys()
	keys := make([]string, len(rkeys))
	for i, rk := range rkeys {
		keys[i] = rk.String()
	}
	sort.Strings(keys)

	buf.WriteByte('d')
	for _, key := range keys {
		marshalStringBytes(buf, []byte(key))
		elem := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if err := marshal(buf, elem); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

func marshalStruct(buf *bytes.Buffer, rv reflect.Value) error {
	buf.WriteByte('d')
	for _, f := range structFields(rv.Type()) {
		fv := rv.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}

		marshalStringBytes(buf, []byte(f.name))
		if err := marshal(buf, fv); err != nil {
			return errors.Wrapf(err, "field %q", f.name)
		}
	}
	buf.WriteByte('e')
	return nil
}

type structField struct {
	index     int
	name      string
	omitEmpty bool
}

// structFields returns the encodable fields of the struct type t in
// the ascending order of their encoded names, which keeps the emitted
// dictionary canonical.
func structFields(t reflect.Type) (fields []structField) {
	fields = make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}

		name, opts := parseTag(sf.Tag.Get("bencode"))
		if name == "-" {
			continue
		} else if name == "" {
			name = sf.Name
		}

		fields = append(fields, structField{
			index:     i,
			name:      name,
			omitEmpty: opts == "omitempty",
		})
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })
	return
}

func parseTag(tag string) (name, opts string) {
	if i := strings.IndexByte(tag, ','); i >= 0 {
		return tag[:i], tag[i+1:]
	}
	return tag, ""
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Interface, reflect.Ptr:
		return rv.IsNil()
	}
	return false
}
