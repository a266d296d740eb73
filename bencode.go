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
	"reflect"

	"github.com/pkg/errors"
)

// Marshaler is implemented by the types that can encode themselves
// to a complete bencoded value.
type Marshaler interface {
	MarshalBencode() ([]byte, error)
}

// Unmarshaler is implemented by the types that can decode themselves
// from the verbatim bytes of a complete bencoded value.
type Unmarshaler interface {
	UnmarshalBencode([]byte) error
}

// RawMessage is the verbatim bytes of a complete bencoded value.
//
// It is kept byte-identical through decoding and re-encoding, which is
// what the info-hash computation over a torrent "info" dictionary
// relies on: the hash covers the bytes as they appeared on the wire,
// not a re-canonicalized form.
type RawMessage []byte

var (
	_ Marshaler   = RawMessage{}
	_ Unmarshaler = &RawMessage{}
)

// MarshalBencode implements the interface Marshaler.
func (m RawMessage) MarshalBencode() ([]byte, error) {
	if len(m) == 0 {
		return nil, errors.New("bencode: cannot marshal an empty RawMessage")
	}
	return m, nil
}

// UnmarshalBencode implements the interface Unmarshaler.
func (m *RawMessage) UnmarshalBencode(b []byte) error {
	*m = append((*m)[:0], b...)
	return nil
}

// EncodeBytes encodes v to the bencoded bytes.
//
// See Encoder.Encode for the supported types and the encoding rules.
func EncodeBytes(v interface{}) (b []byte, err error) {
	buf := new(bytes.Buffer)
	if err = marshal(buf, reflect.ValueOf(v)); err == nil {
		b = buf.Bytes()
	}
	return
}

// EncodeString is the same as EncodeBytes, but returns a string.
func EncodeString(v interface{}) (s string, err error) {
	b, err := EncodeBytes(v)
	if err == nil {
		s = string(b)
	}
	return
}

// DecodeBytes decodes the bencoded bytes b into the value pointed to
// by v, which must be a non-nil pointer.
//
// DecodeBytes is strict: b must hold exactly one value, and any bytes
// remaining after it fail the decode with an error whose cause is
// ErrTrailingData.
func DecodeBytes(b []byte, v interface{}) error {
	d := decodeState{data: b}
	if err := d.decode(v); err != nil {
		return err
	}
	if d.off != len(b) {
		return errors.Wrapf(ErrTrailingData,
			"%d bytes at offset %d", len(b)-d.off, d.off)
	}
	return nil
}

// DecodeString is the same as DecodeBytes, but decodes a string.
func DecodeString(s string, v interface{}) error {
	return DecodeBytes([]byte(s), v)
}
