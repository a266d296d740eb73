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
	"math/big"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDecodeBytesPrimitives(t *testing.T) {
	var i int
	require.NoError(t, DecodeString("i-10e", &i))
	require.Equal(t, -10, i)

	var u uint16
	require.NoError(t, DecodeString("i65535e", &u))
	require.Equal(t, uint16(65535), u)

	var b bool
	require.NoError(t, DecodeString("i1e", &b))
	require.True(t, b)

	var s string
	require.NoError(t, DecodeString("4:word", &s))
	require.Equal(t, "word", s)

	var bs []byte
	require.NoError(t, DecodeString("2:\xca\xfe", &bs))
	require.Equal(t, []byte{0xca, 0xfe}, bs)

	var a [2]byte
	require.NoError(t, DecodeString("2:hi", &a))
	require.Equal(t, [2]byte{'h', 'i'}, a)

	var ns []int
	require.NoError(t, DecodeString("li1ei2ei3ee", &ns))
	require.Equal(t, []int{1, 2, 3}, ns)

	var m map[string]string
	require.NoError(t, DecodeString("d1:a1:11:b1:2e", &m))
	require.Equal(t, map[string]string{"a": "1", "b": "2"}, m)

	var v Value
	require.NoError(t, DecodeString("li1e1:ae", &v))
	require.True(t, v.Equal(NewList(NewInteger(1), NewString("a"))))
}

func TestDecodeBytesErrors(t *testing.T) {
	var i int
	require.Error(t, DecodeString("4:word", &i))
	require.Error(t, DecodeString("i99999999999999999999e", &i))

	var i8 int8
	require.Error(t, DecodeString("i1000e", &i8))

	var u uint8
	require.Error(t, DecodeString("i-1e", &u))

	var s string
	require.Error(t, DecodeString("i1e", &s))
	require.Error(t, DecodeString("", &s))
	require.Error(t, DecodeString("4:word", nil))
	require.Error(t, DecodeString("4:word", s))

	// Strict: the whole input must be consumed.
	err := DecodeString("i1ei2e", &i)
	require.Error(t, err)
	require.Equal(t, ErrTrailingData, errors.Cause(err))
}

func TestDecodeStruct(t *testing.T) {
	var fi fileInfo
	err := DecodeString("d6:lengthi42e4:name5:a.txt4:tagsl1:x1:yee", &fi)
	require.NoError(t, err)
	require.Equal(t, "a.txt", fi.Name)
	require.Equal(t, int64(42), fi.Length)
	require.Equal(t, []string{"x", "y"}, fi.Tags)

	// Unknown keys are skipped structurally, whatever their shape.
	fi = fileInfo{}
	err = DecodeString("d3:agei30e5:junksld2:xyi1eee4:name3:bobe", &fi)
	require.NoError(t, err)
	require.Equal(t, "bob", fi.Name)
}

func TestDecodeInterface(t *testing.T) {
	var v interface{}
	require.NoError(t, DecodeString("d4:listli1ei2ee4:name4:word5:counti3ee", &v))

	dict, ok := v.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "word", dict["name"])
	require.Equal(t, int64(3), dict["count"])
	require.Equal(t, []interface{}{int64(1), int64(2)}, dict["list"])

	require.NoError(t, DecodeString("i92233720368547758089e", &v))
	i, ok := v.(*big.Int)
	require.True(t, ok)
	require.Equal(t, "92233720368547758089", i.String())

	require.NoError(t, DecodeString("le", &v))
	require.Equal(t, []interface{}{}, v)
}

func TestDecodeRawMessage(t *testing.T) {
	// The raw bytes are preserved verbatim, non-canonical key order
	// included, so re-encoding keeps the wire bytes stable.
	type wrapper struct {
		Info RawMessage `bencode:"info"`
		Name string     `bencode:"name,omitempty"`
	}

	input := "d4:infod1:bi2e1:ai1eee"
	var w wrapper
	require.NoError(t, DecodeString(input, &w))
	require.Equal(t, "d1:bi2e1:ai1ee", string(w.Info))

	b, err := EncodeBytes(w)
	require.NoError(t, err)
	require.Equal(t, input, string(b))
}

type upperString string

func (s *upperString) UnmarshalBencode(b []byte) error {
	var raw string
	if err := DecodeBytes(b, &raw); err != nil {
		return err
	}
	*s = upperString(strings.ToUpper(raw))
	return nil
}

func (s upperString) MarshalBencode() ([]byte, error) {
	return EncodeBytes(strings.ToLower(string(s)))
}

func TestMarshalerRoundTrip(t *testing.T) {
	b, err := EncodeBytes(upperString("WORD"))
	require.NoError(t, err)
	require.Equal(t, "4:word", string(b))

	var s upperString
	require.NoError(t, DecodeBytes(b, &s))
	require.Equal(t, upperString("WORD"), s)
}

func TestDecoder(t *testing.T) {
	r := bytes.NewReader([]byte("d1:ai1eeli2ee4:worditrailing"))
	dec := NewDecoder(r)

	var m map[string]int
	require.NoError(t, dec.Decode(&m))
	require.Equal(t, map[string]int{"a": 1}, m)

	var l []int
	require.NoError(t, dec.Decode(&l))
	require.Equal(t, []int{2}, l)

	var s string
	require.NoError(t, dec.Decode(&s))
	require.Equal(t, "word", s)

	// The decoder consumed nothing beyond the last value.
	var v interface{}
	err := dec.Decode(&v)
	require.Error(t, err)
}

func TestDecoderEOF(t *testing.T) {
	var v interface{}

	err := NewDecoder(bytes.NewReader(nil)).Decode(&v)
	require.Equal(t, io.EOF, err)

	for _, input := range []string{"i42", "5:wor", "l", "li1e", "d1:a"} {
		err = NewDecoder(strings.NewReader(input)).Decode(&v)
		require.Equal(t, io.ErrUnexpectedEOF, err, input)
	}
}

func TestDecoderDoesNotPreallocate(t *testing.T) {
	// A syntactically huge length that the stream cannot satisfy must
	// fail after reading what is actually there.
	err := NewDecoder(strings.NewReader("1000000000000:a")).Decode(new(string))
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestDecodeNestingLimit(t *testing.T) {
	deep := strings.Repeat("l", maxDepth+2)

	var v interface{}
	require.Error(t, DecodeString(deep, &v))
	require.Error(t, NewDecoder(strings.NewReader(deep)).Decode(&v))
}
