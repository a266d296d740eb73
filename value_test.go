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
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	require.Equal(t, Invalid, Value{}.Kind())
	require.Equal(t, Integer, NewInteger(-3).Kind())
	require.Equal(t, String, NewString("").Kind())
	require.Equal(t, String, NewBytes([]byte{0, 1}).Kind())
	require.Equal(t, List, NewList().Kind())
	require.Equal(t, Dict, NewDict().Kind())

	require.Equal(t, "integer", Integer.String())
	require.Equal(t, "invalid", Invalid.String())
}

func TestValueAccessors(t *testing.T) {
	i, ok := NewInteger(42).Int64()
	require.True(t, ok)
	require.Equal(t, int64(42), i)
	require.Equal(t, "42", NewInteger(42).BigInt().String())

	_, ok = NewString("42").Int64()
	require.False(t, ok)
	require.Nil(t, NewString("42").BigInt())

	require.Equal(t, []byte("word"), NewString("word").Bytes())
	require.Equal(t, "word", NewBytes([]byte("word")).Text())
	require.Equal(t, []byte{}, NewString("").Bytes())
	require.Nil(t, NewInteger(0).Bytes())

	require.Len(t, NewList(NewInteger(1), NewInteger(2)).List(), 2)
	require.Nil(t, NewDict().List())
	require.Len(t, NewDict(Pair{NewString("k"), NewInteger(1)}).Dict(), 1)
	require.Nil(t, NewList().Dict())

	require.Equal(t, 4, NewString("word").Len())
	require.Equal(t, 2, NewList(NewInteger(1), NewInteger(2)).Len())
	require.Equal(t, 0, NewInteger(7).Len())
}

func TestValueBigInteger(t *testing.T) {
	huge, ok := new(big.Int).SetString("92233720368547758089", 10)
	require.True(t, ok)

	v := NewBigInteger(huge)
	_, fits := v.Int64()
	require.False(t, fits)
	require.Equal(t, "92233720368547758089", v.BigInt().String())

	// A big.Int that fits in an int64 is normalized to the small form.
	small := NewBigInteger(big.NewInt(7))
	i, fits := small.Int64()
	require.True(t, fits)
	require.Equal(t, int64(7), i)
	require.True(t, small.Equal(NewInteger(7)))

	require.True(t, NewBigInteger(nil).Equal(NewInteger(0)))
}

func TestValueEqual(t *testing.T) {
	nested := func() Value {
		return NewList(
			NewInteger(420),
			NewString("string"),
			NewList(),
			NewDict(Pair{NewString("a"), NewList()}),
		)
	}

	require.True(t, nested().Equal(nested()))
	require.True(t, Value{}.Equal(Value{}))
	require.False(t, NewInteger(1).Equal(NewInteger(2)))
	require.False(t, NewInteger(1).Equal(NewString("1")))
	require.False(t, NewString("a").Equal(NewString("b")))

	// Order is significant for lists and dictionaries.
	require.False(t, NewList(NewInteger(1), NewInteger(2)).
		Equal(NewList(NewInteger(2), NewInteger(1))))
	require.False(t,
		NewDict(
			Pair{NewString("a"), NewInteger(1)},
			Pair{NewString("b"), NewInteger(2)},
		).Equal(NewDict(
			Pair{NewString("b"), NewInteger(2)},
			Pair{NewString("a"), NewInteger(1)},
		)))

	// Once empty, a list and a dictionary are indistinguishable.
	require.True(t, NewList().Equal(NewDict()))
	require.True(t, NewDict().Equal(NewList()))
	require.False(t, NewList(NewInteger(1)).Equal(NewDict()))
	require.False(t, NewList().Equal(Value{}))
}
