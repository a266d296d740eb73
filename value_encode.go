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
	"sort"
	"strconv"
)

// EncodeValue returns the canonical bencode encoding of v.
//
// The encoding is canonical, that's, deterministic for a given logical
// value regardless of how it was built: dictionary pairs are emitted in
// the ascending byte-lexicographic order of their keys, and integers
// and string lengths use the minimal decimal form. The canonical form
// is what makes bencoded values usable as content identifiers.
//
// EncodeValue never fails. Dictionary pairs whose key is not a byte
// string are dropped silently, since bencode cannot represent them,
// and the zero Value encodes to nothing.
func EncodeValue(v Value) []byte { return AppendValue(nil, v) }

// AppendValue appends the canonical bencode encoding of v to dst and
// returns the extended slice.
func AppendValue(dst []byte, v Value) []byte {
	switch v.kind {
	case Integer:
		dst = append(dst, 'i')
		if v.big != nil {
			dst = append(dst, v.big.String()...)
		} else {
			dst = strconv.AppendInt(dst, v.num, 10)
		}
		dst = append(dst, 'e')

	case String:
		dst = appendString(dst, v.str)

	case List:
		dst = append(dst, 'l')
		for _, e := range v.list {
			dst = AppendValue(dst, e)
		}
		dst = append(dst, 'e')

	case Dict:
		dst = append(dst, 'd')
		for _, p := range sortDictPairs(v.dict) {
			dst = appendString(dst, p.Key.str)
			dst = AppendValue(dst, p.Value)
		}
		dst = append(dst, 'e')
	}

	return dst
}

func appendString(dst, s []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, ':')
	return append(dst, s...)
}

// sortDictPairs returns the string-keyed pairs sorted ascending by the
// byte-lexicographic order of their keys. The sort is stable, so the
// duplicate keys keep their original relative order.
func sortDictPairs(pairs []Pair) []Pair {
	sorted := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Key.kind == String {
			sorted = append(sorted, p)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key.str, sorted[j].Key.str) < 0
	})
	return sorted
}
