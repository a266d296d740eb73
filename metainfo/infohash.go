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

package metainfo

import (
	"crypto/sha1"
	"encoding/base32"
	"encoding/hex"
	"fmt"

	"github.com/xgfone/bencode"
)

// HashSize is the size of the SHA-1 info hash in bytes.
const HashSize = 20

var zeroHash Hash

// Hash is the 20-byte SHA-1 hash used for the info dictionary and
// the pieces.
type Hash [HashSize]byte

// HashBytes computes the hash of the bytes b, which are usually the
// verbatim bencoded "info" dictionary.
func HashBytes(b []byte) (h Hash) {
	sum := sha1.Sum(b)
	copy(h[:], sum[:])
	return
}

// ParseHash parses a hash from its 20-byte raw, 40-char hex or
// 32-char base32 string form.
func ParseHash(s string) (h Hash, err error) {
	switch len(s) {
	case HashSize:
		copy(h[:], s)

	case 2 * HashSize:
		_, err = hex.Decode(h[:], []byte(s))

	case 32:
		var b []byte
		if b, err = base32.StdEncoding.DecodeString(s); err == nil {
			copy(h[:], b)
		}

	default:
		err = fmt.Errorf("metainfo: hash string has bad length %d", len(s))
	}
	return
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hex string form of the hash.
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

// String is equal to Hex.
func (h Hash) String() string { return h.Hex() }

// IsZero reports whether the whole hash is zero.
func (h Hash) IsZero() bool { return h == zeroHash }

// MarshalBencode implements the interface bencode.Marshaler.
func (h Hash) MarshalBencode() ([]byte, error) {
	return bencode.EncodeBytes(h[:])
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (h *Hash) UnmarshalBencode(b []byte) (err error) {
	var s string
	if err = bencode.DecodeBytes(b, &s); err == nil {
		*h, err = ParseHash(s)
	}
	return
}

// Hashes is the list of the piece hashes, bencoded as the 20-byte
// concatenation of all the hashes in order.
type Hashes []Hash

// Contains reports whether hs contains h.
func (hs Hashes) Contains(h Hash) bool {
	for _, v := range hs {
		if v == h {
			return true
		}
	}
	return false
}

// MarshalBencode implements the interface bencode.Marshaler.
func (hs Hashes) MarshalBencode() ([]byte, error) {
	b := make([]byte, 0, len(hs)*HashSize)
	for _, h := range hs {
		b = append(b, h[:]...)
	}
	return bencode.EncodeBytes(b)
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
func (hs *Hashes) UnmarshalBencode(b []byte) (err error) {
	var s []byte
	if err = bencode.DecodeBytes(b, &s); err != nil {
		return
	}
	if len(s)%HashSize != 0 {
		return fmt.Errorf("metainfo: pieces length %d is not a multiple of %d",
			len(s), HashSize)
	}

	hashes := make(Hashes, 0, len(s)/HashSize)
	for i := 0; i < len(s); i += HashSize {
		var h Hash
		copy(h[:], s[i:i+HashSize])
		hashes = append(hashes, h)
	}

	*hs = hashes
	return
}
