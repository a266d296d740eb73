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

// Package bencode implements encoding and decoding of bencoded objects,
// which has a similar API to the encoding/json package and many other
// serialization formats.
//
// Bencode (BEP 3) knows four kinds of values: integers, byte strings,
// lists and dictionaries. The package exposes them at two levels:
//
// The value level is the Value type, a closed tagged union over the four
// kinds. EncodeValue produces the canonical encoding of a Value, that's,
// dictionary pairs sorted by key and minimal decimal forms, and
// DecodeValue/DecodeValuePrefix parse untrusted bytes back into a Value,
// preserving the dictionary pair order and the duplicate keys of the
// input.
//
// The reflection level mirrors encoding/json: EncodeBytes/DecodeBytes,
// Encoder/Decoder over io.Writer/io.Reader, the struct tag "bencode",
// the Marshaler/Unmarshaler interfaces and RawMessage. It is built on
// the same canonical rules, so a struct encodes to the identical bytes
// as the equivalent Value.
package bencode
