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
	"fmt"

	"github.com/pkg/errors"
)

// ErrTrailingData is the cause of the error returned by the strict
// decode functions when one complete value was parsed but bytes remain
// in the input. Use errors.Cause to test for it.
var ErrTrailingData = errors.New("bencode: trailing data after value")

// SyntaxError is the error returned for a malformed bencode input,
// that's, an input that no well-formed value could have produced: an
// unknown value tag, a missing separator or terminator, a string
// length exceeding the remaining input, or an unparseable integer.
//
// Offset is the position of the offending token in the input, counted
// in bytes from the start of the buffer passed to the decoder.
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Msg, e.Offset)
}

func syntaxErrorf(offset int, format string, args ...interface{}) error {
	return &SyntaxError{Offset: int64(offset), Msg: fmt.Sprintf(format, args...)}
}
