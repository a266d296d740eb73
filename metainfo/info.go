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

// Info is the "info" dictionary of a torrent.
type Info struct {
	// Name is the filename in the single-file case, or the name of
	// the root directory in the multi-file case.
	Name string `bencode:"name"` // BEP 3

	// PieceLength is the number of bytes in each piece, usually
	// a power of two.
	PieceLength int64 `bencode:"piece length"` // BEP 3

	// Pieces is one 20-byte SHA-1 hash per piece of the concatenated
	// torrent data.
	Pieces Hashes `bencode:"pieces"` // BEP 3

	// Length is the length of the file in bytes in the single-file
	// case. It is mutually exclusive with Files.
	Length int64 `bencode:"length,omitempty"` // BEP 3

	// Files lists all the files in the multi-file case, in the order
	// they are concatenated for the purposes of the piece hashes.
	// It is mutually exclusive with Length.
	Files []File `bencode:"files,omitempty"` // BEP 3
}

// IsDir reports whether the torrent is a directory, that's, the
// multi-file case.
func (info Info) IsDir() bool { return len(info.Files) != 0 }

// CountPieces returns the number of the pieces.
func (info Info) CountPieces() int { return len(info.Pieces) }

// TotalLength returns the total length of the torrent data.
func (info Info) TotalLength() (n int64) {
	if !info.IsDir() {
		return info.Length
	}
	for _, f := range info.Files {
		n += f.Length
	}
	return
}

// AllFiles returns all the files of the torrent. For a single file it
// returns the one pseudo file spanning the whole data.
func (info Info) AllFiles() []File {
	if info.IsDir() {
		return info.Files
	}
	return []File{{Length: info.Length}}
}

// FileByOffset returns the file containing the data at the given
// offset of the concatenated torrent data, and the offset of that
// data within the file.
func (info Info) FileByOffset(offset int64) (file File, fileOffset int64) {
	fileOffset = offset
	for _, file = range info.AllFiles() {
		if fileOffset < file.Length {
			return
		}
		fileOffset -= file.Length
	}
	fileOffset += file.Length
	return
}
