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

// Package metainfo models the .torrent metainfo file on top of the
// bencode codec.
package metainfo

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/xgfone/bencode"
)

// Bytes is the verbatim bytes of a bencoded value.
type Bytes = bencode.RawMessage

// AnnounceList is the tiered list of the announce urls.
//
// BEP 12
type AnnounceList [][]string

// Unique returns the announce urls deduplicated across the tiers,
// in their first-seen order.
func (al AnnounceList) Unique() (announces []string) {
	announces = make([]string, 0, len(al))
	for _, tier := range al {
		for _, url := range tier {
			if url != "" && !containsString(announces, url) {
				announces = append(announces, url)
			}
		}
	}
	return
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// URLList is the list of the web seed urls.
//
// BEP 19
type URLList []string

// FullURL returns the index-th url completed with the file name:
// a url ending in "/" is a base to which the name is appended.
//
// For the single-file case, name is the "name" of "info". For the
// multi-file case, it is the "name/path/file" path joined from "info"
// and "files".
func (us URLList) FullURL(index int, name string) (url string) {
	if url = us[index]; strings.HasSuffix(url, "/") {
		url += name
	}
	return
}

// MarshalBencode implements the interface bencode.Marshaler.
func (us URLList) MarshalBencode() ([]byte, error) {
	return bencode.EncodeBytes([]string(us))
}

// UnmarshalBencode implements the interface bencode.Unmarshaler.
//
// The "url-list" key is encoded either as a single string or as
// a list of strings in the wild, and both forms are accepted.
func (us *URLList) UnmarshalBencode(b []byte) (err error) {
	var v interface{}
	if err = bencode.DecodeBytes(b, &v); err != nil {
		return
	}

	switch vs := v.(type) {
	case string:
		*us = URLList{vs}
	case []interface{}:
		urls := make(URLList, len(vs))
		for i, u := range vs {
			s, ok := u.(string)
			if !ok {
				return errors.New("metainfo: the element of 'url-list' is not a string")
			}
			urls[i] = s
		}
		*us = urls
	default:
		return errors.New("metainfo: invalid 'url-list'")
	}
	return
}

// MetaInfo represents the .torrent file.
type MetaInfo struct {
	// InfoBytes is the verbatim bencoded "info" dictionary, kept raw
	// so that the info hash covers the bytes as they appeared in the
	// file.
	InfoBytes    Bytes        `bencode:"info"`                    // BEP 3
	Announce     string       `bencode:"announce,omitempty"`      // BEP 3
	AnnounceList AnnounceList `bencode:"announce-list,omitempty"` // BEP 12
	URLList      URLList      `bencode:"url-list,omitempty"`      // BEP 19

	// CreationDate is the creation time of the torrent, in seconds
	// since the UNIX epoch.
	CreationDate int64 `bencode:"creation date,omitempty"`
	// Comment is the free-form comment of the author.
	Comment string `bencode:"comment,omitempty"`
	// CreatedBy is the name and version of the program that created
	// the .torrent.
	CreatedBy string `bencode:"created by,omitempty"`
	// Encoding is the string encoding used for the pieces part of
	// the info dictionary.
	Encoding string `bencode:"encoding,omitempty"`
}

// Load loads a MetaInfo from an io.Reader.
func Load(r io.Reader) (mi MetaInfo, err error) {
	err = bencode.NewDecoder(r).Decode(&mi)
	return
}

// LoadFromFile loads a MetaInfo from a file.
func LoadFromFile(filename string) (mi MetaInfo, err error) {
	f, err := os.Open(filename)
	if err == nil {
		defer f.Close()
		mi, err = Load(f)
	}
	return
}

// Write encodes the metainfo to w.
func (mi MetaInfo) Write(w io.Writer) error {
	return bencode.NewEncoder(w).Encode(mi)
}

// InfoHash returns the hash of the verbatim info bytes.
func (mi MetaInfo) InfoHash() Hash {
	return HashBytes(mi.InfoBytes)
}

// Info parses the info bytes to an Info.
func (mi MetaInfo) Info() (info Info, err error) {
	err = bencode.DecodeBytes(mi.InfoBytes, &info)
	return
}

// SetInfo encodes info and replaces the verbatim info bytes with the
// canonical encoding, which fixes the info hash of the torrent.
func (mi *MetaInfo) SetInfo(info Info) (err error) {
	b, err := bencode.EncodeBytes(info)
	if err == nil {
		mi.InfoBytes = b
	}
	return
}

// Announces returns all the announces: the tiered list if present,
// or the single announce as a one-tier list.
func (mi MetaInfo) Announces() AnnounceList {
	if len(mi.AnnounceList) > 0 {
		return mi.AnnounceList
	} else if mi.Announce != "" {
		return AnnounceList{{mi.Announce}}
	}
	return nil
}

// Magnet creates a magnet link from the metainfo.
//
// If displayName or infoHash is empty, it is taken from the info
// part.
func (mi MetaInfo) Magnet(displayName string, infoHash Hash) (m Magnet) {
	m.Trackers = mi.Announces().Unique()

	if displayName == "" {
		info, _ := mi.Info()
		displayName = info.Name
	}
	if infoHash.IsZero() {
		infoHash = mi.InfoHash()
	}

	m.DisplayName = displayName
	m.InfoHash = infoHash
	return
}
