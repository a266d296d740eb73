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
	"net/url"
	"strings"
	"testing"
)

func TestMagnet(t *testing.T) {
	h := HashBytes([]byte("abc"))
	m := Magnet{
		InfoHash:    h,
		DisplayName: "file name",
		Trackers:    []string{"http://a/announce", "udp://b:80"},
		Params:      url.Values{"x.pe": {"1.2.3.4:5678"}},
	}

	s := m.String()
	if !strings.HasPrefix(s, "magnet:?xt=urn:btih:"+h.Hex()) {
		t.Errorf("invalid magnet uri '%s'", s)
	}

	m2, err := ParseMagnet(s)
	if err != nil {
		t.Fatal(err)
	}
	if m2.InfoHash != h {
		t.Errorf("expect info hash '%s', but got '%s'", h, m2.InfoHash)
	}
	if m2.DisplayName != m.DisplayName {
		t.Errorf("expect display name '%s', but got '%s'",
			m.DisplayName, m2.DisplayName)
	}
	if len(m2.Trackers) != 2 || m2.Trackers[0] != m.Trackers[0] ||
		m2.Trackers[1] != m.Trackers[1] {
		t.Errorf("invalid trackers %v", m2.Trackers)
	}
	if m2.Params.Get("x.pe") != "1.2.3.4:5678" {
		t.Errorf("invalid params %v", m2.Params)
	}
}

func TestParseMagnetError(t *testing.T) {
	for _, uri := range []string{
		"http://example.org/file.torrent",
		"magnet:?dn=name",
		"magnet:?xt=urn:btih:tooshort",
	} {
		if _, err := ParseMagnet(uri); err == nil {
			t.Errorf("expect an error for '%s', but got nil", uri)
		}
	}
}

func TestMetaInfoMagnet(t *testing.T) {
	var mi MetaInfo
	mi.Announce = "http://a/announce"
	if err := mi.SetInfo(testInfo()); err != nil {
		t.Fatal(err)
	}

	m := mi.Magnet("", Hash{})
	if m.DisplayName != "test" {
		t.Errorf("expect display name '%s', but got '%s'", "test", m.DisplayName)
	}
	if m.InfoHash != mi.InfoHash() {
		t.Errorf("expect info hash '%s', but got '%s'", mi.InfoHash(), m.InfoHash)
	}
	if len(m.Trackers) != 1 || m.Trackers[0] != mi.Announce {
		t.Errorf("invalid trackers %v", m.Trackers)
	}
}
