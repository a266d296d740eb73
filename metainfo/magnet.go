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
	"fmt"
	"net/url"
	"strings"
)

const xtPrefix = "urn:btih:"

// Magnet is the components of a magnet link.
//
// BEP 9
type Magnet struct {
	InfoHash    Hash       // From "xt"
	DisplayName string     // From "dn"
	Trackers    []string   // From "tr"
	Params      url.Values // All the other parameters, such as "as", "xs", etc.
}

func (m Magnet) String() string {
	vs := make(url.Values, len(m.Params)+len(m.Trackers)+1)
	for k, v := range m.Params {
		vs[k] = append([]string(nil), v...)
	}
	for _, tr := range m.Trackers {
		vs.Add("tr", tr)
	}
	if m.DisplayName != "" {
		vs.Add("dn", m.DisplayName)
	}

	// The clients expect "urn:btih:" unescaped and at the start of
	// the link, so the xt parameter is not url-encoded.
	u := url.URL{
		Scheme:   "magnet",
		RawQuery: "xt=" + xtPrefix + m.InfoHash.Hex(),
	}
	if len(vs) != 0 {
		u.RawQuery += "&" + vs.Encode()
	}
	return u.String()
}

// ParseMagnet parses a magnet link into a Magnet.
func ParseMagnet(uri string) (m Magnet, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return m, fmt.Errorf("metainfo: invalid magnet uri: %s", err)
	} else if u.Scheme != "magnet" {
		return m, fmt.Errorf("metainfo: unexpected scheme %q", u.Scheme)
	}

	q := u.Query()
	xt := q.Get("xt")
	if !strings.HasPrefix(xt, xtPrefix) {
		return m, fmt.Errorf("metainfo: bad xt parameter %q", xt)
	}
	if m.InfoHash, err = ParseHash(xt[len(xtPrefix):]); err != nil {
		return m, fmt.Errorf("metainfo: bad xt parameter %q: %s", xt, err)
	}

	m.DisplayName = q.Get("dn")
	m.Trackers = q["tr"]

	q.Del("xt")
	q.Del("dn")
	q.Del("tr")
	if len(q) != 0 {
		m.Params = q
	}
	return
}
