// Copyright 2025 Scott Friedman
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

package cycleserver

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// PoolIDAttr is the attribute that names a pool in the targets listing.
const PoolIDAttr = "poolId"

// Pool is a target pool advertised by the server.
type Pool struct {
	// ID is the value of the poolId attribute
	ID string `json:"id" yaml:"id"`
	// Element is the tag name of the listing entry
	Element string `json:"element" yaml:"element"`
	// Attributes holds the remaining attributes of the entry
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type poolListing struct {
	XMLName xml.Name
	Entries []poolEntry `xml:",any"`
}

type poolEntry struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
}

// ListPools fetches the targets listing and returns its pools in document order.
func (c *Client) ListPools(ctx context.Context, creds Credentials) ([]Pool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+targetsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build targets request: %w", err)
	}
	creds.apply(req)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return ParsePools(body)
}

// ResolvePool returns the id of the first pool the server lists.
//
// When several pools are available the first one is used; callers that need
// to choose should use ListPools.
func (c *Client) ResolvePool(ctx context.Context, creds Credentials) (string, error) {
	pools, err := c.ListPools(ctx, creds)
	if err != nil {
		return "", err
	}
	if len(pools) == 0 {
		return "", ErrNoPools
	}
	if len(pools) > 1 {
		c.Logger.WithField("count", len(pools)).Debugf("multiple pools available, using %s", pools[0].ID)
	}
	return pools[0].ID, nil
}

// ParsePools parses a targets document. Every child of the root element
// with a non-empty, unprefixed poolId attribute is a pool; other children
// are skipped. Documents may declare any encoding the charset package knows.
func ParsePools(data []byte) ([]Pool, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var listing poolListing
	if err := dec.Decode(&listing); err != nil {
		return nil, &PoolListingError{Err: err}
	}
	if err := expectEOF(dec); err != nil {
		return nil, &PoolListingError{Err: err}
	}

	pools := []Pool{}
	for _, entry := range listing.Entries {
		pool := Pool{Element: entry.XMLName.Local}
		for _, attr := range entry.Attrs {
			if attr.Name.Space == "" && attr.Name.Local == PoolIDAttr {
				pool.ID = attr.Value
				continue
			}
			if pool.Attributes == nil {
				pool.Attributes = make(map[string]string)
			}
			pool.Attributes[attr.Name.Local] = attr.Value
		}
		if pool.ID == "" {
			continue
		}
		pools = append(pools, pool)
	}

	return pools, nil
}

// expectEOF rejects anything but whitespace, comments, and processing
// instructions after the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after document root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text after document root")
			}
		}
	}
}
