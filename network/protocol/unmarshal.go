/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package protocol

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "'")
	s = strings.Trim(s, `"`)
	return s
}

// UnmarshalJSON accepts a quoted protocol string. Unknown or empty input
// decodes to NetworkEmpty rather than failing.
func (p *NetworkProtocol) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		*p = NetworkEmpty
		return nil
	}

	*p = lookup(strings.ToLower(unquote(string(data))))
	return nil
}

// UnmarshalYAML accepts the scalar's raw value, unquoted by the YAML
// decoder already.
func (p *NetworkProtocol) UnmarshalYAML(value *yaml.Node) error {
	*p = lookup(strings.ToLower(unquote(value.Value)))
	return nil
}

// UnmarshalTOML accepts a string or []byte value. Any other type is
// rejected: TOML decoders hand us the raw scalar, and anything else means
// the table shape is wrong.
func (p *NetworkProtocol) UnmarshalTOML(v interface{}) error {
	switch t := v.(type) {
	case []byte:
		*p = lookup(strings.ToLower(unquote(string(t))))
		return nil
	case string:
		*p = lookup(strings.ToLower(unquote(t)))
		return nil
	default:
		return fmt.Errorf("value %v is not in valid format for network protocol", v)
	}
}

// UnmarshalText accepts a bare or quoted protocol string.
func (p *NetworkProtocol) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*p = NetworkEmpty
		return nil
	}

	*p = lookup(strings.ToLower(unquote(string(data))))
	return nil
}

// UnmarshalCBOR mirrors UnmarshalText: protocol fields are carried as bare
// strings, not genuine CBOR text-string items, see MarshalCBOR.
func (p *NetworkProtocol) UnmarshalCBOR(data []byte) error {
	if len(data) == 0 {
		*p = NetworkEmpty
		return nil
	}

	*p = lookup(strings.ToLower(unquote(string(data))))
	return nil
}
