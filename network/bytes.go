/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package network

import (
	"strconv"
)

// Bytes is a byte counter, formatted with binary (1024^n) SI prefixes.
type Bytes uint64

func (b Bytes) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// AsNumber reinterprets the byte count as a plain decimal counter.
func (b Bytes) AsNumber() Number {
	return Number(b)
}

func (b Bytes) AsUint64() uint64 {
	return uint64(b)
}

func (b Bytes) AsFloat64() float64 {
	return float64(b)
}

// FormatUnitInt renders the value padded and rounded to the nearest
// applicable binary unit (KB, MB, GB...).
func (b Bytes) FormatUnitInt() string {
	d, u := selectTier(uint64(b), true)
	if u != "" {
		u += "B"
	}
	return formatInt(uint64(b), d, u)
}

// FormatUnitFloat renders the value with the given decimal precision. A
// precision of zero or less delegates to FormatUnitInt.
func (b Bytes) FormatUnitFloat(precision int) string {
	if precision <= 0 {
		return b.FormatUnitInt()
	}
	d, u := selectTier(uint64(b), true)
	if u != "" {
		u += "B"
	}
	return formatFloat(uint64(b), d, u, precision)
}
