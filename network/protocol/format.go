/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package protocol

// Int returns the protocol's numeric code, or 0 if p is not valid.
func (p NetworkProtocol) Int() int {
	if !p.valid() {
		return 0
	}
	return int(p)
}

// Int64 is Int widened to int64.
func (p NetworkProtocol) Int64() int64 {
	if !p.valid() {
		return 0
	}
	return int64(p)
}

// Uint returns the protocol's numeric code, or 0 if p is not valid.
func (p NetworkProtocol) Uint() uint {
	if !p.valid() {
		return 0
	}
	return uint(p)
}

// Uint64 is Uint widened to uint64.
func (p NetworkProtocol) Uint64() uint64 {
	if !p.valid() {
		return 0
	}
	return uint64(p)
}
