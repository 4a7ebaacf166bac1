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
	"fmt"
	"math"
)

const (
	_PowerUnit_  = 0
	_PowerKilo_  = 3
	_PowerMega_  = 6
	_PowerGiga_  = 9
	_PowerTera_  = 12
	_PowerPeta_  = 15
	_PowerExa_   = 18
	_PowerZetta_ = 21
	_PowerYotta_ = 24

	_MaxSizeOfPad_  = 4
	_PadIntPattern_ = "%4d"
)

// power2Unit maps a SI power of ten to its short unit prefix.
func power2Unit(power int) string {
	switch {
	case power < 0:
		return ""
	case power >= _PowerYotta_:
		return "Y"
	case power >= _PowerZetta_:
		return "Z"
	case power >= _PowerExa_:
		return "E"
	case power >= _PowerPeta_:
		return "P"
	case power >= _PowerTera_:
		return "T"
	case power >= _PowerGiga_:
		return "G"
	case power >= _PowerMega_:
		return "M"
	case power >= _PowerKilo_:
		return "K"
	default:
		return ""
	}
}

// powerList returns the known SI powers, from largest to smallest.
func powerList() []int {
	return []int{
		_PowerYotta_,
		_PowerZetta_,
		_PowerExa_,
		_PowerPeta_,
		_PowerTera_,
		_PowerGiga_,
		_PowerMega_,
		_PowerKilo_,
		_PowerUnit_,
	}
}

// tierDivisor returns the divisor for a given power: decimal (10^power) or
// binary (1024^(power/3)) depending on binary.
func tierDivisor(power int, binary bool) uint64 {
	tier := power / 3
	if binary {
		return uint64(math.Pow(1024, float64(tier)))
	}
	return uint64(math.Pow(10, float64(power)))
}

// selectTier finds the largest tier the value fits in, returning its
// divisor and unit suffix.
func selectTier(value uint64, binary bool) (uint64, string) {
	for _, p := range powerList() {
		d := tierDivisor(p, binary)
		if value >= d {
			return d, power2Unit(p)
		}
	}
	return 1, ""
}

func formatInt(value, divisor uint64, unit string) string {
	q := uint64(math.Round(float64(value) / float64(divisor)))
	s := fmt.Sprintf(_PadIntPattern_, q)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func formatFloat(value, divisor uint64, unit string, precision int) string {
	f := float64(value) / float64(divisor)
	width := _MaxSizeOfPad_ + 1 + precision
	s := fmt.Sprintf(fmt.Sprintf("%%%d.%df", width, precision), f)
	if unit != "" {
		s += " " + unit
	}
	return s
}
