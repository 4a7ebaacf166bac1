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

import (
	"fmt"
	"reflect"
)

// ViperDecoderHook returns a mapstructure.DecodeHookFuncType suitable for
// viper.Unmarshal (viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(...))).
// It only acts when the decode target is NetworkProtocol; anything else, or
// a source kind it doesn't recognize, passes data through unchanged.
func ViperDecoderHook() func(reflect.Type, reflect.Type, interface{}) (interface{}, error) {
	var target NetworkProtocol
	protocolType := reflect.TypeOf(target)

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != protocolType {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			s, ok := data.(string)
			if !ok {
				return data, nil
			}
			return Parse(s), nil

		case reflect.Int:
			v, ok := data.(int)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Int8:
			v, ok := data.(int8)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Int16:
			v, ok := data.(int16)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Int32:
			v, ok := data.(int32)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Int64:
			v, ok := data.(int64)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(v)

		case reflect.Uint:
			v, ok := data.(uint)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Uint8:
			v, ok := data.(uint8)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Uint16:
			v, ok := data.(uint16)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Uint32:
			v, ok := data.(uint32)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		case reflect.Uint64:
			v, ok := data.(uint64)
			if !ok {
				return data, nil
			}
			return decodeProtocolCode(int64(v))

		default:
			return data, nil
		}
	}
}

// decodeProtocolCode is stricter than ParseInt64: a viper config value
// outside the known protocol range is a configuration mistake, not a blank
// field, so it fails the decode instead of silently producing NetworkEmpty.
func decodeProtocolCode(v int64) (interface{}, error) {
	if v < int64(NetworkUnix) || v > int64(NetworkUnixGram) {
		return nil, fmt.Errorf("invalid value %d for network protocol", v)
	}
	return NetworkProtocol(v), nil
}
