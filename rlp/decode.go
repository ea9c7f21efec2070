// Copyright 2025 The voltaire Authors
// This file is part of the voltaire library.
//
// The voltaire library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The voltaire library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the voltaire library. If not, see <http://www.gnu.org/licenses/>.

package rlp

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	emptyString = 0x80
	emptyList   = 0xc0
)

var (
	// ErrValueTooLarge is returned when a length prefix claims more bytes
	// than the input holds.
	ErrValueTooLarge = errors.New("rlp: value size exceeds available input length")
	// ErrCanonSize is returned for non-minimal length encodings.
	ErrCanonSize = errors.New("rlp: non-canonical size information")
	// ErrCanonInt is returned for integers with a leading zero byte.
	ErrCanonInt = errors.New("rlp: non-canonical integer format")
	// ErrMoreThanOneValue is returned when input continues past a complete
	// item and the caller required exact consumption.
	ErrMoreThanOneValue = errors.New("rlp: input contains more than one value")

	ErrExpectedString = errors.New("rlp: expected string or byte")
	ErrExpectedList   = errors.New("rlp: expected list")

	ErrUintOverflow = errors.New("rlp: integer overflows uint64")
	ErrIntTooLarge  = errors.New("rlp: integer larger than 256 bits")

	errEmptyInput = errors.New("rlp: empty input")
)

// Kind represents the kind of value contained in an RLP stream.
type Kind int8

const (
	// Byte is a single byte below 0x80, encoded as itself.
	Byte Kind = iota
	// String is a byte string.
	String
	// List is an ordered sequence of items.
	List
)

func (k Kind) String() string {
	switch k {
	case Byte:
		return "Byte"
	case String:
		return "String"
	case List:
		return "List"
	default:
		return "Unknown"
	}
}

// Split reads the first complete item of buf and returns its kind, its
// content and the remaining bytes after the item. Content of a Byte or
// String item is the payload without the length prefix; content of a List
// is the concatenated encoding of its elements. Non-minimal length prefixes
// are rejected, so any input accepted here re-encodes to the same bytes.
func Split(buf []byte) (k Kind, content, rest []byte, err error) {
	if len(buf) == 0 {
		return 0, nil, nil, errEmptyInput
	}
	b0 := buf[0]
	switch {
	case b0 <= 0x7f:
		return Byte, buf[:1], buf[1:], nil

	case b0 <= 0xb7:
		size := int(b0 - 0x80)
		if len(buf)-1 < size {
			return 0, nil, nil, ErrValueTooLarge
		}
		// A single byte below 0x80 must be encoded as itself.
		if size == 1 && buf[1] <= 0x7f {
			return 0, nil, nil, ErrCanonSize
		}
		return String, buf[1 : 1+size], buf[1+size:], nil

	case b0 <= 0xbf:
		content, rest, err = splitLong(buf, int(b0-0xb7))
		return String, content, rest, err

	case b0 <= 0xf7:
		size := int(b0 - 0xc0)
		if len(buf)-1 < size {
			return 0, nil, nil, ErrValueTooLarge
		}
		return List, buf[1 : 1+size], buf[1+size:], nil

	default:
		content, rest, err = splitLong(buf, int(b0-0xf7))
		return List, content, rest, err
	}
}

// splitLong handles the long form where the prefix is followed by sizeLen
// bytes of big-endian length. The length is validated against the remaining
// buffer before any slice is taken, keeping decode time linear in the input.
func splitLong(buf []byte, sizeLen int) (content, rest []byte, err error) {
	if len(buf)-1 < sizeLen {
		return nil, nil, ErrValueTooLarge
	}
	if buf[1] == 0 {
		return nil, nil, ErrCanonSize
	}
	var size uint64
	for _, b := range buf[1 : 1+sizeLen] {
		size = size<<8 | uint64(b)
	}
	if size < 56 {
		return nil, nil, ErrCanonSize
	}
	if size > uint64(len(buf)-1-sizeLen) {
		return nil, nil, ErrValueTooLarge
	}
	return buf[1+sizeLen : 1+sizeLen+int(size)], buf[1+sizeLen+int(size):], nil
}

// SplitString reads the first item of buf, which must be a byte string, and
// returns its content and the remainder.
func SplitString(buf []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(buf)
	if err != nil {
		return nil, nil, err
	}
	if k == List {
		return nil, nil, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList reads the first item of buf, which must be a list, and returns
// the concatenated encoding of its elements and the remainder.
func SplitList(buf []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(buf)
	if err != nil {
		return nil, nil, err
	}
	if k != List {
		return nil, nil, ErrExpectedList
	}
	return content, rest, nil
}

// SplitUint64 decodes the first item of buf as a canonical unsigned integer
// of at most 64 bits.
func SplitUint64(buf []byte) (x uint64, rest []byte, err error) {
	content, rest, err := SplitString(buf)
	if err != nil {
		return 0, nil, err
	}
	switch {
	case len(content) == 0:
		return 0, rest, nil
	case content[0] == 0:
		return 0, nil, ErrCanonInt
	case len(content) > 8:
		return 0, nil, ErrUintOverflow
	}
	for _, b := range content {
		x = x<<8 | uint64(b)
	}
	return x, rest, nil
}

// SplitBigInt decodes the first item of buf as a canonical unsigned integer
// of at most 256 bits.
func SplitBigInt(buf []byte) (x *big.Int, rest []byte, err error) {
	content, rest, err := SplitString(buf)
	if err != nil {
		return nil, nil, err
	}
	if len(content) > 0 && content[0] == 0 {
		return nil, nil, ErrCanonInt
	}
	if len(content) > 32 {
		return nil, nil, ErrIntTooLarge
	}
	return new(big.Int).SetBytes(content), rest, nil
}

// SplitUint256 decodes the first item of buf as a canonical unsigned integer
// of at most 256 bits.
func SplitUint256(buf []byte) (x *uint256.Int, rest []byte, err error) {
	content, rest, err := SplitString(buf)
	if err != nil {
		return nil, nil, err
	}
	if len(content) > 0 && content[0] == 0 {
		return nil, nil, ErrCanonInt
	}
	if len(content) > 32 {
		return nil, nil, ErrIntTooLarge
	}
	return new(uint256.Int).SetBytes(content), rest, nil
}

// CountItems returns the number of items encoded back-to-back in payload,
// which is typically the content of a list.
func CountItems(payload []byte) (int, error) {
	var n int
	for len(payload) > 0 {
		_, _, rest, err := Split(payload)
		if err != nil {
			return 0, err
		}
		payload = rest
		n++
	}
	return n, nil
}
