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
	"math/big"
	"math/bits"

	"github.com/holiman/uint256"
)

// Encoding uses the append-style convention: every Append function writes one
// complete RLP item to the end of buf and returns the extended slice. A list
// is built by appending its elements to an empty slice and wrapping the result
// with WrapList.

// AppendString appends the RLP encoding of the byte string b to buf.
func AppendString(buf, b []byte) []byte {
	if len(b) == 1 && b[0] <= 0x7f {
		return append(buf, b[0])
	}
	buf = appendLenPrefix(buf, 0x80, len(b))
	return append(buf, b...)
}

// AppendUint64 appends the RLP encoding of i to buf. Zero encodes as the
// empty string.
func AppendUint64(buf []byte, i uint64) []byte {
	if i == 0 {
		return append(buf, emptyString)
	}
	if i <= 0x7f {
		return append(buf, byte(i))
	}
	n := (bits.Len64(i) + 7) / 8
	buf = append(buf, 0x80+byte(n))
	for j := n - 1; j >= 0; j-- {
		buf = append(buf, byte(i>>(8*uint(j))))
	}
	return buf
}

// AppendBigInt appends the RLP encoding of i to buf. A nil or zero value
// encodes as the empty string. Negative values are the caller's bug; the
// sign is ignored.
func AppendBigInt(buf []byte, i *big.Int) []byte {
	if i == nil || i.Sign() == 0 {
		return append(buf, emptyString)
	}
	if i.BitLen() <= 64 {
		return AppendUint64(buf, i.Uint64())
	}
	return AppendString(buf, i.Bytes())
}

// AppendUint256 appends the RLP encoding of i to buf. A nil or zero value
// encodes as the empty string.
func AppendUint256(buf []byte, i *uint256.Int) []byte {
	if i == nil || i.IsZero() {
		return append(buf, emptyString)
	}
	if i.IsUint64() {
		return AppendUint64(buf, i.Uint64())
	}
	return AppendString(buf, i.Bytes())
}

// WrapList prefixes the concatenation of already-encoded items with the list
// header and returns the complete list item.
func WrapList(payload []byte) []byte {
	buf := appendLenPrefix(nil, 0xc0, len(payload))
	return append(buf, payload...)
}

// AppendList appends a complete list item wrapping payload to buf.
func AppendList(buf, payload []byte) []byte {
	buf = appendLenPrefix(buf, 0xc0, len(payload))
	return append(buf, payload...)
}

// EncodeString returns the RLP encoding of the byte string b.
func EncodeString(b []byte) []byte { return AppendString(nil, b) }

// EncodeUint64 returns the RLP encoding of i.
func EncodeUint64(i uint64) []byte { return AppendUint64(nil, i) }

// EncodeBigInt returns the RLP encoding of i.
func EncodeBigInt(i *big.Int) []byte { return AppendBigInt(nil, i) }

// EncodeUint256 returns the RLP encoding of i.
func EncodeUint256(i *uint256.Int) []byte { return AppendUint256(nil, i) }

// appendLenPrefix writes the short- or long-form length prefix for an item of
// the given size. base is 0x80 for strings and 0xc0 for lists.
func appendLenPrefix(buf []byte, base byte, size int) []byte {
	if size <= 55 {
		return append(buf, base+byte(size))
	}
	n := (bits.Len64(uint64(size)) + 7) / 8
	buf = append(buf, base+55+byte(n))
	for j := n - 1; j >= 0; j-- {
		buf = append(buf, byte(uint64(size)>>(8*uint(j))))
	}
	return buf
}
