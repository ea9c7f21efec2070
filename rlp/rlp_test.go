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
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unhex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func TestEncodeString(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte{}, "80"},
		{[]byte{0x00}, "00"},
		{[]byte{0x7f}, "7f"},
		{[]byte{0x80}, "8180"},
		{[]byte("dog"), "83646f67"},
		{bytes.Repeat([]byte{0x61}, 55), "b7" + strings.Repeat("61", 55)},
		{bytes.Repeat([]byte{0x61}, 56), "b838" + strings.Repeat("61", 56)},
		{bytes.Repeat([]byte{0x61}, 1024), "b90400" + strings.Repeat("61", 1024)},
	}
	for _, test := range tests {
		got := EncodeString(test.input)
		assert.Equal(t, unhex(test.want), got, "input %x", test.input)
	}
}

func TestEncodeUint64(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "80"},
		{1, "01"},
		{0x7f, "7f"},
		{0x80, "8180"},
		{0xff, "81ff"},
		{1024, "820400"},
		{0xffffff, "83ffffff"},
		{0xffffffffffffffff, "88ffffffffffffffff"},
	}
	for _, test := range tests {
		got := EncodeUint64(test.input)
		assert.Equal(t, unhex(test.want), got, "input %d", test.input)
	}
}

func TestEncodeBigInt(t *testing.T) {
	big256, _ := new(big.Int).SetString("102030405060708090a0b0c0d0e0f2", 16)
	tests := []struct {
		input *big.Int
		want  string
	}{
		{nil, "80"},
		{big.NewInt(0), "80"},
		{big.NewInt(1), "01"},
		{big.NewInt(127), "7f"},
		{big.NewInt(128), "8180"},
		{big.NewInt(1024), "820400"},
		{big256, "8f102030405060708090a0b0c0d0e0f2"},
	}
	for _, test := range tests {
		got := EncodeBigInt(test.input)
		assert.Equal(t, unhex(test.want), got, "input %v", test.input)
	}
}

func TestEncodeUint256(t *testing.T) {
	tests := []struct {
		input *uint256.Int
		want  string
	}{
		{nil, "80"},
		{uint256.NewInt(0), "80"},
		{uint256.NewInt(1), "01"},
		{uint256.NewInt(128), "8180"},
		{uint256.MustFromHex("0xffffffffffffffffffffff"), "8bffffffffffffffffffffff"},
	}
	for _, test := range tests {
		got := EncodeUint256(test.input)
		assert.Equal(t, unhex(test.want), got, "input %v", test.input)
	}
}

func TestEncodeList(t *testing.T) {
	// [] -> c0
	assert.Equal(t, unhex("c0"), WrapList(nil))

	// ["cat", "dog"] -> c8 8363617483646f67
	var payload []byte
	payload = AppendString(payload, []byte("cat"))
	payload = AppendString(payload, []byte("dog"))
	assert.Equal(t, unhex("c88363617483646f67"), WrapList(payload))

	// long list gets the f7+n prefix
	var long []byte
	for i := 0; i < 20; i++ {
		long = AppendString(long, []byte("abc"))
	}
	got := WrapList(long)
	assert.Equal(t, byte(0xf8), got[0])
	assert.Equal(t, byte(80), got[1])
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input   string
		kind    Kind
		content string
		rest    string
		err     error
	}{
		{input: "00", kind: Byte, content: "00"},
		{input: "7f", kind: Byte, content: "7f"},
		{input: "80", kind: String, content: ""},
		{input: "8180", kind: String, content: "80"},
		{input: "83646f67", kind: String, content: "646f67"},
		{input: "83646f67ff", kind: String, content: "646f67", rest: "ff"},
		{input: "c0", kind: List, content: ""},
		{input: "c88363617483646f67", kind: List, content: "8363617483646f67"},

		// errors
		{input: "", err: errEmptyInput},
		{input: "81", err: ErrValueTooLarge},
		{input: "83646f", err: ErrValueTooLarge},
		{input: "b8", err: ErrValueTooLarge},
		// non-minimal length of length
		{input: "b800", err: ErrCanonSize},
		{input: "b90000", err: ErrCanonSize},
		{input: "b80161", err: ErrCanonSize},
		{input: "f800", err: ErrCanonSize},
		// single byte below 0x80 must self-encode
		{input: "8100", err: ErrCanonSize},
		{input: "817f", err: ErrCanonSize},
	}
	for _, test := range tests {
		kind, content, rest, err := Split(unhex(test.input))
		if test.err != nil {
			assert.ErrorIs(t, err, test.err, "input %s", test.input)
			continue
		}
		require.NoError(t, err, "input %s", test.input)
		assert.Equal(t, test.kind, kind, "input %s", test.input)
		assert.Equal(t, unhex(test.content), content, "input %s", test.input)
		assert.Equal(t, unhex(test.rest), rest, "input %s", test.input)
	}
}

func TestSplitString(t *testing.T) {
	content, rest, err := SplitString(unhex("83646f67"))
	require.NoError(t, err)
	assert.Equal(t, []byte("dog"), content)
	assert.Len(t, rest, 0)

	_, _, err = SplitString(unhex("c0"))
	assert.ErrorIs(t, err, ErrExpectedString)
}

func TestSplitList(t *testing.T) {
	content, rest, err := SplitList(unhex("c88363617483646f67"))
	require.NoError(t, err)
	assert.Equal(t, unhex("8363617483646f67"), content)
	assert.Len(t, rest, 0)

	_, _, err = SplitList(unhex("83646f67"))
	assert.ErrorIs(t, err, ErrExpectedList)
}

func TestSplitUint64(t *testing.T) {
	tests := []struct {
		input string
		val   uint64
		err   error
	}{
		{input: "80", val: 0},
		{input: "01", val: 1},
		{input: "7f", val: 0x7f},
		{input: "8180", val: 0x80},
		{input: "820400", val: 1024},
		{input: "88ffffffffffffffff", val: 0xffffffffffffffff},

		// leading zero bytes are not canonical
		{input: "8200ff", err: ErrCanonInt},
		// too large for uint64
		{input: "89ffffffffffffffffff", err: ErrUintOverflow},
		// lists are not integers
		{input: "c0", err: ErrExpectedString},
	}
	for _, test := range tests {
		val, rest, err := SplitUint64(unhex(test.input))
		if test.err != nil {
			assert.ErrorIs(t, err, test.err, "input %s", test.input)
			continue
		}
		require.NoError(t, err, "input %s", test.input)
		assert.Equal(t, test.val, val, "input %s", test.input)
		assert.Len(t, rest, 0, "input %s", test.input)
	}
}

func TestSplitBigInt(t *testing.T) {
	val, _, err := SplitBigInt(unhex("8f102030405060708090a0b0c0d0e0f2"))
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("102030405060708090a0b0c0d0e0f2", 16)
	assert.Zero(t, val.Cmp(want))

	_, _, err = SplitBigInt(unhex("8200ff"))
	assert.ErrorIs(t, err, ErrCanonInt)

	// 33 bytes is too large
	_, _, err = SplitBigInt(unhex("a1" + strings.Repeat("ff", 33)))
	assert.ErrorIs(t, err, ErrIntTooLarge)
}

func TestSplitUint256(t *testing.T) {
	val, _, err := SplitUint256(unhex("8bffffffffffffffffffffff"))
	require.NoError(t, err)
	assert.Equal(t, uint256.MustFromHex("0xffffffffffffffffffffff"), val)

	_, _, err = SplitUint256(unhex("8200ff"))
	assert.ErrorIs(t, err, ErrCanonInt)

	_, _, err = SplitUint256(unhex("a1" + strings.Repeat("ff", 33)))
	assert.ErrorIs(t, err, ErrIntTooLarge)
}

func TestCountItems(t *testing.T) {
	// ["cat", "dog"]
	content, _, err := SplitList(unhex("c88363617483646f67"))
	require.NoError(t, err)
	n, err := CountItems(content)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = CountItems(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// truncated payload
	_, err = CountItems(unhex("8363"))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	var payload []byte
	payload = AppendUint64(payload, 1024)
	payload = AppendString(payload, []byte("dog"))
	payload = AppendBigInt(payload, big.NewInt(0x1122334455))
	enc := WrapList(payload)

	content, rest, err := SplitList(enc)
	require.NoError(t, err)
	require.Len(t, rest, 0)

	v1, content, err := SplitUint64(content)
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), v1)

	v2, content, err := SplitString(content)
	require.NoError(t, err)
	assert.Equal(t, []byte("dog"), v2)

	v3, content, err := SplitBigInt(content)
	require.NoError(t, err)
	assert.Zero(t, v3.Cmp(big.NewInt(0x1122334455)))
	assert.Len(t, content, 0)
}

func TestSplitTruncatedList(t *testing.T) {
	enc := WrapList(AppendString(nil, bytes.Repeat([]byte{1}, 100)))
	for i := 1; i < len(enc); i++ {
		_, _, err := SplitList(enc[:i])
		if err == nil {
			t.Fatalf("no error for truncation at %d", i)
		}
		if !errors.Is(err, ErrValueTooLarge) && !errors.Is(err, ErrCanonSize) {
			t.Fatalf("unexpected error %v for truncation at %d", err, i)
		}
	}
}
