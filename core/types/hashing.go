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

package types

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/crypto"
)

// hasherPool holds LegacyKeccak256 hashers for rlpHash.
var hasherPool = sync.Pool{
	New: func() interface{} { return sha3.NewLegacyKeccak256() },
}

// rlpHash computes the keccak256 hash of an RLP-encoded payload.
func rlpHash(encoded []byte) (h common.Hash) {
	sha := hasherPool.Get().(crypto.KeccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	sha.Write(encoded)
	sha.Read(h[:])
	return h
}

// prefixedRlpHash writes the type prefix into the hasher before the encoded
// payload. It's used for typed transactions.
func prefixedRlpHash(prefix byte, encoded []byte) (h common.Hash) {
	sha := hasherPool.Get().(crypto.KeccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	sha.Write([]byte{prefix})
	sha.Write(encoded)
	sha.Read(h[:])
	return h
}
