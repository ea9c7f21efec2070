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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/crypto"
)

func TestParseDelegation(t *testing.T) {
	addr := common.Address{0x42}
	code := AddressToDelegation(addr)

	// Verify the prefix is correct.
	assert.Equal(t, DelegationPrefix, code[:3])

	got, ok := ParseDelegation(code)
	require.True(t, ok)
	assert.Equal(t, addr, got)

	// Short, long and mis-prefixed codes are not delegations.
	for _, invalid := range [][]byte{
		nil,
		{0xef, 0x01, 0x00},
		append([]byte{0xef, 0x01, 0x01}, addr.Bytes()...),
		append([]byte{0xef, 0x00, 0x00}, addr.Bytes()...),
		append(AddressToDelegation(addr), 0x00),
	} {
		_, ok := ParseDelegation(invalid)
		assert.False(t, ok, "input %x", invalid)
	}
}

func TestSetCodeAuthoritySigning(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	auth, err := SignSetCode(key, SetCodeAuthorization{
		ChainID: *uint256.NewInt(1337),
		Address: common.Address{0x42},
		Nonce:   5,
	})
	require.NoError(t, err)

	got, err := auth.Authority()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSetCodeAuthorityMismatch(t *testing.T) {
	key, _ := crypto.GenerateKey()
	auth, err := SignSetCode(key, SetCodeAuthorization{
		ChainID: *uint256.NewInt(1337),
		Address: common.Address{0x42},
		Nonce:   5,
	})
	require.NoError(t, err)

	// Tampering with a signed field changes the recovered authority.
	auth.Nonce = 6
	got, err := auth.Authority()
	if err == nil {
		assert.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), got)
	}
}

func TestSetCodeAuthListRoundTrip(t *testing.T) {
	key, _ := crypto.GenerateKey()
	auth1, err := SignSetCode(key, SetCodeAuthorization{
		ChainID: *uint256.NewInt(1337),
		Address: common.Address{0x42},
		Nonce:   5,
	})
	require.NoError(t, err)
	auth2, err := SignSetCode(key, SetCodeAuthorization{
		Address: common.Address{0x43}, // chain id 0 means any chain
		Nonce:   6,
	})
	require.NoError(t, err)

	tx, err := SignNewTx(testKey, testSigner, &SetCodeTx{
		ChainID:   uint256.MustFromBig(testChainID),
		Nonce:     1,
		GasTipCap: uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(10),
		Gas:       50000,
		To:        common.Address{0x01},
		Value:     uint256.NewInt(0),
		AuthList:  []SetCodeAuthorization{auth1, auth2},
	})
	require.NoError(t, err)

	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	parsed := new(Transaction)
	require.NoError(t, parsed.UnmarshalBinary(enc))

	auths := parsed.SetCodeAuthorizations()
	require.Len(t, auths, 2)
	assert.Equal(t, auth1.Address, auths[0].Address)
	assert.Equal(t, auth1.Nonce, auths[0].Nonce)
	assert.Zero(t, auths[0].ChainID.Cmp(uint256.NewInt(1337)))
	assert.Equal(t, auth2.Address, auths[1].Address)

	// Authorities are still recoverable after the round trip.
	authority, err := auths[0].Authority()
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), authority)
}

func TestSetCodeEmptyAuthList(t *testing.T) {
	// An empty authorization list is accepted at the encoding layer;
	// validity rules beyond the wire format are out of scope here.
	tx, err := SignNewTx(testKey, testSigner, &SetCodeTx{
		ChainID:   uint256.MustFromBig(testChainID),
		GasTipCap: uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(10),
		Gas:       50000,
		To:        common.Address{0x01},
		Value:     uint256.NewInt(0),
	})
	require.NoError(t, err)

	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	parsed := new(Transaction)
	require.NoError(t, parsed.UnmarshalBinary(enc))
	assert.Empty(t, parsed.SetCodeAuthorizations())
}

func TestSetCodeTxToNeverNil(t *testing.T) {
	tx := NewTx(&SetCodeTx{
		ChainID:   uint256.NewInt(1),
		GasTipCap: uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(1),
		Gas:       21000,
		Value:     uint256.NewInt(0),
	})
	require.NotNil(t, tx.To())
	assert.Equal(t, common.Address{}, *tx.To())
}
