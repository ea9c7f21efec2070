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
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/crypto"
)

// TestEIP155SigningVector checks the example transaction from the EIP-155
// specification: nonce 9, 20 gwei gas price, gas 21000, 1 ether to
// 0x3535...35, signed on chain 1 with the all-46 private key.
func TestEIP155SigningVector(t *testing.T) {
	key, err := crypto.HexToECDSA("4646464646464646464646464646464646464646464646464646464646464646")
	require.NoError(t, err)

	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	tx := NewTx(&LegacyTx{
		Nonce:    9,
		GasPrice: big.NewInt(20000000000),
		Gas:      21000,
		To:       &to,
		Value:    new(big.Int).Mul(big.NewInt(1), big.NewInt(1000000000000000000)),
	})
	signer := NewEIP155Signer(big.NewInt(1))

	assert.Equal(t,
		common.HexToHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"),
		signer.Hash(tx))

	signed, err := SignTx(tx, signer, key)
	require.NoError(t, err)

	enc, err := signed.MarshalBinary()
	require.NoError(t, err)
	want := common.FromHex("0xf86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83")
	assert.Equal(t, want, enc)

	v, _, _ := signed.RawSignatureValues()
	assert.Equal(t, int64(37), v.Int64())

	from, err := Sender(signer, signed)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"), from)
}

func TestEIP155SenderFromRaw(t *testing.T) {
	raw := common.FromHex("0xf86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83")
	tx := new(Transaction)
	require.NoError(t, tx.UnmarshalBinary(raw))

	assert.True(t, tx.Protected())
	assert.Zero(t, tx.ChainId().Cmp(big.NewInt(1)))

	from, err := Sender(LatestSignerForChainID(big.NewInt(1)), tx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"), from)
}

func TestSignRecoverAllTypes(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		from, err := Sender(testSigner, tx)
		require.NoError(t, err, "type %d", tx.Type())
		assert.Equal(t, testAddr, from, "type %d", tx.Type())

		// Recovery also works after a wire round trip.
		enc, _ := tx.MarshalBinary()
		parsed := new(Transaction)
		require.NoError(t, parsed.UnmarshalBinary(enc))
		from, err = Sender(testSigner, parsed)
		require.NoError(t, err)
		assert.Equal(t, testAddr, from, "type %d", tx.Type())
	}
}

func TestSenderCache(t *testing.T) {
	tx := sampleTxs(t)[0]
	from1, err := Sender(testSigner, tx)
	require.NoError(t, err)
	from2, err := Sender(testSigner, tx)
	require.NoError(t, err)
	assert.Equal(t, from1, from2)
}

func TestChainIdMismatch(t *testing.T) {
	other := LatestSignerForChainID(big.NewInt(99))
	for _, tx := range sampleTxs(t) {
		_, err := Sender(other, tx)
		assert.True(t, errors.Is(err, ErrInvalidChainId), "type %d: %v", tx.Type(), err)
	}
}

func TestHomesteadSigner(t *testing.T) {
	key, _ := crypto.GenerateKey()
	addr := crypto.PubkeyToAddress(key.PublicKey)

	tx, err := SignNewTx(key, HomesteadSigner{}, &LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Value:    big.NewInt(0),
	})
	require.NoError(t, err)
	assert.False(t, tx.Protected())

	from, err := Sender(HomesteadSigner{}, tx)
	require.NoError(t, err)
	assert.Equal(t, addr, from)

	// EIP-155 signers accept unprotected transactions too.
	from, err = Sender(NewEIP155Signer(big.NewInt(1)), tx)
	require.NoError(t, err)
	assert.Equal(t, addr, from)
}

func TestLatestSignerForChainIDNil(t *testing.T) {
	s := LatestSignerForChainID(nil)
	assert.True(t, s.Equal(HomesteadSigner{}))
}

func TestSignerEqual(t *testing.T) {
	one, two := big.NewInt(1), big.NewInt(2)
	assert.True(t, NewPragueSigner(one).Equal(NewPragueSigner(one)))
	assert.False(t, NewPragueSigner(one).Equal(NewPragueSigner(two)))
	assert.False(t, NewPragueSigner(one).Equal(NewCancunSigner(one)))
	assert.True(t, NewEIP155Signer(one).Equal(NewEIP155Signer(one)))
	assert.True(t, HomesteadSigner{}.Equal(HomesteadSigner{}))
	assert.False(t, HomesteadSigner{}.Equal(FrontierSigner{}))
}

func TestSignerRejectsOlderTypes(t *testing.T) {
	// A Cancun signer does not know about set code transactions.
	cancun := NewCancunSigner(testChainID)
	tx := NewTx(&SetCodeTx{
		ChainID:   uint256.MustFromBig(testChainID),
		GasTipCap: uint256.NewInt(1),
		GasFeeCap: uint256.NewInt(1),
		Gas:       21000,
		Value:     uint256.NewInt(0),
	})
	_, err := SignTx(tx, cancun, testKey)
	assert.True(t, errors.Is(err, ErrTxTypeNotSupported))

	// A Homestead signer only handles legacy transactions.
	tx = NewTx(&AccessListTx{
		ChainID:  testChainID,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Value:    big.NewInt(0),
	})
	_, err = SignTx(tx, HomesteadSigner{}, testKey)
	assert.True(t, errors.Is(err, ErrTxTypeNotSupported))
}

func TestVerifySender(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		assert.True(t, VerifySender(testSigner, tx, testAddr), "type %d", tx.Type())
		assert.False(t, VerifySender(testSigner, tx, common.HexToAddress("0x01")), "type %d", tx.Type())
	}
}

func TestMustSignNewTxPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	// Signing a typed tx with a legacy-only signer must panic.
	MustSignNewTx(testKey, HomesteadSigner{}, &DynamicFeeTx{
		ChainID:   testChainID,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(1),
		Gas:       21000,
		Value:     big.NewInt(0),
	})
}

func TestDeriveChainId(t *testing.T) {
	tests := []struct {
		v, want int64
	}{
		{27, 0},
		{28, 0},
		{37, 1},
		{38, 1},
		{2709, 1337},
		{2710, 1337},
	}
	for _, tt := range tests {
		got := deriveChainId(big.NewInt(tt.v))
		assert.Zero(t, got.Cmp(big.NewInt(tt.want)), "v=%d", tt.v)
	}
}

func TestInvalidSignatureRejected(t *testing.T) {
	tx := NewTx(&LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Value:    big.NewInt(0),
		V:        big.NewInt(27),
		R:        big.NewInt(0),
		S:        big.NewInt(0),
	})
	_, err := Sender(HomesteadSigner{}, tx)
	assert.True(t, errors.Is(err, ErrInvalidSig))
}
