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
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/crypto"
	"github.com/evmts/voltaire-sub007/rlp"
)

var (
	testKey, _  = crypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	testAddr    = crypto.PubkeyToAddress(testKey.PublicKey)
	testChainID = big.NewInt(1337)
	testSigner  = LatestSignerForChainID(testChainID)
)

// sampleTxs returns one signed transaction of every type.
func sampleTxs(t *testing.T) []*Transaction {
	t.Helper()
	recipient := common.HexToAddress("0xb94f5374fce5edbc8e2a8697c15331677e6ebf0b")
	al := AccessList{{
		Address:     recipient,
		StorageKeys: []common.Hash{common.HexToHash("0x01"), {}},
	}}
	datas := []TxData{
		&LegacyTx{
			Nonce:    3,
			GasPrice: big.NewInt(1000000000),
			Gas:      25000,
			To:       &recipient,
			Value:    big.NewInt(10),
			Data:     common.FromHex("5544"),
		},
		&AccessListTx{
			ChainID:    testChainID,
			Nonce:      3,
			GasPrice:   big.NewInt(1000000000),
			Gas:        25000,
			To:         &recipient,
			Value:      big.NewInt(10),
			Data:       common.FromHex("5544"),
			AccessList: al,
		},
		&DynamicFeeTx{
			ChainID:    testChainID,
			Nonce:      3,
			GasTipCap:  big.NewInt(1000000000),
			GasFeeCap:  big.NewInt(30000000000),
			Gas:        25000,
			To:         &recipient,
			Value:      big.NewInt(10),
			Data:       common.FromHex("5544"),
			AccessList: al,
		},
		&BlobTx{
			ChainID:    uint256.MustFromBig(testChainID),
			Nonce:      3,
			GasTipCap:  uint256.NewInt(1000000000),
			GasFeeCap:  uint256.NewInt(30000000000),
			Gas:        25000,
			To:         recipient,
			Value:      uint256.NewInt(10),
			Data:       common.FromHex("5544"),
			BlobFeeCap: uint256.NewInt(100),
			BlobHashes: []common.Hash{common.HexToHash("0x0122"), common.HexToHash("0x0123")},
		},
		&SetCodeTx{
			ChainID:   uint256.MustFromBig(testChainID),
			Nonce:     3,
			GasTipCap: uint256.NewInt(1000000000),
			GasFeeCap: uint256.NewInt(30000000000),
			Gas:       25000,
			To:        recipient,
			Value:     uint256.NewInt(10),
			Data:      common.FromHex("5544"),
			AuthList: []SetCodeAuthorization{{
				ChainID: *uint256.MustFromBig(testChainID),
				Address: recipient,
				Nonce:   7,
				V:       0,
				R:       *uint256.NewInt(1),
				S:       *uint256.NewInt(2),
			}},
		},
	}
	txs := make([]*Transaction, len(datas))
	for i, data := range datas {
		tx, err := SignNewTx(testKey, testSigner, data)
		require.NoError(t, err, "signing tx %d", i)
		txs[i] = tx
	}
	return txs
}

func TestTransactionTypes(t *testing.T) {
	txs := sampleTxs(t)
	for i, want := range []uint8{LegacyTxType, AccessListTxType, DynamicFeeTxType, BlobTxType, SetCodeTxType} {
		assert.Equal(t, want, txs[i].Type())
	}
}

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		enc, err := tx.MarshalBinary()
		require.NoError(t, err)

		parsed := new(Transaction)
		require.NoError(t, parsed.UnmarshalBinary(enc), "type %d", tx.Type())
		assert.Equal(t, tx.Hash(), parsed.Hash(), "type %d", tx.Type())

		// Decoding followed by encoding must reproduce the input bytes.
		reenc, err := parsed.MarshalBinary()
		require.NoError(t, err)
		if !bytes.Equal(enc, reenc) {
			t.Fatalf("type %d: re-encode mismatch: have %x, want %x", tx.Type(), reenc, enc)
		}

		// Derived fields survive the trip.
		assert.Equal(t, tx.Nonce(), parsed.Nonce())
		assert.Equal(t, tx.Gas(), parsed.Gas())
		assert.Equal(t, tx.To(), parsed.To())
		assert.Zero(t, tx.Value().Cmp(parsed.Value()))
		assert.Equal(t, tx.Data(), parsed.Data())
	}
}

func TestTransactionSizeCache(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		enc, _ := tx.MarshalBinary()
		parsed := new(Transaction)
		require.NoError(t, parsed.UnmarshalBinary(enc))
		assert.Equal(t, uint64(len(enc)), parsed.Size())
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	tx := new(Transaction)
	assert.ErrorIs(t, tx.UnmarshalBinary(nil), errShortTypedTx)
	assert.ErrorIs(t, tx.UnmarshalBinary([]byte{0x01}), errShortTypedTx)
}

func TestDecodeUnknownType(t *testing.T) {
	// Types 0x05..0x7f are unassigned; 0x80..0xbf can never start a
	// transaction because the canonical encoding of a legacy tx is a list.
	for _, b := range []byte{0x05, 0x20, 0x7f, 0x80, 0xbf} {
		tx := new(Transaction)
		err := tx.UnmarshalBinary([]byte{b, 0xc0})
		assert.ErrorIs(t, err, ErrTxTypeNotSupported, "type byte %#x", b)
	}
}

func TestDecodeFieldCountMismatch(t *testing.T) {
	// A legacy transaction must have exactly 9 fields.
	var short []byte
	for i := 0; i < 8; i++ {
		short = rlp.AppendUint64(short, 1)
	}
	tx := new(Transaction)
	err := tx.UnmarshalBinary(rlp.WrapList(short))
	assert.ErrorIs(t, err, ErrFieldCount)

	var long []byte
	for i := 0; i < 10; i++ {
		long = rlp.AppendUint64(long, 1)
	}
	err = tx.UnmarshalBinary(rlp.WrapList(long))
	assert.ErrorIs(t, err, ErrFieldCount)
}

func TestDecodeTrailingBytes(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		enc, _ := tx.MarshalBinary()
		enc = append(enc, 0x00)
		parsed := new(Transaction)
		err := parsed.UnmarshalBinary(enc)
		if tx.Type() == LegacyTxType {
			assert.ErrorIs(t, err, rlp.ErrMoreThanOneValue)
		} else {
			assert.Error(t, err, "type %d", tx.Type())
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		enc, _ := tx.MarshalBinary()
		parsed := new(Transaction)
		assert.Error(t, parsed.UnmarshalBinary(enc[:len(enc)-1]), "type %d", tx.Type())
	}
}

func TestHashDistinct(t *testing.T) {
	txs := sampleTxs(t)
	seen := make(map[common.Hash]uint8)
	for _, tx := range txs {
		h := tx.Hash()
		if prev, ok := seen[h]; ok {
			t.Fatalf("hash collision between tx types %d and %d", prev, tx.Type())
		}
		seen[h] = tx.Type()
		// The hash is stable across calls.
		assert.Equal(t, h, tx.Hash())
	}
}

func TestSigningHashDiffersFromTxHash(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		assert.NotEqual(t, tx.Hash(), tx.SigningHash(testSigner), "type %d", tx.Type())
	}
}

func TestProtected(t *testing.T) {
	unprotected := NewTx(&LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		Value:    big.NewInt(0),
		V:        big.NewInt(27),
		R:        big.NewInt(1),
		S:        big.NewInt(1),
	})
	assert.False(t, unprotected.Protected())

	txs := sampleTxs(t)
	for _, tx := range txs {
		assert.True(t, tx.Protected(), "type %d", tx.Type())
	}
	// Signed legacy tx under EIP-155 carries the chain id in v.
	assert.Zero(t, txs[0].ChainId().Cmp(testChainID))
}

func TestEffectiveGasPrice(t *testing.T) {
	baseFee := big.NewInt(20000000000) // 20 gwei
	dyn := func(tip, feeCap int64) *Transaction {
		return NewTx(&DynamicFeeTx{
			ChainID:   testChainID,
			GasTipCap: big.NewInt(tip),
			GasFeeCap: big.NewInt(feeCap),
			Gas:       21000,
			To:        &common.Address{},
			Value:     big.NewInt(0),
		})
	}

	// tip fits under the cap: price = baseFee + tip
	tx := dyn(2000000000, 30000000000)
	assert.Zero(t, tx.EffectiveGasPrice(baseFee).Cmp(big.NewInt(22000000000)))

	// cap binds: price = cap
	tx = dyn(5000000000, 23000000000)
	assert.Zero(t, tx.EffectiveGasPrice(baseFee).Cmp(big.NewInt(23000000000)))

	// no base fee: price = cap
	tx = dyn(5000000000, 23000000000)
	assert.Zero(t, tx.EffectiveGasPrice(nil).Cmp(big.NewInt(23000000000)))

	// cap below base fee: clamped at the cap, no underflow
	tx = dyn(1000000000, 15000000000)
	assert.Zero(t, tx.EffectiveGasPrice(baseFee).Cmp(big.NewInt(15000000000)))

	// legacy price is baseFee-independent
	legacy := NewTx(&LegacyTx{GasPrice: big.NewInt(42), Gas: 21000, Value: big.NewInt(0)})
	assert.Zero(t, legacy.EffectiveGasPrice(baseFee).Cmp(big.NewInt(42)))
}

func TestEffectiveGasTip(t *testing.T) {
	baseFee := big.NewInt(20000000000)
	tx := NewTx(&DynamicFeeTx{
		ChainID:   testChainID,
		GasTipCap: big.NewInt(2000000000),
		GasFeeCap: big.NewInt(30000000000),
		Gas:       21000,
		Value:     big.NewInt(0),
	})
	tip, err := tx.EffectiveGasTip(baseFee)
	require.NoError(t, err)
	assert.Zero(t, tip.Cmp(big.NewInt(2000000000)))

	// fee cap below base fee yields ErrGasFeeCapTooLow
	tx = NewTx(&DynamicFeeTx{
		ChainID:   testChainID,
		GasTipCap: big.NewInt(2000000000),
		GasFeeCap: big.NewInt(10000000000),
		Gas:       21000,
		Value:     big.NewInt(0),
	})
	_, err = tx.EffectiveGasTip(baseFee)
	assert.True(t, errors.Is(err, ErrGasFeeCapTooLow))
}

func TestContractCreationRoundTrip(t *testing.T) {
	tx, err := SignNewTx(testKey, testSigner, &LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      53000,
		To:       nil, // contract creation
		Value:    big.NewInt(0),
		Data:     common.FromHex("6000"),
	})
	require.NoError(t, err)

	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	parsed := new(Transaction)
	require.NoError(t, parsed.UnmarshalBinary(enc))
	assert.Nil(t, parsed.To())
}

func TestJSONRoundTrip(t *testing.T) {
	for _, tx := range sampleTxs(t) {
		data, err := json.Marshal(tx)
		require.NoError(t, err, "type %d", tx.Type())

		parsed := new(Transaction)
		require.NoError(t, json.Unmarshal(data, parsed), "type %d", tx.Type())
		assert.Equal(t, tx.Hash(), parsed.Hash(), "type %d", tx.Type())
	}
}

func TestBlobTxFields(t *testing.T) {
	txs := sampleTxs(t)
	blob := txs[3]
	assert.Equal(t, uint64(2*131072), blob.BlobGas())
	assert.Len(t, blob.BlobHashes(), 2)
	assert.Zero(t, blob.BlobGasFeeCap().Cmp(big.NewInt(100)))

	// non-blob txs report zero values
	assert.Zero(t, txs[0].BlobGas())
	assert.Nil(t, txs[0].BlobHashes())
	assert.Nil(t, txs[0].BlobGasFeeCap())
}

func TestAccessListRoundTrip(t *testing.T) {
	txs := sampleTxs(t)
	enc, _ := txs[1].MarshalBinary()
	parsed := new(Transaction)
	require.NoError(t, parsed.UnmarshalBinary(enc))

	al := parsed.AccessList()
	require.Len(t, al, 1)
	assert.Equal(t, common.HexToAddress("0xb94f5374fce5edbc8e2a8697c15331677e6ebf0b"), al[0].Address)
	require.Len(t, al[0].StorageKeys, 2)
	assert.Equal(t, common.HexToHash("0x01"), al[0].StorageKeys[0])
	assert.Equal(t, 2, al.StorageKeys())
}
