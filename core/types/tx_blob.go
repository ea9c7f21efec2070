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
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/params"
	"github.com/evmts/voltaire-sub007/rlp"
)

// BlobTx is the data of EIP-4844 blob transactions.
type BlobTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int // maxPriorityFeePerGas
	GasFeeCap  *uint256.Int // maxFeePerGas
	Gas        uint64
	To         common.Address // always set, blob txs cannot create contracts
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	BlobFeeCap *uint256.Int // maxFeePerBlobGas
	BlobHashes []common.Hash

	V, R, S *uint256.Int
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *BlobTx) copy() TxData {
	cpy := &BlobTx{
		Nonce: tx.Nonce,
		To:    tx.To,
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are copied below.
		AccessList: make(AccessList, len(tx.AccessList)),
		BlobHashes: make([]common.Hash, len(tx.BlobHashes)),
		Value:      new(uint256.Int),
		ChainID:    new(uint256.Int),
		GasTipCap:  new(uint256.Int),
		GasFeeCap:  new(uint256.Int),
		BlobFeeCap: new(uint256.Int),
		V:          new(uint256.Int),
		R:          new(uint256.Int),
		S:          new(uint256.Int),
	}
	copy(cpy.AccessList, tx.AccessList)
	copy(cpy.BlobHashes, tx.BlobHashes)
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.ChainID != nil {
		cpy.ChainID.Set(tx.ChainID)
	}
	if tx.GasTipCap != nil {
		cpy.GasTipCap.Set(tx.GasTipCap)
	}
	if tx.GasFeeCap != nil {
		cpy.GasFeeCap.Set(tx.GasFeeCap)
	}
	if tx.BlobFeeCap != nil {
		cpy.BlobFeeCap.Set(tx.BlobFeeCap)
	}
	if tx.V != nil {
		cpy.V.Set(tx.V)
	}
	if tx.R != nil {
		cpy.R.Set(tx.R)
	}
	if tx.S != nil {
		cpy.S.Set(tx.S)
	}
	return cpy
}

// accessors for innerTx.
func (tx *BlobTx) txType() byte           { return BlobTxType }
func (tx *BlobTx) chainID() *big.Int      { return tx.ChainID.ToBig() }
func (tx *BlobTx) accessList() AccessList { return tx.AccessList }
func (tx *BlobTx) data() []byte           { return tx.Data }
func (tx *BlobTx) gas() uint64            { return tx.Gas }
func (tx *BlobTx) gasFeeCap() *big.Int    { return tx.GasFeeCap.ToBig() }
func (tx *BlobTx) gasTipCap() *big.Int    { return tx.GasTipCap.ToBig() }
func (tx *BlobTx) gasPrice() *big.Int     { return tx.GasFeeCap.ToBig() }
func (tx *BlobTx) value() *big.Int        { return tx.Value.ToBig() }
func (tx *BlobTx) nonce() uint64          { return tx.Nonce }
func (tx *BlobTx) to() *common.Address    { tmp := tx.To; return &tmp }

func (tx *BlobTx) blobGas() uint64 { return params.BlobTxBlobGasPerBlob * uint64(len(tx.BlobHashes)) }

func (tx *BlobTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return dst.Set(tx.GasFeeCap.ToBig())
	}
	tip := dst.Sub(tx.GasFeeCap.ToBig(), baseFee)
	if tip.Cmp(tx.GasTipCap.ToBig()) > 0 {
		tip.Set(tx.GasTipCap.ToBig())
	}
	return tip.Add(tip, baseFee)
}

func (tx *BlobTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V.ToBig(), tx.R.ToBig(), tx.S.ToBig()
}

func (tx *BlobTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID.SetFromBig(chainID)
	tx.V.SetFromBig(v)
	tx.R.SetFromBig(r)
	tx.S.SetFromBig(s)
}

// fields returns the RLP payload of the unsigned fields.
func (tx *BlobTx) fields() []byte {
	var payload []byte
	payload = rlp.AppendUint256(payload, tx.ChainID)
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = rlp.AppendUint256(payload, tx.GasTipCap)
	payload = rlp.AppendUint256(payload, tx.GasFeeCap)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = rlp.AppendString(payload, tx.To[:])
	payload = rlp.AppendUint256(payload, tx.Value)
	payload = rlp.AppendString(payload, tx.Data)
	payload = appendAccessList(payload, tx.AccessList)
	payload = rlp.AppendUint256(payload, tx.BlobFeeCap)
	payload = appendHashes(payload, tx.BlobHashes)
	return payload
}

// appendHashes encodes a flat list of 32-byte hashes.
func appendHashes(b []byte, hashes []common.Hash) []byte {
	var payload []byte
	for _, h := range hashes {
		payload = rlp.AppendString(payload, h[:])
	}
	return rlp.AppendList(b, payload)
}

// decodeHashes parses the hash list item at the front of buf.
func decodeHashes(buf []byte) ([]common.Hash, []byte, error) {
	content, rest, err := rlp.SplitList(buf)
	if err != nil {
		return nil, nil, err
	}
	hashes := []common.Hash{}
	for len(content) > 0 {
		var h common.Hash
		if h, content, err = decodeHash(content); err != nil {
			return nil, nil, err
		}
		hashes = append(hashes, h)
	}
	return hashes, rest, nil
}

func (tx *BlobTx) encode(b *bytes.Buffer) error {
	payload := tx.fields()
	payload = rlp.AppendUint256(payload, tx.V)
	payload = rlp.AppendUint256(payload, tx.R)
	payload = rlp.AppendUint256(payload, tx.S)
	b.Write(rlp.WrapList(payload))
	return nil
}

func (tx *BlobTx) decode(input []byte) error {
	content, rest, err := rlp.SplitList(input)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return rlp.ErrMoreThanOneValue
	}
	if n, err := rlp.CountItems(content); err != nil {
		return err
	} else if n != 14 {
		return fmt.Errorf("%w: got %d, want 14 for blob transaction", ErrFieldCount, n)
	}
	if tx.ChainID, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read ChainID: %w", err)
	}
	if tx.Nonce, content, err = rlp.SplitUint64(content); err != nil {
		return fmt.Errorf("read Nonce: %w", err)
	}
	if tx.GasTipCap, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read GasTipCap: %w", err)
	}
	if tx.GasFeeCap, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read GasFeeCap: %w", err)
	}
	if tx.Gas, content, err = rlp.SplitUint64(content); err != nil {
		return fmt.Errorf("read Gas: %w", err)
	}
	if tx.To, content, err = decodeAddress(content); err != nil {
		return fmt.Errorf("read To: %w", err)
	}
	if tx.Value, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read Value: %w", err)
	}
	if tx.Data, content, err = decodeBytes(content); err != nil {
		return fmt.Errorf("read Data: %w", err)
	}
	if tx.AccessList, content, err = decodeAccessList(content); err != nil {
		return fmt.Errorf("read AccessList: %w", err)
	}
	if tx.BlobFeeCap, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read BlobFeeCap: %w", err)
	}
	if tx.BlobHashes, content, err = decodeHashes(content); err != nil {
		return fmt.Errorf("read BlobHashes: %w", err)
	}
	if tx.V, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read V: %w", err)
	}
	if tx.R, content, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read R: %w", err)
	}
	if tx.S, _, err = rlp.SplitUint256(content); err != nil {
		return fmt.Errorf("read S: %w", err)
	}
	return nil
}

func (tx *BlobTx) sigHash(chainID *big.Int) common.Hash {
	return prefixedRlpHash(BlobTxType, rlp.WrapList(tx.fields()))
}
