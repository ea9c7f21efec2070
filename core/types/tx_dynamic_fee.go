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

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/rlp"
)

// DynamicFeeTx is the data of EIP-1559 dynamic fee transactions.
type DynamicFeeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int // maxPriorityFeePerGas
	GasFeeCap  *big.Int // maxFeePerGas
	Gas        uint64
	To         *common.Address // nil means contract creation
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *DynamicFeeTx) copy() TxData {
	cpy := &DynamicFeeTx{
		Nonce: tx.Nonce,
		To:    copyAddressPtr(tx.To),
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are copied below.
		AccessList: make(AccessList, len(tx.AccessList)),
		Value:      new(big.Int),
		ChainID:    new(big.Int),
		GasTipCap:  new(big.Int),
		GasFeeCap:  new(big.Int),
		V:          new(big.Int),
		R:          new(big.Int),
		S:          new(big.Int),
	}
	copy(cpy.AccessList, tx.AccessList)
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
func (tx *DynamicFeeTx) txType() byte           { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int      { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList { return tx.AccessList }
func (tx *DynamicFeeTx) data() []byte           { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64            { return tx.Gas }
func (tx *DynamicFeeTx) gasFeeCap() *big.Int    { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *big.Int    { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasPrice() *big.Int     { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *big.Int        { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64          { return tx.Nonce }
func (tx *DynamicFeeTx) to() *common.Address    { return tx.To }

// effectiveGasPrice computes min(GasFeeCap, baseFee+GasTipCap). The result is
// never below baseFee unless the fee cap itself is.
func (tx *DynamicFeeTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return dst.Set(tx.GasFeeCap)
	}
	tip := dst.Sub(tx.GasFeeCap, baseFee)
	if tip.Cmp(tx.GasTipCap) > 0 {
		tip.Set(tx.GasTipCap)
	}
	return tip.Add(tip, baseFee)
}

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *DynamicFeeTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

// fields returns the RLP payload of the unsigned fields.
func (tx *DynamicFeeTx) fields() []byte {
	var payload []byte
	payload = rlp.AppendBigInt(payload, tx.ChainID)
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = rlp.AppendBigInt(payload, tx.GasTipCap)
	payload = rlp.AppendBigInt(payload, tx.GasFeeCap)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = appendAddressPtr(payload, tx.To)
	payload = rlp.AppendBigInt(payload, tx.Value)
	payload = rlp.AppendString(payload, tx.Data)
	payload = appendAccessList(payload, tx.AccessList)
	return payload
}

func (tx *DynamicFeeTx) encode(b *bytes.Buffer) error {
	payload := tx.fields()
	payload = rlp.AppendBigInt(payload, tx.V)
	payload = rlp.AppendBigInt(payload, tx.R)
	payload = rlp.AppendBigInt(payload, tx.S)
	b.Write(rlp.WrapList(payload))
	return nil
}

func (tx *DynamicFeeTx) decode(input []byte) error {
	content, rest, err := rlp.SplitList(input)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return rlp.ErrMoreThanOneValue
	}
	if n, err := rlp.CountItems(content); err != nil {
		return err
	} else if n != 12 {
		return fmt.Errorf("%w: got %d, want 12 for dynamic fee transaction", ErrFieldCount, n)
	}
	if tx.ChainID, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read ChainID: %w", err)
	}
	if tx.Nonce, content, err = rlp.SplitUint64(content); err != nil {
		return fmt.Errorf("read Nonce: %w", err)
	}
	if tx.GasTipCap, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read GasTipCap: %w", err)
	}
	if tx.GasFeeCap, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read GasFeeCap: %w", err)
	}
	if tx.Gas, content, err = rlp.SplitUint64(content); err != nil {
		return fmt.Errorf("read Gas: %w", err)
	}
	if tx.To, content, err = decodeAddressPtr(content); err != nil {
		return fmt.Errorf("read To: %w", err)
	}
	if tx.Value, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read Value: %w", err)
	}
	if tx.Data, content, err = decodeBytes(content); err != nil {
		return fmt.Errorf("read Data: %w", err)
	}
	if tx.AccessList, content, err = decodeAccessList(content); err != nil {
		return fmt.Errorf("read AccessList: %w", err)
	}
	if tx.V, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read V: %w", err)
	}
	if tx.R, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read R: %w", err)
	}
	if tx.S, _, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read S: %w", err)
	}
	return nil
}

func (tx *DynamicFeeTx) sigHash(chainID *big.Int) common.Hash {
	return prefixedRlpHash(DynamicFeeTxType, rlp.WrapList(tx.fields()))
}
