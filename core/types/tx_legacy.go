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

// LegacyTx is the transaction data of the original Ethereum transactions.
type LegacyTx struct {
	Nonce    uint64          // nonce of sender account
	GasPrice *big.Int        // wei per gas
	Gas      uint64          // gas limit
	To       *common.Address // nil means contract creation
	Value    *big.Int        // wei amount
	Data     []byte          // contract invocation input data
	V, R, S  *big.Int        // signature values
}

// NewTransaction creates an unsigned legacy transaction.
//
// Deprecated: use NewTx instead.
func NewTransaction(nonce uint64, to common.Address, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return NewTx(&LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    amount,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
}

// NewContractCreation creates an unsigned legacy transaction with a nil
// recipient.
//
// Deprecated: use NewTx instead.
func NewContractCreation(nonce uint64, amount *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	return NewTx(&LegacyTx{
		Nonce:    nonce,
		Value:    amount,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		Nonce: tx.Nonce,
		To:    copyAddressPtr(tx.To),
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are initialized below.
		Value:    new(big.Int),
		GasPrice: new(big.Int),
		V:        new(big.Int),
		R:        new(big.Int),
		S:        new(big.Int),
	}
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.GasPrice != nil {
		cpy.GasPrice.Set(tx.GasPrice)
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
func (tx *LegacyTx) txType() byte           { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int      { return deriveChainId(tx.V) }
func (tx *LegacyTx) accessList() AccessList { return nil }
func (tx *LegacyTx) data() []byte           { return tx.Data }
func (tx *LegacyTx) gas() uint64            { return tx.Gas }
func (tx *LegacyTx) gasPrice() *big.Int     { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *big.Int    { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *big.Int    { return tx.GasPrice }
func (tx *LegacyTx) value() *big.Int        { return tx.Value }
func (tx *LegacyTx) nonce() uint64          { return tx.Nonce }
func (tx *LegacyTx) to() *common.Address    { return tx.To }

func (tx *LegacyTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	return dst.Set(tx.GasPrice)
}

func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *LegacyTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *LegacyTx) encode(b *bytes.Buffer) error {
	var payload []byte
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = rlp.AppendBigInt(payload, tx.GasPrice)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = appendAddressPtr(payload, tx.To)
	payload = rlp.AppendBigInt(payload, tx.Value)
	payload = rlp.AppendString(payload, tx.Data)
	payload = rlp.AppendBigInt(payload, tx.V)
	payload = rlp.AppendBigInt(payload, tx.R)
	payload = rlp.AppendBigInt(payload, tx.S)
	b.Write(rlp.WrapList(payload))
	return nil
}

func (tx *LegacyTx) decode(input []byte) error {
	content, rest, err := rlp.SplitList(input)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return rlp.ErrMoreThanOneValue
	}
	if n, err := rlp.CountItems(content); err != nil {
		return err
	} else if n != 9 {
		return fmt.Errorf("%w: got %d, want 9 for legacy transaction", ErrFieldCount, n)
	}
	if tx.Nonce, content, err = rlp.SplitUint64(content); err != nil {
		return fmt.Errorf("read Nonce: %w", err)
	}
	if tx.GasPrice, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read GasPrice: %w", err)
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

// sigHash computes the hash signed by the sender. For transactions replay
// protected per EIP-155 the chain id and two zero fields extend the list.
func (tx *LegacyTx) sigHash(chainID *big.Int) common.Hash {
	var payload []byte
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = rlp.AppendBigInt(payload, tx.GasPrice)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = appendAddressPtr(payload, tx.To)
	payload = rlp.AppendBigInt(payload, tx.Value)
	payload = rlp.AppendString(payload, tx.Data)
	if chainID != nil && chainID.Sign() != 0 {
		payload = rlp.AppendBigInt(payload, chainID)
		payload = rlp.AppendUint64(payload, 0)
		payload = rlp.AppendUint64(payload, 0)
	}
	return rlpHash(rlp.WrapList(payload))
}
