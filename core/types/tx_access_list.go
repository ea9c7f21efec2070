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

// AccessList is an EIP-2930 access list.
type AccessList []AccessTuple

// AccessTuple is the element type of an access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// StorageKeys returns the total number of storage keys in the access list.
func (al AccessList) StorageKeys() int {
	sum := 0
	for _, tuple := range al {
		sum += len(tuple.StorageKeys)
	}
	return sum
}

// appendAccessList encodes al as a nested list of [address, [key...]] tuples.
func appendAccessList(b []byte, al AccessList) []byte {
	var payload []byte
	for _, tuple := range al {
		var item []byte
		item = rlp.AppendString(item, tuple.Address[:])
		var keys []byte
		for _, key := range tuple.StorageKeys {
			keys = rlp.AppendString(keys, key[:])
		}
		item = rlp.AppendList(item, keys)
		payload = rlp.AppendList(payload, item)
	}
	return rlp.AppendList(b, payload)
}

// decodeAccessList parses the access list item at the front of buf.
func decodeAccessList(buf []byte) (AccessList, []byte, error) {
	content, rest, err := rlp.SplitList(buf)
	if err != nil {
		return nil, nil, err
	}
	al := AccessList{}
	for len(content) > 0 {
		var item []byte
		if item, content, err = rlp.SplitList(content); err != nil {
			return nil, nil, err
		}
		if n, err := rlp.CountItems(item); err != nil {
			return nil, nil, err
		} else if n != 2 {
			return nil, nil, fmt.Errorf("%w: got %d, want 2 for access tuple", ErrFieldCount, n)
		}
		var tuple AccessTuple
		if tuple.Address, item, err = decodeAddress(item); err != nil {
			return nil, nil, err
		}
		var keys []byte
		if keys, _, err = rlp.SplitList(item); err != nil {
			return nil, nil, err
		}
		tuple.StorageKeys = []common.Hash{}
		for len(keys) > 0 {
			var key common.Hash
			if key, keys, err = decodeHash(keys); err != nil {
				return nil, nil, err
			}
			tuple.StorageKeys = append(tuple.StorageKeys, key)
		}
		al = append(al, tuple)
	}
	return al, rest, nil
}

// AccessListTx is the data of EIP-2930 access list transactions.
type AccessListTx struct {
	ChainID    *big.Int        // destination chain ID
	Nonce      uint64          // nonce of sender account
	GasPrice   *big.Int        // wei per gas
	Gas        uint64          // gas limit
	To         *common.Address // nil means contract creation
	Value      *big.Int        // wei amount
	Data       []byte          // contract invocation input data
	AccessList AccessList      // EIP-2930 access list
	V, R, S    *big.Int        // signature values
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *AccessListTx) copy() TxData {
	cpy := &AccessListTx{
		Nonce: tx.Nonce,
		To:    copyAddressPtr(tx.To),
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are copied below.
		AccessList: make(AccessList, len(tx.AccessList)),
		Value:      new(big.Int),
		ChainID:    new(big.Int),
		GasPrice:   new(big.Int),
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
func (tx *AccessListTx) txType() byte           { return AccessListTxType }
func (tx *AccessListTx) chainID() *big.Int      { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList { return tx.AccessList }
func (tx *AccessListTx) data() []byte           { return tx.Data }
func (tx *AccessListTx) gas() uint64            { return tx.Gas }
func (tx *AccessListTx) gasPrice() *big.Int     { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) value() *big.Int        { return tx.Value }
func (tx *AccessListTx) nonce() uint64          { return tx.Nonce }
func (tx *AccessListTx) to() *common.Address    { return tx.To }

func (tx *AccessListTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	return dst.Set(tx.GasPrice)
}

func (tx *AccessListTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *AccessListTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID, tx.V, tx.R, tx.S = chainID, v, r, s
}

// fields returns the RLP payload of the unsigned fields.
func (tx *AccessListTx) fields() []byte {
	var payload []byte
	payload = rlp.AppendBigInt(payload, tx.ChainID)
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = rlp.AppendBigInt(payload, tx.GasPrice)
	payload = rlp.AppendUint64(payload, tx.Gas)
	payload = appendAddressPtr(payload, tx.To)
	payload = rlp.AppendBigInt(payload, tx.Value)
	payload = rlp.AppendString(payload, tx.Data)
	payload = appendAccessList(payload, tx.AccessList)
	return payload
}

func (tx *AccessListTx) encode(b *bytes.Buffer) error {
	payload := tx.fields()
	payload = rlp.AppendBigInt(payload, tx.V)
	payload = rlp.AppendBigInt(payload, tx.R)
	payload = rlp.AppendBigInt(payload, tx.S)
	b.Write(rlp.WrapList(payload))
	return nil
}

func (tx *AccessListTx) decode(input []byte) error {
	content, rest, err := rlp.SplitList(input)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return rlp.ErrMoreThanOneValue
	}
	if n, err := rlp.CountItems(content); err != nil {
		return err
	} else if n != 11 {
		return fmt.Errorf("%w: got %d, want 11 for access list transaction", ErrFieldCount, n)
	}
	if tx.ChainID, content, err = rlp.SplitBigInt(content); err != nil {
		return fmt.Errorf("read ChainID: %w", err)
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

func (tx *AccessListTx) sigHash(chainID *big.Int) common.Hash {
	return prefixedRlpHash(AccessListTxType, rlp.WrapList(tx.fields()))
}
