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
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/evmts/voltaire-sub007/common"
	"github.com/evmts/voltaire-sub007/crypto"
	"github.com/evmts/voltaire-sub007/rlp"
)

// DelegationPrefix is used by code to denote the account is delegating to
// another account.
var DelegationPrefix = []byte{0xef, 0x01, 0x00}

// ParseDelegation tries to parse the address from a delegation slice.
func ParseDelegation(b []byte) (common.Address, bool) {
	if len(b) != 23 || !bytes.HasPrefix(b, DelegationPrefix) {
		return common.Address{}, false
	}
	return common.BytesToAddress(b[len(DelegationPrefix):]), true
}

// AddressToDelegation adds the delegation prefix to the specified address.
func AddressToDelegation(addr common.Address) []byte {
	return append(DelegationPrefix, addr.Bytes()...)
}

// SetCodeTx implements the EIP-7702 transaction type which temporarily installs
// the code at the signer's address.
type SetCodeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int // maxPriorityFeePerGas
	GasFeeCap  *uint256.Int // maxFeePerGas
	Gas        uint64
	To         common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList AccessList
	AuthList   []SetCodeAuthorization

	V, R, S *uint256.Int
}

// SetCodeAuthorization is an authorization from an account to deploy code at
// its address.
type SetCodeAuthorization struct {
	ChainID uint256.Int    `json:"chainId" gencodec:"required"`
	Address common.Address `json:"address" gencodec:"required"`
	Nonce   uint64         `json:"nonce" gencodec:"required"`
	V       uint8          `json:"yParity" gencodec:"required"`
	R       uint256.Int    `json:"r" gencodec:"required"`
	S       uint256.Int    `json:"s" gencodec:"required"`
}

// SignSetCode creates a signed the SetCode authorization.
func SignSetCode(prv *ecdsa.PrivateKey, auth SetCodeAuthorization) (SetCodeAuthorization, error) {
	sighash := auth.sigHash()
	sig, err := crypto.Sign(sighash[:], prv)
	if err != nil {
		return SetCodeAuthorization{}, err
	}
	r, s, _ := decodeSignature(sig)
	return SetCodeAuthorization{
		ChainID: auth.ChainID,
		Address: auth.Address,
		Nonce:   auth.Nonce,
		V:       sig[64],
		R:       *uint256.MustFromBig(r),
		S:       *uint256.MustFromBig(s),
	}, nil
}

// fields returns the RLP payload of the signed tuple members.
func (a *SetCodeAuthorization) fields() []byte {
	var payload []byte
	payload = rlp.AppendUint256(payload, &a.ChainID)
	payload = rlp.AppendString(payload, a.Address[:])
	payload = rlp.AppendUint64(payload, a.Nonce)
	return payload
}

func (a *SetCodeAuthorization) sigHash() common.Hash {
	return prefixedRlpHash(0x05, rlp.WrapList(a.fields()))
}

// Authority recovers the the authorizing account of an authorization.
func (a *SetCodeAuthorization) Authority() (common.Address, error) {
	sighash := a.sigHash()
	if !crypto.ValidateSignatureValues(a.V, a.R.ToBig(), a.S.ToBig(), true) {
		return common.Address{}, ErrInvalidSig
	}
	// encode the signature in uncompressed format
	var sig [crypto.SignatureLength]byte
	a.R.WriteToSlice(sig[:32])
	a.S.WriteToSlice(sig[32:64])
	sig[64] = a.V
	// recover the public key from the signature
	pub, err := crypto.Ecrecover(sighash[:], sig[:])
	if err != nil {
		return common.Address{}, err
	}
	if len(pub) == 0 || pub[0] != 4 {
		return common.Address{}, errors.New("invalid public key")
	}
	var addr common.Address
	copy(addr[:], crypto.Keccak256(pub[1:])[12:])
	return addr, nil
}

// appendAuthList encodes the authorization list as nested 6-item tuples.
func appendAuthList(b []byte, authList []SetCodeAuthorization) []byte {
	var payload []byte
	for i := range authList {
		auth := &authList[i]
		item := auth.fields()
		item = rlp.AppendUint64(item, uint64(auth.V))
		item = rlp.AppendUint256(item, &auth.R)
		item = rlp.AppendUint256(item, &auth.S)
		payload = rlp.AppendList(payload, item)
	}
	return rlp.AppendList(b, payload)
}

// decodeAuthList parses the authorization list item at the front of buf.
func decodeAuthList(buf []byte) ([]SetCodeAuthorization, []byte, error) {
	content, rest, err := rlp.SplitList(buf)
	if err != nil {
		return nil, nil, err
	}
	authList := []SetCodeAuthorization{}
	for len(content) > 0 {
		var item []byte
		if item, content, err = rlp.SplitList(content); err != nil {
			return nil, nil, err
		}
		if n, err := rlp.CountItems(item); err != nil {
			return nil, nil, err
		} else if n != 6 {
			return nil, nil, fmt.Errorf("%w: got %d, want 6 for authorization", ErrFieldCount, n)
		}
		var (
			auth SetCodeAuthorization
			num  *uint256.Int
			v    uint64
		)
		if num, item, err = rlp.SplitUint256(item); err != nil {
			return nil, nil, err
		}
		auth.ChainID = *num
		if auth.Address, item, err = decodeAddress(item); err != nil {
			return nil, nil, err
		}
		if auth.Nonce, item, err = rlp.SplitUint64(item); err != nil {
			return nil, nil, err
		}
		if v, item, err = rlp.SplitUint64(item); err != nil {
			return nil, nil, err
		}
		if v > 255 {
			return nil, nil, errors.New("authorization yParity out of range")
		}
		auth.V = uint8(v)
		if num, item, err = rlp.SplitUint256(item); err != nil {
			return nil, nil, err
		}
		auth.R = *num
		if num, _, err = rlp.SplitUint256(item); err != nil {
			return nil, nil, err
		}
		auth.S = *num
		authList = append(authList, auth)
	}
	return authList, rest, nil
}

// copy creates a deep copy of the transaction data and initializes all fields.
func (tx *SetCodeTx) copy() TxData {
	cpy := &SetCodeTx{
		Nonce: tx.Nonce,
		To:    tx.To,
		Data:  common.CopyBytes(tx.Data),
		Gas:   tx.Gas,
		// These are copied below.
		AccessList: make(AccessList, len(tx.AccessList)),
		AuthList:   make([]SetCodeAuthorization, len(tx.AuthList)),
		Value:      new(uint256.Int),
		ChainID:    new(uint256.Int),
		GasTipCap:  new(uint256.Int),
		GasFeeCap:  new(uint256.Int),
		V:          new(uint256.Int),
		R:          new(uint256.Int),
		S:          new(uint256.Int),
	}
	copy(cpy.AccessList, tx.AccessList)
	copy(cpy.AuthList, tx.AuthList)
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
func (tx *SetCodeTx) txType() byte           { return SetCodeTxType }
func (tx *SetCodeTx) chainID() *big.Int      { return tx.ChainID.ToBig() }
func (tx *SetCodeTx) accessList() AccessList { return tx.AccessList }
func (tx *SetCodeTx) data() []byte           { return tx.Data }
func (tx *SetCodeTx) gas() uint64            { return tx.Gas }
func (tx *SetCodeTx) gasFeeCap() *big.Int    { return tx.GasFeeCap.ToBig() }
func (tx *SetCodeTx) gasTipCap() *big.Int    { return tx.GasTipCap.ToBig() }
func (tx *SetCodeTx) gasPrice() *big.Int     { return tx.GasFeeCap.ToBig() }
func (tx *SetCodeTx) value() *big.Int        { return tx.Value.ToBig() }
func (tx *SetCodeTx) nonce() uint64          { return tx.Nonce }
func (tx *SetCodeTx) to() *common.Address    { tmp := tx.To; return &tmp }

func (tx *SetCodeTx) effectiveGasPrice(dst *big.Int, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return dst.Set(tx.GasFeeCap.ToBig())
	}
	tip := dst.Sub(tx.GasFeeCap.ToBig(), baseFee)
	if tip.Cmp(tx.GasTipCap.ToBig()) > 0 {
		tip.Set(tx.GasTipCap.ToBig())
	}
	return tip.Add(tip, baseFee)
}

func (tx *SetCodeTx) rawSignatureValues() (v, r, s *big.Int) {
	return tx.V.ToBig(), tx.R.ToBig(), tx.S.ToBig()
}

func (tx *SetCodeTx) setSignatureValues(chainID, v, r, s *big.Int) {
	tx.ChainID.SetFromBig(chainID)
	tx.V.SetFromBig(v)
	tx.R.SetFromBig(r)
	tx.S.SetFromBig(s)
}

// fields returns the RLP payload of the unsigned fields.
func (tx *SetCodeTx) fields() []byte {
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
	payload = appendAuthList(payload, tx.AuthList)
	return payload
}

func (tx *SetCodeTx) encode(b *bytes.Buffer) error {
	payload := tx.fields()
	payload = rlp.AppendUint256(payload, tx.V)
	payload = rlp.AppendUint256(payload, tx.R)
	payload = rlp.AppendUint256(payload, tx.S)
	b.Write(rlp.WrapList(payload))
	return nil
}

func (tx *SetCodeTx) decode(input []byte) error {
	content, rest, err := rlp.SplitList(input)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return rlp.ErrMoreThanOneValue
	}
	if n, err := rlp.CountItems(content); err != nil {
		return err
	} else if n != 13 {
		return fmt.Errorf("%w: got %d, want 13 for set code transaction", ErrFieldCount, n)
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
	if tx.AuthList, content, err = decodeAuthList(content); err != nil {
		return fmt.Errorf("read AuthList: %w", err)
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

func (tx *SetCodeTx) sigHash(chainID *big.Int) common.Hash {
	return prefixedRlpHash(SetCodeTxType, rlp.WrapList(tx.fields()))
}
