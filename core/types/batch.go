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
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/evmts/voltaire-sub007/common"
)

// DecodeTransactions decodes a batch of canonical transaction encodings
// concurrently. The result preserves input order. Decoding stops at the first
// failure and the error reports the offending index.
func DecodeTransactions(encoded [][]byte) (Transactions, error) {
	txs := make(Transactions, len(encoded))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range encoded {
		i, b := i, b
		g.Go(func() error {
			tx := new(Transaction)
			if err := tx.UnmarshalBinary(b); err != nil {
				return fmt.Errorf("transaction %d: %w", i, err)
			}
			txs[i] = tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return txs, nil
}

// RecoverSenders derives the sender address of each transaction concurrently.
// The result preserves input order.
func RecoverSenders(signer Signer, txs Transactions) ([]common.Address, error) {
	senders := make([]common.Address, len(txs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			from, err := Sender(signer, tx)
			if err != nil {
				return fmt.Errorf("transaction %d: %w", i, err)
			}
			senders[i] = from
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return senders, nil
}

// HashTransactions computes the hash of each transaction concurrently. The
// result preserves input order.
func HashTransactions(txs Transactions) []common.Hash {
	hashes := make([]common.Hash, len(txs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			hashes[i] = tx.Hash()
			return nil
		})
	}
	g.Wait()
	return hashes
}
