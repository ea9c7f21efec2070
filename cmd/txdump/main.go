// Copyright 2025 The voltaire Authors
// This file is part of voltaire.
//
// voltaire is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// voltaire is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with voltaire. If not, see <http://www.gnu.org/licenses/>.

// txdump is a command-line tool for inspecting Ethereum transaction envelopes.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/evmts/voltaire-sub007/common/hexutil"
	"github.com/evmts/voltaire-sub007/core/types"
)

var chainIDFlag = &cli.Int64Flag{
	Name:  "chainid",
	Usage: "Chain id used for sender recovery",
	Value: 1,
}

var app = &cli.App{
	Name:  "txdump",
	Usage: "inspect RLP-encoded Ethereum transactions",
	Commands: []*cli.Command{
		{
			Name:      "decode",
			Usage:     "Decode a transaction envelope and print it as JSON",
			ArgsUsage: "<hex>",
			Action:    decodeCmd,
		},
		{
			Name:      "hash",
			Usage:     "Print the transaction hash",
			ArgsUsage: "<hex>",
			Action:    hashCmd,
		},
		{
			Name:      "sender",
			Usage:     "Recover and print the sender address",
			ArgsUsage: "<hex>",
			Flags:     []cli.Flag{chainIDFlag},
			Action:    senderCmd,
		},
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readTx reads the hex-encoded transaction from the first argument, or from
// stdin when no argument is given.
func readTx(ctx *cli.Context) (*types.Transaction, error) {
	input := ctx.Args().First()
	if input == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		input = strings.TrimSpace(string(b))
	}
	if !strings.HasPrefix(input, "0x") {
		input = "0x" + input
	}
	raw, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	return tx, nil
}

func decodeCmd(ctx *cli.Context) error {
	tx, err := readTx(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func hashCmd(ctx *cli.Context) error {
	tx, err := readTx(ctx)
	if err != nil {
		return err
	}
	fmt.Println(tx.Hash().Hex())
	return nil
}

func senderCmd(ctx *cli.Context) error {
	tx, err := readTx(ctx)
	if err != nil {
		return err
	}
	signer := types.LatestSignerForChainID(big.NewInt(ctx.Int64(chainIDFlag.Name)))
	from, err := types.Sender(signer, tx)
	if err != nil {
		return fmt.Errorf("sender recovery failed: %w", err)
	}
	fmt.Println(from.Hex())
	return nil
}
