package main

import "github.com/urfave/cli/v2"

var (
	stateFileFlag = &cli.StringFlag{
		Name:     "state-file",
		Usage:    "Path to a JSON beacon state snapshot (a get-state API response body)",
		Required: true,
	}
	prevStateFileFlag = &cli.StringFlag{
		Name:  "prev-state-file",
		Usage: "Path to a JSON beacon state snapshot taken VectorSize slots before state-file, used to derive the historical roots this module must inject",
	}
	prevStateRootFlag = &cli.StringFlag{
		Name:  "prev-state-root",
		Usage: "0x-prefixed 32-byte historical state root, as an alternative to --prev-state-file",
	}
	prevBlockRootFlag = &cli.StringFlag{
		Name:  "prev-block-root",
		Usage: "0x-prefixed 32-byte historical block root, as an alternative to --prev-state-file",
	}
	validatorFlag = &cli.StringFlag{
		Name:  "validator",
		Usage: "Validator identifier: a decimal index or a 0x-prefixed 48-byte pubkey",
	}
)

var appFlags = []cli.Flag{
	stateFileFlag,
	prevStateFileFlag,
	prevStateRootFlag,
	prevBlockRootFlag,
	validatorFlag,
}
