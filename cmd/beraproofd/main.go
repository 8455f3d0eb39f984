// Package main implements beraproofd, a command-line tool that computes
// Berachain BeaconState roots and Merkle inclusion proofs for a validator's
// record or balance chunk from a JSON state snapshot.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	joonix "github.com/joonix/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/berachain/beacon-ssz-proofs/beacon"
	"github.com/berachain/beacon-ssz-proofs/shared/cmd"
	"github.com/berachain/beacon-ssz-proofs/shared/logutil"
	"github.com/berachain/beacon-ssz-proofs/shared/version"
)

var log = logrus.WithField("prefix", "main")

func loadStateFile(path string) (*beacon.BeaconState, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read state file %q", path)
	}
	return beacon.LoadState(body)
}

// resolveHistoricalRoots derives (prevStateRoot, prevBlockRoot) from either
// an explicit pair of root flags or a second state snapshot taken
// VectorSize slots earlier, per DeriveHistoricalRoots.
func resolveHistoricalRoots(ctx *cli.Context) (prevStateRoot, prevBlockRoot [32]byte, err error) {
	if ctx.IsSet(prevStateRootFlag.Name) && ctx.IsSet(prevBlockRootFlag.Name) {
		sr, err := decodeRootFlag(ctx.String(prevStateRootFlag.Name))
		if err != nil {
			return [32]byte{}, [32]byte{}, errors.Wrap(err, "prev-state-root")
		}
		br, err := decodeRootFlag(ctx.String(prevBlockRootFlag.Name))
		if err != nil {
			return [32]byte{}, [32]byte{}, errors.Wrap(err, "prev-block-root")
		}
		return sr, br, nil
	}
	if ctx.IsSet(prevStateFileFlag.Name) {
		old, err := loadStateFile(ctx.String(prevStateFileFlag.Name))
		if err != nil {
			return [32]byte{}, [32]byte{}, err
		}
		return beacon.DeriveHistoricalRoots(old)
	}
	return [32]byte{}, [32]byte{}, errors.Wrap(beacon.ErrMissingHistoricalRoots,
		"supply either --prev-state-file or both --prev-state-root and --prev-block-root")
}

func decodeRootFlag(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(trimHexPrefix(s))
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, errors.Errorf("expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func rootHex(r [32]byte) string {
	return "0x" + hex.EncodeToString(r[:])
}

func cmdStateRoot(ctx *cli.Context) error {
	state, err := loadStateFile(ctx.String(stateFileFlag.Name))
	if err != nil {
		return err
	}
	prevStateRoot, prevBlockRoot, err := resolveHistoricalRoots(ctx)
	if err != nil {
		return err
	}
	root, err := beacon.ComputeStateRoot(state, prevStateRoot, prevBlockRoot)
	if err != nil {
		return err
	}
	fmt.Println(rootHex(root))
	return nil
}

func cmdValidatorProof(ctx *cli.Context) error {
	state, err := loadStateFile(ctx.String(stateFileFlag.Name))
	if err != nil {
		return err
	}
	prevStateRoot, prevBlockRoot, err := resolveHistoricalRoots(ctx)
	if err != nil {
		return err
	}
	proof, err := beacon.GenerateValidatorProof(state, ctx.String(validatorFlag.Name), prevStateRoot, prevBlockRoot)
	if err != nil {
		return err
	}
	printProof("root", proof.Root, proof.GIndex, proof.Proof)
	return nil
}

func cmdBalanceProof(ctx *cli.Context) error {
	state, err := loadStateFile(ctx.String(stateFileFlag.Name))
	if err != nil {
		return err
	}
	prevStateRoot, prevBlockRoot, err := resolveHistoricalRoots(ctx)
	if err != nil {
		return err
	}
	proof, err := beacon.GenerateBalanceProof(state, ctx.String(validatorFlag.Name), prevStateRoot, prevBlockRoot)
	if err != nil {
		return err
	}
	printProof("root", proof.Root, proof.GIndex, proof.Proof)
	return nil
}

func cmdCombinedProof(ctx *cli.Context) error {
	state, err := loadStateFile(ctx.String(stateFileFlag.Name))
	if err != nil {
		return err
	}
	prevStateRoot, prevBlockRoot, err := resolveHistoricalRoots(ctx)
	if err != nil {
		return err
	}
	proof, err := beacon.GenerateCombinedProof(state, ctx.String(validatorFlag.Name), prevStateRoot, prevBlockRoot)
	if err != nil {
		return err
	}
	printProof("validator", proof.Validator.Root, proof.Validator.GIndex, proof.Validator.Proof)
	printProof("balance", proof.Balance.Root, proof.Balance.GIndex, proof.Balance.Proof)
	return nil
}

func printProof(label string, root [32]byte, gindex uint64, proof [][32]byte) {
	fmt.Printf("%s_root: %s\n", label, rootHex(root))
	fmt.Printf("%s_gindex: %d\n", label, gindex)
	for i, sibling := range proof {
		fmt.Printf("%s_proof[%d]: %s\n", label, i, rootHex(sibling))
	}
}

var commands = []*cli.Command{
	{
		Name:   "state-root",
		Usage:  "Compute a BeaconState's hash_tree_root after the pre-merkleization mutation",
		Flags:  appFlags,
		Action: cmdStateRoot,
	},
	{
		Name:   "validator-proof",
		Usage:  "Generate a Merkle inclusion proof for a validator record",
		Flags:  appFlags,
		Action: cmdValidatorProof,
	},
	{
		Name:   "balance-proof",
		Usage:  "Generate a Merkle inclusion proof for a validator's balance chunk",
		Flags:  appFlags,
		Action: cmdBalanceProof,
	},
	{
		Name:   "combined-proof",
		Usage:  "Generate both a validator-record proof and a balance-chunk proof from one mutated state",
		Flags:  appFlags,
		Action: cmdCombinedProof,
	},
}

func main() {
	app := cli.App{}
	app.Name = "beraproofd"
	app.Usage = "computes Berachain BeaconState roots and Merkle inclusion proofs from a JSON state snapshot"
	app.Version = version.GetVersion()
	app.Commands = commands
	app.Flags = cmd.WrapFlags([]cli.Flag{
		cmd.VerbosityFlag,
		cmd.DataDirFlag,
		cmd.LogFileName,
		cmd.LogFormat,
		cmd.ConfigFileFlag,
	})

	app.Before = func(ctx *cli.Context) error {
		if ctx.IsSet(cmd.ConfigFileFlag.Name) {
			if err := altsrc.InitInputSourceWithContext(
				app.Flags,
				altsrc.NewYamlSourceFromFlagFunc(cmd.ConfigFileFlag.Name))(ctx); err != nil {
				return err
			}
		}

		verbosity := ctx.String(cmd.VerbosityFlag.Name)
		level, err := logrus.ParseLevel(verbosity)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		format := ctx.String(cmd.LogFormat.Name)
		switch format {
		case "text":
			formatter := new(prefixed.TextFormatter)
			formatter.TimestampFormat = "2006-01-02 15:04:05"
			formatter.FullTimestamp = true
			formatter.DisableColors = ctx.String(cmd.LogFileName.Name) != ""
			logrus.SetFormatter(formatter)
		case "fluentd":
			logrus.SetFormatter(joonix.NewFormatter())
		case "json":
			logrus.SetFormatter(&logrus.JSONFormatter{})
		default:
			return fmt.Errorf("unknown log format %s", format)
		}

		if logFileName := ctx.String(cmd.LogFileName.Name); logFileName != "" {
			if err := logutil.ConfigurePersistentLogging(logFileName, format); err != nil {
				log.WithError(err).Error("Failed to configure logging to disk.")
			}
		}

		runtime.GOMAXPROCS(runtime.NumCPU())
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
