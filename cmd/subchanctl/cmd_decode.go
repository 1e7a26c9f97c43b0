package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/lightningnetwork/dlc-subchannel/build"
	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/urfave/cli"
)

var decodeCommand = cli.Command{
	Name:      "decode",
	Category:  "Messages",
	Usage:     "Decode a sub-channel message.",
	ArgsUsage: "hex",
	Description: `
	Decode a sub-channel message given as hex, starting with its two byte
	type tag, and dump its fields.`,
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "secrets",
			Usage: "Include revealed secrets in the dump. " +
				"Only honoured by dev builds.",
		},
	},
	Action: decode,
}

func decode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "decode")
	}

	showSecrets := ctx.Bool("secrets")
	if showSecrets && !build.IsDevBuild() {
		return fmt.Errorf("--secrets requires a dev build, this is a "+
			"%v build", build.Deployment)
	}

	return decodeMessage(os.Stdout, ctx.Args().First(), showSecrets)
}

// decodeMessage decodes the hex encoded framed message and writes a dump of
// it to w. Secrets are wiped from the dump unless showSecrets is set.
func decodeMessage(w io.Writer, hexMsg string, showSecrets bool) error {
	raw, err := hex.DecodeString(strings.TrimSpace(hexMsg))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}

	msg, err := dlcwire.ReadMessage(bytes.NewReader(raw), 0)
	if err != nil {
		return fmt.Errorf("unable to decode message: %w", err)
	}

	if carrier, ok := msg.(dlcwire.SecretCarrier); ok && !showSecrets {
		carrier.ZeroSecrets()
	}

	fmt.Fprintf(w, "type: %v (%d)\n", msg.MsgType(), msg.MsgType())
	fmt.Fprintf(w, "channel: %v\n", msg.TargetChanID())

	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(w, msg)

	return nil
}
