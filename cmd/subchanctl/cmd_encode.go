package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/urfave/cli"
)

var encodeCloseCommand = cli.Command{
	Name:     "encodeclose",
	Category: "Messages",
	Usage:    "Encode a close offer or a close reject.",
	Description: `
	Encode a SubChannelCloseOffer, or a SubChannelCloseReject if --reject
	is set, for the given channel and print it as hex, starting with its
	two byte type tag.

	The channel is either given by its id or by its funding outpoint.`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "chan_id",
			Usage: "The 32 byte channel id as hex.",
		},
		cli.StringFlag{
			Name:  "funding_txid",
			Usage: "The txid of the channel's funding transaction.",
		},
		cli.UintFlag{
			Name:  "output_index",
			Usage: "The output index of the funding transaction.",
		},
		cli.Int64Flag{
			Name: "accept_balance",
			Usage: "The balance in satoshis the accepting party " +
				"gets back.",
		},
		cli.BoolFlag{
			Name:  "reject",
			Usage: "Encode a close reject instead.",
		},
	},
	Action: encodeClose,
}

func encodeClose(ctx *cli.Context) error {
	cid, err := parseChanID(
		ctx.String("chan_id"), ctx.String("funding_txid"),
		uint32(ctx.Uint("output_index")),
	)
	if err != nil {
		return err
	}

	var msg dlcwire.Message
	if ctx.Bool("reject") {
		msg = dlcwire.NewSubChannelCloseReject(cid)
	} else {
		msg = dlcwire.NewSubChannelCloseOffer(
			cid, btcutil.Amount(ctx.Int64("accept_balance")),
		)
	}

	return encodeMessage(os.Stdout, msg)
}

// parseChanID builds the channel id from either its hex encoding or the
// funding outpoint.
func parseChanID(chanIDHex, fundingTxid string,
	outputIndex uint32) (dlcwire.ChannelID, error) {

	var cid dlcwire.ChannelID
	switch {
	case chanIDHex != "" && fundingTxid != "":
		return cid, errors.New("chan_id and funding_txid are " +
			"mutually exclusive")

	case chanIDHex != "":
		b, err := hex.DecodeString(chanIDHex)
		if err != nil {
			return cid, fmt.Errorf("invalid chan_id: %w", err)
		}
		if len(b) != len(cid) {
			return cid, fmt.Errorf("chan_id must be %d bytes, "+
				"got %d", len(cid), len(b))
		}
		copy(cid[:], b)

		return cid, nil

	case fundingTxid != "":
		txid, err := chainhash.NewHashFromStr(fundingTxid)
		if err != nil {
			return cid, fmt.Errorf("invalid funding_txid: %w", err)
		}

		return dlcwire.NewChanIDFromOutPoint(
			*wire.NewOutPoint(txid, outputIndex),
		), nil

	default:
		return cid, errors.New("chan_id or funding_txid required")
	}
}

// encodeMessage writes the framed message as hex to w.
func encodeMessage(w io.Writer, msg dlcwire.Message) error {
	var b bytes.Buffer
	if _, err := dlcwire.WriteMessage(&b, msg, 0); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, hex.EncodeToString(b.Bytes()))

	return err
}
