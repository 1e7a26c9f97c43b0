package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/subchandb"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
	"github.com/urfave/cli"
)

var listSessionsCommand = cli.Command{
	Name:     "listsessions",
	Category: "Sessions",
	Usage:    "List the stored sub-channel sessions.",
	Action:   listSessions,
}

func listSessions(ctx *cli.Context) error {
	cfg, cleanup, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := subchandb.Open(cfg.DataDir, cfg.DBTimeout)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.ListSessions()
	if err != nil {
		return err
	}

	return printSessions(os.Stdout, sessions)
}

// printSessions writes one line per session to w.
func printSessions(w io.Writer, sessions []*subchannel.Session) error {
	for _, s := range sessions {
		lastMsg := "-"
		s.LastMsgType.WhenSome(func(t dlcwire.MessageType) {
			lastMsg = t.String()
		})

		_, err := fmt.Fprintf(w, "%v role=%v state=%v last_msg=%v "+
			"close_rejects=%d secrets=%d updated=%v\n", s.ChanID,
			s.Role, s.State, lastMsg, s.NumCloseRejects,
			s.NumRevealedSecrets(),
			s.UpdatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}

	return nil
}

var forgetSessionCommand = cli.Command{
	Name:     "forgetsession",
	Category: "Sessions",
	Usage:    "Remove the session of a closed sub-channel.",
	Description: `
	Remove the stored session of a channel whose sub-channel has been
	closed, so that a new one can be negotiated. Sessions that are still
	in flight are kept.`,
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
	},
	Action: forgetSession,
}

func forgetSession(ctx *cli.Context) error {
	cid, err := parseChanID(
		ctx.String("chan_id"), ctx.String("funding_txid"),
		uint32(ctx.Uint("output_index")),
	)
	if err != nil {
		return err
	}

	cfg, cleanup, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := subchandb.Open(cfg.DataDir, cfg.DBTimeout)
	if err != nil {
		return err
	}
	defer store.Close()

	mgr, err := subchannel.NewManager(&subchannel.Config{
		Store:   store,
		Handler: &replayHandler{},
	})
	if err != nil {
		return err
	}

	if err := mgr.ForgetSession(cid); err != nil {
		return err
	}

	fmt.Printf("Removed session %v\n", cid)

	return nil
}
