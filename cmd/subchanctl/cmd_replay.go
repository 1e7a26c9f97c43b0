package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/subchandb"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
)

var replayCommand = cli.Command{
	Name:      "replay",
	Category:  "Sessions",
	Usage:     "Replay a captured message exchange.",
	ArgsUsage: "file",
	Description: `
	Feed a captured exchange through the sub-channel state machine and
	print the effect of each message. Every line of the file is either
	empty, a comment starting with #, or a direction followed by the hex
	encoded message including its type tag:

	    send a81a0000...
	    recv a81c0000...

	Sessions are stored in the session database of the data dir unless
	--memory is set, so a replay continues where the previous one left
	off.`,
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "memory",
			Usage: "Keep the sessions in memory only.",
		},
		cli.BoolFlag{
			Name: "keep_going",
			Usage: "Continue with the next line when a message " +
				"is refused.",
		},
		cli.BoolFlag{
			Name: "batch",
			Usage: "Process consecutive received messages as a " +
				"single batch.",
		},
		cli.BoolFlag{
			Name:  "metrics",
			Usage: "Print the message counters at the end.",
		},
	},
	Action: replay,
}

func replay(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "replay")
	}

	cfg, cleanup, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	store := subchannel.NewMemStore()
	if !ctx.Bool("memory") {
		dbStore, err := subchandb.Open(cfg.DataDir, cfg.DBTimeout)
		if err != nil {
			return err
		}
		defer dbStore.Close()

		store = dbStore
	}

	registry := prometheus.NewRegistry()
	metrics, err := subchannel.NewMetrics(registry)
	if err != nil {
		return err
	}

	mgr, err := subchannel.NewManager(&subchannel.Config{
		Store:   store,
		Handler: &replayHandler{},
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	r := &replayer{
		mgr:       mgr,
		out:       os.Stdout,
		keepGoing: ctx.Bool("keep_going"),
		batch:     ctx.Bool("batch"),
	}
	err = r.run(context.Background(), f)

	if ctx.Bool("metrics") {
		if mErr := printMetrics(os.Stdout, registry); mErr != nil {
			return mErr
		}
	}

	return err
}

// pendingRecv is a received message waiting for its batch.
type pendingRecv struct {
	line int
	msg  dlcwire.Message
}

// replayer feeds the lines of a capture to a Manager.
type replayer struct {
	mgr *subchannel.Manager
	out io.Writer

	// keepGoing continues after a refused message.
	keepGoing bool

	// batch groups consecutive received messages.
	batch bool

	pending []pendingRecv
}

// run replays every line read from in.
func (r *replayer) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(nil, 1<<24)

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := r.replayLine(ctx, lineNum, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	return r.flush(ctx)
}

// replayLine processes a single line of the capture.
func (r *replayer) replayLine(ctx context.Context, lineNum int,
	line string) error {

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return fmt.Errorf("line %d: expected <send|recv> <hex>",
			lineNum)
	}

	raw, err := hex.DecodeString(fields[1])
	if err != nil {
		return fmt.Errorf("line %d: invalid hex: %w", lineNum, err)
	}

	switch fields[0] {
	case "send":
		if err := r.flush(ctx); err != nil {
			return err
		}

		msg, err := dlcwire.ReadMessage(bytes.NewReader(raw), 0)
		if err != nil {
			return r.report(lineNum, nil, err)
		}

		_, t, err := r.mgr.Send(ctx, msg)

		return r.report(lineNum, t, err)

	case "recv":
		if !r.batch {
			t, err := r.mgr.ReceiveRaw(ctx, raw)
			return r.report(lineNum, t, err)
		}

		msg, err := dlcwire.ReadMessage(bytes.NewReader(raw), 0)
		if err != nil {
			return r.report(lineNum, nil, err)
		}
		r.pending = append(r.pending, pendingRecv{lineNum, msg})

		return nil

	default:
		return fmt.Errorf("line %d: unknown direction %q", lineNum,
			fields[0])
	}
}

// flush processes the pending received messages as one batch.
func (r *replayer) flush(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}

	pending := r.pending
	r.pending = nil

	msgs := make([]dlcwire.Message, len(pending))
	for i, p := range pending {
		msgs[i] = p.msg
	}

	transitions, batchErr := r.mgr.ReceiveBatch(ctx, msgs)
	for i, t := range transitions {
		if t != nil {
			err := r.report(pending[i].line, t, nil)
			if err != nil {
				return err
			}
		}
	}

	if batchErr != nil {
		return r.report(pending[len(pending)-1].line, nil, batchErr)
	}

	return nil
}

// report prints the outcome of a line. Errors are returned unless the
// replayer keeps going.
func (r *replayer) report(lineNum int, t *subchannel.Transition,
	err error) error {

	if err != nil {
		fmt.Fprintf(r.out, "line %d: refused: %v\n", lineNum, err)
		if r.keepGoing {
			return nil
		}

		return fmt.Errorf("line %d: %w", lineNum, err)
	}

	_, err = fmt.Fprintf(r.out, "line %d: %v %v\n", lineNum, t.ChanID, t)

	return err
}

// printMetrics writes the counters of the registry to w.
func printMetrics(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, family := range families {
		for _, m := range family.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q",
					l.GetName(), l.GetValue()))
			}

			lines = append(lines, fmt.Sprintf("%s{%s} %v",
				family.GetName(), strings.Join(labels, ","),
				m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
