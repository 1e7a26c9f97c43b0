package subchannel

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/lnutils"
	"github.com/lightningnetwork/dlc-subchannel/multimutex"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/sync/errgroup"
)

// ChannelHandler is the collaborator that owns the channel and contract
// state. It validates the cryptographic content of each incoming message and
// applies it. A message only advances the session if the handler accepts it.
type ChannelHandler interface {
	dlcwire.Handler
}

// Config houses the dependencies of the Manager.
type Config struct {
	// Store persists the sessions.
	Store SessionStore

	// Handler validates and applies incoming messages.
	Handler ChannelHandler

	// Clock is used to timestamp sessions.
	Clock clock.Clock

	// Metrics is optional.
	Metrics *Metrics
}

// Manager drives the sub-channel sessions of all channels. Messages for the
// same channel are processed one at a time, messages for different channels
// in parallel.
type Manager struct {
	cfg *Config

	chanMtx *multimutex.Mutex[dlcwire.ChannelID]
}

// NewManager creates a new Manager from the config.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Handler == nil {
		return nil, errors.New("channel handler is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewDefaultClock()
	}

	return &Manager{
		cfg:     cfg,
		chanMtx: multimutex.NewMutex[dlcwire.ChannelID](),
	}, nil
}

// Send checks that the local node may send the message in the current state
// of the channel's session, advances the session and returns the message
// framed with its type tag, ready for the transport. Secrets held by the
// message are wiped once it is serialized.
func (m *Manager) Send(ctx context.Context,
	msg dlcwire.Message) ([]byte, *Transition, error) {

	if msg == nil {
		return nil, nil, ErrNilMessage
	}

	chanID := msg.TargetChanID()

	m.chanMtx.Lock(chanID)
	defer m.chanMtx.Unlock(chanID)

	// Serialize first so an invalid message never touches the session.
	var b bytes.Buffer
	if _, err := dlcwire.WriteMessage(&b, msg, 0); err != nil {
		return nil, nil, err
	}

	transition, err := m.advance(ctx, Outgoing, msg)
	if err != nil {
		return nil, nil, err
	}

	if carrier, ok := msg.(dlcwire.SecretCarrier); ok {
		carrier.ZeroSecrets()
	}

	return b.Bytes(), transition, nil
}

// Receive processes a message received from the remote party. The channel
// handler sees the message only if it is valid for the session state, and the
// session advances only if the handler accepts it. Secrets held by the message
// are wiped once the handler is done with it.
func (m *Manager) Receive(ctx context.Context,
	msg dlcwire.Message) (*Transition, error) {

	if msg == nil {
		return nil, ErrNilMessage
	}

	chanID := msg.TargetChanID()

	m.chanMtx.Lock(chanID)
	defer m.chanMtx.Unlock(chanID)

	transition, err := m.advance(ctx, Incoming, msg)

	if carrier, ok := msg.(dlcwire.SecretCarrier); ok {
		carrier.ZeroSecrets()
	}

	return transition, err
}

// ReceiveRaw decodes a message framed with its type tag and processes it like
// Receive.
func (m *Manager) ReceiveRaw(ctx context.Context,
	raw []byte) (*Transition, error) {

	msg, err := dlcwire.ReadMessage(bytes.NewReader(raw), 0)
	if err != nil {
		m.cfg.Metrics.observeDecodeFailure()
		log.Debugf("Unable to decode incoming message %v: %v",
			lnutils.NewLogClosure(func() string {
				n := min(len(raw), 64)
				return hex.EncodeToString(raw[:n])
			}), err)

		return nil, err
	}

	return m.Receive(ctx, msg)
}

// ReceiveBatch processes a batch of received messages. Messages of different
// channels are processed in parallel while the messages of each channel are
// processed in the order they appear in the batch. Processing of a channel
// stops at its first error without affecting the other channels, and the
// errors of all failed channels are joined. The transitions are returned in
// batch order, with nil for the messages that were not processed.
func (m *Manager) ReceiveBatch(ctx context.Context,
	msgs []dlcwire.Message) ([]*Transition, error) {

	// Group the batch indexes by channel, keeping their order.
	var (
		order   []dlcwire.ChannelID
		indexes = make(map[dlcwire.ChannelID][]int)
	)
	for i, msg := range msgs {
		if msg == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilMessage, i)
		}

		chanID := msg.TargetChanID()
		if _, ok := indexes[chanID]; !ok {
			order = append(order, chanID)
		}
		indexes[chanID] = append(indexes[chanID], i)
	}

	var (
		transitions = make([]*Transition, len(msgs))
		chanErrs    = make([]error, len(order))
		g           errgroup.Group
	)
	for j, chanID := range order {
		chanIndexes := indexes[chanID]

		g.Go(func() error {
			for _, i := range chanIndexes {
				if err := ctx.Err(); err != nil {
					chanErrs[j] = err
					return nil
				}

				t, err := m.Receive(ctx, msgs[i])
				if err != nil {
					chanErrs[j] = fmt.Errorf(
						"message %d: %w", i, err,
					)

					return nil
				}
				transitions[i] = t
			}

			return nil
		})
	}

	// The goroutines only report through chanErrs.
	_ = g.Wait()

	return transitions, errors.Join(chanErrs...)
}

// Session returns a copy of the channel's session, if there is one.
func (m *Manager) Session(
	chanID dlcwire.ChannelID) (fn.Option[*Session], error) {

	return m.cfg.Store.FetchSession(chanID)
}

// Sessions returns every known session.
func (m *Manager) Sessions() ([]*Session, error) {
	return m.cfg.Store.ListSessions()
}

// ForgetSession removes the session of a channel whose sub-channel has been
// closed, so that a new one can be negotiated. Only idle or terminal sessions
// can be removed.
func (m *Manager) ForgetSession(chanID dlcwire.ChannelID) error {
	m.chanMtx.Lock(chanID)
	defer m.chanMtx.Unlock(chanID)

	cur, err := m.cfg.Store.FetchSession(chanID)
	if err != nil {
		return err
	}

	s, err := cur.UnwrapOrErr(ErrSessionNotFound)
	if err != nil {
		return err
	}

	if !s.State.IsTerminal() && s.State != Idle {
		return fmt.Errorf("%w: %v in state %v", ErrSessionActive,
			chanID, s.State)
	}

	log.Infof("Forgetting sub-channel session %v", chanID)

	return m.cfg.Store.DeleteSession(chanID)
}

// advance applies the message to the channel's session within a single store
// update. For incoming messages the channel handler runs inside the same
// update, after the session state has been checked.
//
// NOTE: the channel's mutex must be held.
func (m *Manager) advance(ctx context.Context, dir Direction,
	msg dlcwire.Message) (*Transition, error) {

	chanID := msg.TargetChanID()
	msgType := msg.MsgType()
	now := m.cfg.Clock.Now()

	var transition *Transition
	err := m.cfg.Store.UpdateSession(chanID,
		func(cur fn.Option[*Session]) (*Session, error) {
			s := cur.UnwrapOrFunc(func() *Session {
				return newSession(chanID, now)
			})

			t, err := s.apply(dir, msg, now)
			if err != nil {
				return nil, err
			}

			if dir == Incoming {
				err := dlcwire.Dispatch(ctx, msg, m.cfg.Handler)
				if err != nil {
					return nil, fmt.Errorf(
						"%w: %v: %w", ErrHandlerRejected,
						msgType, err,
					)
				}
			}

			transition = t

			return s, nil
		},
	)

	var violation *ErrSequenceViolation
	switch {
	case errors.As(err, &violation):
		m.cfg.Metrics.observeViolation(dir, msgType)
		log.WarnS(ctx, "Sub-channel message out of sequence", err,
			lnutils.LogChanID("chan_id", chanID),
			slog.String("direction", dir.String()),
			slog.String("msg_type", msgType.String()),
			slog.String("state", violation.State.String()))

		return nil, err

	case err != nil:
		m.cfg.Metrics.observeRejection(dir, msgType)
		log.WarnS(ctx, "Sub-channel message refused", err,
			lnutils.LogChanID("chan_id", chanID),
			slog.String("direction", dir.String()),
			slog.String("msg_type", msgType.String()))

		return nil, err
	}

	m.cfg.Metrics.observeTransition(transition)

	log.InfoS(ctx, "Sub-channel session advanced",
		lnutils.LogChanID("chan_id", chanID),
		slog.String("transition", transition.String()))

	// Messages revealing secrets are never dumped.
	if _, ok := msg.(dlcwire.SecretCarrier); !ok {
		log.Tracef("Sub-channel %v: %v message: %v", chanID, dir,
			lnutils.SpewLogClosure(msg))
	}

	return transition, nil
}
