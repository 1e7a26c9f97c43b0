package subchannel

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	sessionChanIDType       tlv.Type = 0
	sessionRoleType         tlv.Type = 1
	sessionStateType        tlv.Type = 2
	sessionLastMsgType      tlv.Type = 3
	sessionCloseRejectsType tlv.Type = 4
	sessionCreatedType      tlv.Type = 5
	sessionUpdatedType      tlv.Type = 6
	sessionSecretsType      tlv.Type = 7
)

// secretDigest is the hash of a revealed secret.
type secretDigest = [32]byte

// Session is the negotiation state of the sub-channel of one channel.
type Session struct {
	// ChanID is the channel the sub-channel lives in. It never changes
	// for the lifetime of the session.
	ChanID dlcwire.ChannelID

	// Role is the part the local node plays in the open flow.
	Role Role

	// State is the current negotiation state.
	State State

	// LastMsgType is the type of the last message that advanced the
	// session.
	LastMsgType fn.Option[dlcwire.MessageType]

	// NumCloseRejects counts the close offers that were rejected.
	NumCloseRejects uint32

	// CreatedAt is the time the session saw its first message.
	CreatedAt time.Time

	// UpdatedAt is the time of the last transition.
	UpdatedAt time.Time

	// revealed holds the digests of every secret sent or received in the
	// session.
	revealed map[secretDigest]struct{}
}

// newSession creates an idle session for the channel.
func newSession(chanID dlcwire.ChannelID, now time.Time) *Session {
	return &Session{
		ChanID:    chanID,
		State:     Idle,
		CreatedAt: now,
		UpdatedAt: now,
		revealed:  make(map[secretDigest]struct{}),
	}
}

// NumRevealedSecrets returns the number of secrets revealed in the session.
func (s *Session) NumRevealedSecrets() int {
	return len(s.revealed)
}

// HasRevealed returns true if the secret has already been revealed in the
// session.
func (s *Session) HasRevealed(secret dlcwire.Secret) bool {
	_, ok := s.revealed[secret.Digest()]
	return ok
}

// recordSecrets checks that none of the secrets carried by the message have
// been revealed before and records them. Nothing is recorded if any of them is
// a repeat.
func (s *Session) recordSecrets(msg dlcwire.Message) error {
	carrier, ok := msg.(dlcwire.SecretCarrier)
	if !ok {
		return nil
	}

	secrets := carrier.RevealedSecrets()
	digests := make([]secretDigest, 0, len(secrets))
	for i := range secrets {
		digest := secrets[i].Digest()
		secrets[i].Zero()

		_, seen := s.revealed[digest]
		for _, d := range digests {
			seen = seen || d == digest
		}
		if seen {
			return fmt.Errorf("%w: %v in session %v",
				ErrSecretReuse, msg.MsgType(), s.ChanID)
		}

		digests = append(digests, digest)
	}

	for _, digest := range digests {
		s.revealed[digest] = struct{}{}
	}

	return nil
}

// apply moves the session along for the given message. The session is only
// modified if the message is valid for its current state.
func (s *Session) apply(dir Direction, msg dlcwire.Message,
	now time.Time) (*Transition, error) {

	msgType := msg.MsgType()
	if msg.TargetChanID() != s.ChanID {
		return nil, fmt.Errorf("%w: message for %v applied to %v",
			ErrChanIDMismatch, msg.TargetChanID(), s.ChanID)
	}

	role, entry, ok := lookupTransition(s.Role, s.State, dir, msgType)
	if !ok {
		return nil, newSequenceViolation(s, dir, msgType)
	}

	if err := s.recordSecrets(msg); err != nil {
		return nil, err
	}

	transition := &Transition{
		ChanID:    s.ChanID,
		MsgType:   msgType,
		Direction: dir,
		From:      s.State,
		To:        entry.next,
		Outcome:   entry.outcome,
	}

	s.Role = role
	s.State = entry.next
	s.LastMsgType = fn.Some(msgType)
	s.UpdatedAt = now
	entry.outcome.WhenSome(func(outcome State) {
		if outcome == CloseRejected {
			s.NumCloseRejects++
		}
	})

	return transition, nil
}

// Copy returns a deep copy of the session.
func (s *Session) Copy() *Session {
	c := *s
	c.revealed = make(map[secretDigest]struct{}, len(s.revealed))
	for digest := range s.revealed {
		c.revealed[digest] = struct{}{}
	}

	return &c
}

// Encode serializes the session as a TLV stream.
func (s *Session) Encode(w io.Writer) error {
	var (
		chanID       = [32]byte(s.ChanID)
		role         = uint8(s.Role)
		state        = uint8(s.State)
		lastMsg      = uint16(s.LastMsgType.UnwrapOr(0))
		closeRejects = s.NumCloseRejects
		createdAt    = uint64(s.CreatedAt.UnixNano())
		updatedAt    = uint64(s.UpdatedAt.UnixNano())
		secrets      = s.encodeDigests()
	)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(sessionChanIDType, &chanID),
		tlv.MakePrimitiveRecord(sessionRoleType, &role),
		tlv.MakePrimitiveRecord(sessionStateType, &state),
		tlv.MakePrimitiveRecord(sessionLastMsgType, &lastMsg),
		tlv.MakePrimitiveRecord(sessionCloseRejectsType, &closeRejects),
		tlv.MakePrimitiveRecord(sessionCreatedType, &createdAt),
		tlv.MakePrimitiveRecord(sessionUpdatedType, &updatedAt),
		tlv.MakePrimitiveRecord(sessionSecretsType, &secrets),
	)
	if err != nil {
		return err
	}

	return stream.Encode(w)
}

// encodeDigests concatenates the secret digests in a stable order.
func (s *Session) encodeDigests() []byte {
	digests := make([]secretDigest, 0, len(s.revealed))
	for digest := range s.revealed {
		digests = append(digests, digest)
	}

	// Sort so the same session always encodes to the same bytes.
	sort.Slice(digests, func(i, j int) bool {
		return bytes.Compare(digests[i][:], digests[j][:]) < 0
	})

	var b []byte
	for _, digest := range digests {
		b = append(b, digest[:]...)
	}

	return b
}

// DecodeSession deserializes a session written by Encode.
func DecodeSession(r io.Reader) (*Session, error) {
	var (
		chanID       [32]byte
		role         uint8
		state        uint8
		lastMsg      uint16
		closeRejects uint32
		createdAt    uint64
		updatedAt    uint64
		secrets      []byte
	)

	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(sessionChanIDType, &chanID),
		tlv.MakePrimitiveRecord(sessionRoleType, &role),
		tlv.MakePrimitiveRecord(sessionStateType, &state),
		tlv.MakePrimitiveRecord(sessionLastMsgType, &lastMsg),
		tlv.MakePrimitiveRecord(sessionCloseRejectsType, &closeRejects),
		tlv.MakePrimitiveRecord(sessionCreatedType, &createdAt),
		tlv.MakePrimitiveRecord(sessionUpdatedType, &updatedAt),
		tlv.MakePrimitiveRecord(sessionSecretsType, &secrets),
	)
	if err != nil {
		return nil, err
	}

	if err := stream.Decode(r); err != nil {
		return nil, err
	}

	if !State(state).valid() {
		return nil, fmt.Errorf("invalid session state: %d", state)
	}
	if role > uint8(Responder) {
		return nil, fmt.Errorf("invalid session role: %d", role)
	}
	if len(secrets)%len(secretDigest{}) != 0 {
		return nil, fmt.Errorf("invalid secret digests length: %d",
			len(secrets))
	}

	s := &Session{
		ChanID:          chanID,
		Role:            Role(role),
		State:           State(state),
		NumCloseRejects: closeRejects,
		CreatedAt:       time.Unix(0, int64(createdAt)),
		UpdatedAt:       time.Unix(0, int64(updatedAt)),
		revealed:        make(map[secretDigest]struct{}),
	}
	if lastMsg != 0 {
		s.LastMsgType = fn.Some(dlcwire.MessageType(lastMsg))
	}
	for i := 0; i < len(secrets); i += len(secretDigest{}) {
		var digest secretDigest
		copy(digest[:], secrets[i:])
		s.revealed[digest] = struct{}{}
	}

	return s, nil
}

// Transition describes the effect a message had on a session.
type Transition struct {
	// ChanID is the channel of the session.
	ChanID dlcwire.ChannelID

	// MsgType is the type of the message that caused the transition.
	MsgType dlcwire.MessageType

	// Direction tells whether the message was sent or received.
	Direction Direction

	// From is the state before the message.
	From State

	// To is the state the session rests in after the message.
	To State

	// Outcome is set when the message has an outcome other than the
	// resting state, such as a rejected close.
	Outcome fn.Option[State]
}

// String returns a human readable version of the transition.
func (t *Transition) String() string {
	outcome := fn.MapOptionZ(t.Outcome, func(s State) string {
		return fmt.Sprintf(" (%v)", s)
	})

	return fmt.Sprintf("%v %v: %v -> %v%s", t.Direction, t.MsgType,
		t.From, t.To, outcome)
}
