package subchannel

import (
	"bytes"
	"sort"
	"sync"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// SessionUpdate computes the new version of a session from its current one,
// which is None if the channel has no session yet. Returning an error aborts
// the update without writing anything.
type SessionUpdate func(cur fn.Option[*Session]) (*Session, error)

// SessionStore persists sub-channel sessions keyed by channel.
type SessionStore interface {
	// FetchSession returns the session of the channel, if there is one.
	FetchSession(chanID dlcwire.ChannelID) (fn.Option[*Session], error)

	// UpdateSession atomically reads the session of the channel, applies
	// the update and writes the result back.
	UpdateSession(chanID dlcwire.ChannelID, update SessionUpdate) error

	// ListSessions returns every stored session ordered by channel.
	ListSessions() ([]*Session, error)

	// DeleteSession removes the session of the channel.
	DeleteSession(chanID dlcwire.ChannelID) error
}

// memStore is an in-memory SessionStore. Sessions are held in their encoded
// form so callers never share state with the store.
type memStore struct {
	sessions map[dlcwire.ChannelID][]byte

	mu sync.Mutex
}

// A compile time check to ensure memStore implements the SessionStore
// interface.
var _ SessionStore = (*memStore)(nil)

// NewMemStore creates a SessionStore that lives in memory.
func NewMemStore() SessionStore {
	return &memStore{
		sessions: make(map[dlcwire.ChannelID][]byte),
	}
}

// fetch decodes the session of the channel.
//
// NOTE: the store's mutex must be held.
func (m *memStore) fetch(
	chanID dlcwire.ChannelID) (fn.Option[*Session], error) {

	raw, ok := m.sessions[chanID]
	if !ok {
		return fn.None[*Session](), nil
	}

	s, err := DecodeSession(bytes.NewReader(raw))
	if err != nil {
		return fn.None[*Session](), err
	}

	return fn.Some(s), nil
}

// FetchSession returns the session of the channel, if there is one.
//
// NOTE: This is part of the SessionStore interface.
func (m *memStore) FetchSession(
	chanID dlcwire.ChannelID) (fn.Option[*Session], error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fetch(chanID)
}

// UpdateSession atomically reads the session of the channel, applies the
// update and writes the result back.
//
// NOTE: This is part of the SessionStore interface.
func (m *memStore) UpdateSession(chanID dlcwire.ChannelID,
	update SessionUpdate) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.fetch(chanID)
	if err != nil {
		return err
	}

	s, err := update(cur)
	if err != nil {
		return err
	}

	var b bytes.Buffer
	if err := s.Encode(&b); err != nil {
		return err
	}
	m.sessions[chanID] = b.Bytes()

	return nil
}

// ListSessions returns every stored session ordered by channel.
//
// NOTE: This is part of the SessionStore interface.
func (m *memStore) ListSessions() ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, raw := range m.sessions {
		s, err := DecodeSession(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return bytes.Compare(
			sessions[i].ChanID[:], sessions[j].ChanID[:],
		) < 0
	})

	return sessions, nil
}

// DeleteSession removes the session of the channel.
//
// NOTE: This is part of the SessionStore interface.
func (m *memStore) DeleteSession(chanID dlcwire.ChannelID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[chanID]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, chanID)

	return nil
}
