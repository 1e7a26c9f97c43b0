package subchandb

import (
	"bytes"
	"fmt"
	"time"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/kvdb"
)

const (
	// DefaultDBFileName is the file name of the bolt database.
	DefaultDBFileName = "subchannel.db"
)

var (
	// sessionsBkt is the top-level bucket mapping a channel id to its
	// serialized session.
	sessionsBkt = []byte("subchannel-sessions")
)

// Store is a subchannel.SessionStore backed by a kvdb backend.
type Store struct {
	db kvdb.Backend
}

// A compile time check to ensure Store implements the
// subchannel.SessionStore interface.
var _ subchannel.SessionStore = (*Store)(nil)

// New creates a Store on top of the backend, initializing or migrating the
// database as needed.
func New(db kvdb.Backend) (*Store, error) {
	err := kvdb.Update(db, func(tx kvdb.RwTx) error {
		if err := syncVersions(tx, dbVersions); err != nil {
			return err
		}

		_, err := tx.CreateTopLevelBucket(sessionsBkt)

		return err
	}, func() {})
	if err != nil {
		return nil, err
	}

	return &Store{
		db: db,
	}, nil
}

// Open opens, or creates, the bolt database in dbPath and returns a Store
// backed by it.
func Open(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout == 0 {
		timeout = kvdb.DefaultDBTimeout
	}

	db, err := kvdb.GetBoltBackend(&kvdb.BoltBackendConfig{
		DBPath:            dbPath,
		DBFileName:        DefaultDBFileName,
		NoFreelistSync:    true,
		AutoCompactMinAge: kvdb.DefaultBoltAutoCompactMinAge,
		DBTimeout:         timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open sub-channel db: %w", err)
	}

	store, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debugf("Opened sub-channel db in %v", dbPath)

	return store, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.db.Close()
}

// fetchSession reads the session of the channel from the bucket.
func fetchSession(sessions kvdb.RBucket,
	chanID dlcwire.ChannelID) (fn.Option[*subchannel.Session], error) {

	raw := sessions.Get(chanID[:])
	if raw == nil {
		return fn.None[*subchannel.Session](), nil
	}

	session, err := subchannel.DecodeSession(bytes.NewReader(raw))
	if err != nil {
		return fn.None[*subchannel.Session](), fmt.Errorf("unable to "+
			"decode session %v: %w", chanID, err)
	}

	return fn.Some(session), nil
}

// FetchSession returns the session of the channel, if there is one.
//
// NOTE: This is part of the subchannel.SessionStore interface.
func (s *Store) FetchSession(
	chanID dlcwire.ChannelID) (fn.Option[*subchannel.Session], error) {

	var session fn.Option[*subchannel.Session]
	err := kvdb.View(s.db, func(tx kvdb.RTx) error {
		sessions := tx.ReadBucket(sessionsBkt)
		if sessions == nil {
			return ErrUninitializedDB
		}

		var err error
		session, err = fetchSession(sessions, chanID)

		return err
	}, func() {
		session = fn.None[*subchannel.Session]()
	})
	if err != nil {
		return fn.None[*subchannel.Session](), err
	}

	return session, nil
}

// UpdateSession atomically reads the session of the channel, applies the
// update and writes the result back, all within a single transaction. An
// error returned by the update rolls the transaction back.
//
// NOTE: This is part of the subchannel.SessionStore interface.
func (s *Store) UpdateSession(chanID dlcwire.ChannelID,
	update subchannel.SessionUpdate) error {

	return kvdb.Update(s.db, func(tx kvdb.RwTx) error {
		sessions := tx.ReadWriteBucket(sessionsBkt)
		if sessions == nil {
			return ErrUninitializedDB
		}

		cur, err := fetchSession(sessions, chanID)
		if err != nil {
			return err
		}

		session, err := update(cur)
		if err != nil {
			return err
		}

		var b bytes.Buffer
		if err := session.Encode(&b); err != nil {
			return err
		}

		return sessions.Put(chanID[:], b.Bytes())
	}, func() {})
}

// ListSessions returns every stored session ordered by channel.
//
// NOTE: This is part of the subchannel.SessionStore interface.
func (s *Store) ListSessions() ([]*subchannel.Session, error) {
	var result []*subchannel.Session
	err := kvdb.View(s.db, func(tx kvdb.RTx) error {
		sessions := tx.ReadBucket(sessionsBkt)
		if sessions == nil {
			return ErrUninitializedDB
		}

		// Keys are iterated in byte order, which is the channel order.
		return sessions.ForEach(func(k, v []byte) error {
			session, err := subchannel.DecodeSession(
				bytes.NewReader(v),
			)
			if err != nil {
				return fmt.Errorf("unable to decode session "+
					"%x: %w", k, err)
			}

			result = append(result, session)

			return nil
		})
	}, func() {
		result = nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteSession removes the session of the channel.
//
// NOTE: This is part of the subchannel.SessionStore interface.
func (s *Store) DeleteSession(chanID dlcwire.ChannelID) error {
	return kvdb.Update(s.db, func(tx kvdb.RwTx) error {
		sessions := tx.ReadWriteBucket(sessionsBkt)
		if sessions == nil {
			return ErrUninitializedDB
		}

		if sessions.Get(chanID[:]) == nil {
			return subchannel.ErrSessionNotFound
		}

		return sessions.Delete(chanID[:])
	}, func() {})
}
