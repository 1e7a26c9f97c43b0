package subchandb

import (
	"context"
	"errors"
	"testing"

	"github.com/lightningnetwork/dlc-subchannel/dlcwire"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/kvdb"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// makeTestStore creates a Store on a fresh test backend.
func makeTestStore(t *testing.T) (*Store, kvdb.Backend) {
	t.Helper()

	db, cleanup, err := kvdb.GetTestBackend(t.TempDir(), "subchannel")
	require.NoError(t, err)
	t.Cleanup(cleanup)

	store, err := New(db)
	require.NoError(t, err)

	return store, db
}

// acceptAll is a channel handler that accepts every message.
type acceptAll struct{}

func (acceptAll) HandleSubChannelOffer(context.Context,
	*dlcwire.SubChannelOffer) error {

	return nil
}

func (acceptAll) HandleSubChannelAccept(context.Context,
	*dlcwire.SubChannelAccept) error {

	return nil
}

func (acceptAll) HandleSubChannelConfirm(context.Context,
	*dlcwire.SubChannelConfirm) error {

	return nil
}

func (acceptAll) HandleSubChannelFinalize(context.Context,
	*dlcwire.SubChannelFinalize) error {

	return nil
}

func (acceptAll) HandleSubChannelCloseOffer(context.Context,
	*dlcwire.SubChannelCloseOffer) error {

	return nil
}

func (acceptAll) HandleSubChannelCloseAccept(context.Context,
	*dlcwire.SubChannelCloseAccept) error {

	return nil
}

func (acceptAll) HandleSubChannelCloseConfirm(context.Context,
	*dlcwire.SubChannelCloseConfirm) error {

	return nil
}

func (acceptAll) HandleSubChannelCloseFinalize(context.Context,
	*dlcwire.SubChannelCloseFinalize) error {

	return nil
}

func (acceptAll) HandleSubChannelCloseReject(context.Context,
	*dlcwire.SubChannelCloseReject) error {

	return nil
}

// TestStoreVersion checks the version handling of the database.
func TestStoreVersion(t *testing.T) {
	t.Parallel()

	_, db := makeTestStore(t)

	var version uint32
	err := kvdb.View(db, func(tx kvdb.RTx) error {
		var err error
		version, err = getDBVersion(tx)

		return err
	}, func() {})
	require.NoError(t, err)
	require.Equal(t, latestDBVersion(), version)

	// Opening the database again is fine.
	_, err = New(db)
	require.NoError(t, err)

	// A database written by a newer version is refused.
	err = kvdb.Update(db, func(tx kvdb.RwTx) error {
		return putDBVersion(tx, latestDBVersion()+1)
	}, func() {})
	require.NoError(t, err)

	_, err = New(db)
	require.ErrorContains(t, err, "newer than")
}

// TestSyncVersionsMigrations checks that the missing migrations run once and
// in order, and that a failing migration leaves the database untouched.
func TestSyncVersionsMigrations(t *testing.T) {
	t.Parallel()

	_, db := makeTestStore(t)

	markerBkt := []byte("migration-markers")

	var applied []int
	mark := func(n int) migration {
		return func(tx kvdb.RwTx) error {
			bucket, err := tx.CreateTopLevelBucket(markerBkt)
			if err != nil {
				return err
			}
			applied = append(applied, n)

			return bucket.Put([]byte{byte(n)}, []byte{1})
		}
	}
	migrations := []migration{mark(1), mark(2)}

	syncDB := func(migrations []migration) error {
		return kvdb.Update(db, func(tx kvdb.RwTx) error {
			return syncVersions(tx, migrations)
		}, func() {
			applied = nil
		})
	}
	readVersion := func() uint32 {
		var version uint32
		err := kvdb.View(db, func(tx kvdb.RTx) error {
			var err error
			version, err = getDBVersion(tx)

			return err
		}, func() {})
		require.NoError(t, err)

		return version
	}

	require.NoError(t, syncDB(migrations))
	require.Equal(t, []int{1, 2}, applied)
	require.EqualValues(t, 2, readVersion())

	// Nothing is left to run the second time.
	require.NoError(t, syncDB(migrations))
	require.Empty(t, applied)

	// A failing migration rolls the whole update back.
	failing := func(tx kvdb.RwTx) error {
		if err := mark(3)(tx); err != nil {
			return err
		}

		return errors.New("migration failed")
	}
	err := syncDB(append(migrations, failing))
	require.ErrorContains(t, err, "migration to version 3")
	require.EqualValues(t, 2, readVersion())

	err = kvdb.View(db, func(tx kvdb.RTx) error {
		bucket := tx.ReadBucket(markerBkt)
		require.NotNil(t, bucket)
		require.Nil(t, bucket.Get([]byte{3}))
		require.NotNil(t, bucket.Get([]byte{2}))

		return nil
	}, func() {})
	require.NoError(t, err)
}

// TestStoreCRUD checks the basic operations of the store.
func TestStoreCRUD(t *testing.T) {
	t.Parallel()

	store, _ := makeTestStore(t)

	var cid dlcwire.ChannelID
	cid[0] = 1

	cur, err := store.FetchSession(cid)
	require.NoError(t, err)
	require.True(t, cur.IsNone())

	sessions, err := store.ListSessions()
	require.NoError(t, err)
	require.Empty(t, sessions)

	require.ErrorIs(
		t, store.DeleteSession(cid), subchannel.ErrSessionNotFound,
	)

	// An update that fails leaves nothing behind.
	errAbort := errors.New("abort")
	err = store.UpdateSession(cid,
		func(fn.Option[*subchannel.Session]) (*subchannel.Session,
			error) {

			return nil, errAbort
		},
	)
	require.ErrorIs(t, err, errAbort)

	cur, err = store.FetchSession(cid)
	require.NoError(t, err)
	require.True(t, cur.IsNone())
}

// rejectAccept is a channel handler that refuses every accept.
type rejectAccept struct {
	acceptAll
}

func (rejectAccept) HandleSubChannelAccept(context.Context,
	*dlcwire.SubChannelAccept) error {

	return errors.New("invalid split adaptor signature")
}

// genMessage draws an example message of the given kind for the channel.
func genMessage(tm dlcwire.TestMessage, cid dlcwire.ChannelID,
	seed int) dlcwire.Message {

	msg := rapid.Custom(tm.RandTestMessage).Example(seed)
	switch m := msg.(type) {
	case *dlcwire.SubChannelOffer:
		m.ChannelID = cid
	case *dlcwire.SubChannelAccept:
		m.ChannelID = cid
	}

	return msg
}

// TestStoreManager runs sessions through a Manager backed by the store and
// checks that they persist.
func TestStoreManager(t *testing.T) {
	t.Parallel()

	dbDir := t.TempDir()
	store, err := Open(dbDir, 0)
	require.NoError(t, err)

	mgr, err := subchannel.NewManager(&subchannel.Config{
		Store:   store,
		Handler: acceptAll{},
		Clock:   clock.NewDefaultClock(),
	})
	require.NoError(t, err)

	ctx := context.Background()

	// Channels are created out of order to check the listing order.
	chanIDs := []dlcwire.ChannelID{{3}, {1}, {2}}
	for i, cid := range chanIDs {
		offer := genMessage(&dlcwire.SubChannelOffer{}, cid, i)
		_, err := mgr.Receive(ctx, offer)
		require.NoError(t, err)
	}

	require.NoError(t, store.Close())

	// Everything is still there after reopening the database.
	store, err = Open(dbDir, 0)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	sessions, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, len(chanIDs))
	for i, s := range sessions {
		require.Equal(t, dlcwire.ChannelID{byte(i + 1)}, s.ChanID)
		require.Equal(t, subchannel.OfferReceived, s.State)
		require.Equal(t, subchannel.Responder, s.Role)
	}
}

// TestStoreRollback checks that a message refused by the handler leaves the
// stored session untouched.
func TestStoreRollback(t *testing.T) {
	t.Parallel()

	store, _ := makeTestStore(t)

	mgr, err := subchannel.NewManager(&subchannel.Config{
		Store:   store,
		Handler: rejectAccept{},
	})
	require.NoError(t, err)

	ctx := context.Background()
	cid := dlcwire.ChannelID{7}

	_, _, err = mgr.Send(
		ctx, genMessage(&dlcwire.SubChannelOffer{}, cid, 1),
	)
	require.NoError(t, err)

	_, err = mgr.Receive(
		ctx, genMessage(&dlcwire.SubChannelAccept{}, cid, 2),
	)
	require.ErrorIs(t, err, subchannel.ErrHandlerRejected)

	cur, err := store.FetchSession(cid)
	require.NoError(t, err)

	s, err := cur.UnwrapOrErr(subchannel.ErrSessionNotFound)
	require.NoError(t, err)
	require.Equal(t, subchannel.OfferSent, s.State)
	require.Equal(t, subchannel.Initiator, s.Role)

	require.ErrorIs(t, mgr.ForgetSession(cid), subchannel.ErrSessionActive)
}
