package subchandb

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/kvdb"
)

var (
	// metadataBkt is the top-level bucket holding the database version.
	metadataBkt = []byte("subchannel-metadata")

	// dbVersionKey is the key of the database version in the metadata
	// bucket.
	dbVersionKey = []byte("version")

	// byteOrder is the byte order of all integers stored in the
	// database.
	byteOrder = binary.BigEndian

	// ErrUninitializedDB is returned when the metadata bucket is missing.
	ErrUninitializedDB = errors.New("sub-channel db not initialized")

	// ErrNoDBVersion is returned when the metadata bucket has no valid
	// version.
	ErrNoDBVersion = errors.New("sub-channel db has no version")
)

// migration upgrades the database from the prior version.
type migration func(tx kvdb.RwTx) error

// dbVersions lists the migrations of every version after the first. The
// database version is the number of migrations applied. The session record
// has not changed since the first version, so the list is still empty.
var dbVersions []migration

// latestDBVersion returns the version a fully migrated database has.
func latestDBVersion() uint32 {
	return uint32(len(dbVersions))
}

// getDBVersion reads the database version from the metadata bucket.
func getDBVersion(tx kvdb.RTx) (uint32, error) {
	metadata := tx.ReadBucket(metadataBkt)
	if metadata == nil {
		return 0, ErrUninitializedDB
	}

	versionBytes := metadata.Get(dbVersionKey)
	if len(versionBytes) != 4 {
		return 0, ErrNoDBVersion
	}

	return byteOrder.Uint32(versionBytes), nil
}

// putDBVersion writes the database version to the metadata bucket, creating
// the bucket if needed.
func putDBVersion(tx kvdb.RwTx, version uint32) error {
	metadata, err := tx.CreateTopLevelBucket(metadataBkt)
	if err != nil {
		return err
	}

	var b [4]byte
	byteOrder.PutUint32(b[:], version)

	return metadata.Put(dbVersionKey, b[:])
}

// syncVersions initializes a fresh database or brings an existing one up to
// the latest version, running the migrations it is missing in order.
func syncVersions(tx kvdb.RwTx, migrations []migration) error {
	latest := uint32(len(migrations))

	version, err := getDBVersion(tx)
	switch {
	case errors.Is(err, ErrUninitializedDB):
		log.Infof("Initializing sub-channel db at version %d", latest)

		return putDBVersion(tx, latest)

	case err != nil:
		return err
	}

	switch {
	case version == latest:
		return nil

	case version > latest:
		return fmt.Errorf("sub-channel db version %d is newer than "+
			"the latest known version %d", version, latest)
	}

	for v := version; v < latest; v++ {
		log.Infof("Applying sub-channel db migration to version %d",
			v+1)

		if err := migrations[v](tx); err != nil {
			return fmt.Errorf("migration to version %d: %w", v+1,
				err)
		}
	}

	return putDBVersion(tx, latest)
}
