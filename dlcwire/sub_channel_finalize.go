package dlcwire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
)

// SubChannelFinalize completes the activation of a sub-channel. The responder
// revokes its previous commitment, after which neither party can broadcast
// the pre-splice state without being penalised.
type SubChannelFinalize struct {
	// ChannelID identifies the channel the contract is spliced into.
	ChannelID ChannelID

	// PerCommitmentSecret revokes the accepter's previous commitment.
	PerCommitmentSecret Secret

	// NextPerCommitmentPoint is the accepter's next per-commitment point.
	NextPerCommitmentPoint *btcec.PublicKey
}

// A compile time check to ensure SubChannelFinalize implements the
// dlcwire.SecretCarrier interface.
var _ SecretCarrier = (*SubChannelFinalize)(nil)

// Encode serializes the target SubChannelFinalize into the passed buffer
// observing the protocol version specified.
//
// This is part of the dlcwire.Message interface.
func (f *SubChannelFinalize) Encode(w *bytes.Buffer, pver uint32) error {
	if err := WriteChannelID(w, f.ChannelID); err != nil {
		return err
	}

	if err := WriteSecret(w, f.PerCommitmentSecret); err != nil {
		return err
	}

	return WritePublicKey(w, f.NextPerCommitmentPoint)
}

// Decode deserializes the serialized SubChannelFinalize stored in the passed
// io.Reader into the target SubChannelFinalize using the deserialization rules
// defined by the passed protocol version.
//
// This is part of the dlcwire.Message interface.
func (f *SubChannelFinalize) Decode(r io.Reader, pver uint32) error {
	return ReadElements(r,
		&f.ChannelID,
		&f.PerCommitmentSecret,
		&f.NextPerCommitmentPoint,
	)
}

// MsgType returns the MessageType code which uniquely identifies this message
// as a SubChannelFinalize on the wire.
//
// This is part of the dlcwire.Message interface.
func (f *SubChannelFinalize) MsgType() MessageType {
	return MsgSubChannelFinalize
}

// TargetChanID returns the channel the sub-channel is spliced into.
//
// This is part of the dlcwire.Message interface.
func (f *SubChannelFinalize) TargetChanID() ChannelID {
	return f.ChannelID
}

// RevealedSecrets returns the per-commitment secret revealed by the message.
//
// This is part of the dlcwire.SecretCarrier interface.
func (f *SubChannelFinalize) RevealedSecrets() []Secret {
	return []Secret{f.PerCommitmentSecret}
}

// ZeroSecrets wipes the per-commitment secret.
//
// This is part of the dlcwire.SecretCarrier interface.
func (f *SubChannelFinalize) ZeroSecrets() {
	f.PerCommitmentSecret.Zero()
}
