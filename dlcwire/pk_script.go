package dlcwire

import (
	"github.com/btcsuite/btcd/txscript"
)

// PkScript is simple type definition which represents a raw serialized public
// key script, used for the payout outputs of a sub-channel.
type PkScript []byte

// Class returns the standard script class of the payout script.
func (p PkScript) Class() txscript.ScriptClass {
	return txscript.GetScriptClass(p)
}

// IsStandard returns true if the script is of one of the standard output
// types the parent channel can pay to.
func (p PkScript) IsStandard() bool {
	switch p.Class() {
	case txscript.WitnessV0PubKeyHashTy, txscript.WitnessV0ScriptHashTy,
		txscript.WitnessV1TaprootTy, txscript.PubKeyHashTy,
		txscript.ScriptHashTy:

		return true
	default:
		return false
	}
}
