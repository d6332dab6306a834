// Package checkpoint produces and verifies COSE Sign1 attestations over
// world save state, so that replicas of a save can be checked against a
// publisher's signature.
package checkpoint

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	ErrDigestMissing = errors.New("the save digest field of a state was nil when it should have been provided")
	ErrStatePayload  = errors.New("the signed payload does not decode as a checkpoint state")
)

// State defines the details we include in our signed commitment to a world
// save. The field keys are small integers to keep the signed payload
// compact.
type State struct {
	// SaveDigest is sha256 over the decompressed level.dat document. It is
	// detached from the published message, see Signer.Sign1.
	SaveDigest []byte `cbor:"1,keyasint"`

	// DataVersion is the save format version from the level data, bound into
	// the attestation because it governs how the rest of the save is
	// interpreted.
	DataVersion int32 `cbor:"2,keyasint"`

	LevelName string `cbor:"3,keyasint"`

	// Timestamp is the unix time (milliseconds) read at the time the state
	// was signed. Including it allows the same save to be re-signed.
	Timestamp int64 `cbor:"4,keyasint"`

	// RegionCount is the number of region files in the save at signing time.
	RegionCount uint32 `cbor:"5,keyasint"`
}

// SaveDigest computes the digest a State commits to from the decompressed
// level.dat document.
func SaveDigest(plainLevel []byte) []byte {
	sum := sha256.Sum256(plainLevel)
	return sum[:]
}

// stateDecMode rejects the malformed cbor a hostile checkpoint could carry,
// duplicate map keys in particular, rather than silently keeping one.
var stateDecMode, _ = cbor.DecOptions{
	DupMapKey:   cbor.DupMapKeyEnforcedAPF,
	IndefLength: cbor.IndefLengthForbidden,
}.DecMode()

// DecodeState decodes a bare state payload, without any signature handling.
// Used to inspect the payload of a message before deciding whether its
// signer is trusted.
func DecodeState(payload []byte) (State, error) {
	var state State
	if err := stateDecMode.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrStatePayload, err)
	}
	return state, nil
}
