package checkpoint

import (
	"crypto"

	"github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

type publicKeyProvider interface {
	PublicKey() (crypto.PublicKey, cose.Algorithm, error)
}

// DecodeSigned decodes the State values from a signed checkpoint message.
// See VerifyCheckpoint for a description of how to verify one.
func DecodeSigned(
	codec cbor.CBORCodec, msg []byte,
) (*dtcose.CoseSign1Message, State, error) {
	signed, err := dtcose.NewCoseSign1MessageFromCBOR(msg, newCheckpointDecOptions()...)
	if err != nil {
		return nil, State{}, err
	}

	var unverifiedState State
	if err = codec.UnmarshalInto(signed.Payload, &unverifiedState); err != nil {
		return nil, State{}, err
	}
	return signed, unverifiedState, nil
}

// VerifyCheckpoint applies the provided state to the signed message and
// verifies the result.
//
// When signing, the save digest is removed from the published message, so
// that it can only be verified by recomputing the digest from save data the
// verifier holds. Verification is a 3 step process:
//  1. Use DecodeSigned to obtain the State from the signed message. This
//     state will not verify as the digest was removed after signing.
//  2. Read the save's level.dat, decompress it, and compute SaveDigest over
//     the plain document.
//  3. Set the digest on the State and call this function to complete the
//     verification.
func VerifyCheckpoint(
	codec cbor.CBORCodec, keyProvider publicKeyProvider,
	signed *dtcose.CoseSign1Message, unverifiedState State, external []byte,
) error {
	if unverifiedState.SaveDigest == nil {
		return ErrDigestMissing
	}
	payload, err := codec.MarshalCBOR(unverifiedState)
	if err != nil {
		return err
	}
	signed.Payload = payload
	return signed.VerifyWithProvider(keyProvider, external)
}
