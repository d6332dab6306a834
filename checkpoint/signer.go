package checkpoint

import (
	"crypto/ecdsa"
	"crypto/rand"

	dtcbor "github.com/datatrails/go-datatrails-common/cbor"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/veraison/go-cose"
)

// Signer produces a signature over a world save state. The signature commits
// to the save contents through the digest in the state; publish it only
// after computing that digest from data you have actually verified parses.
type Signer struct {
	issuer    string
	cborCodec dtcbor.CBORCodec
}

func NewSigner(issuer string, cborCodec dtcbor.CBORCodec) Signer {
	return Signer{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
}

// Sign1 signs the provided state. The save digest is purposefully detached
// from the published payload so that verifiers are forced to recompute it
// from the save data they hold.
func (s Signer) Sign1(
	coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey,
	subject string, state State, external []byte,
) ([]byte, error) {
	if state.SaveDigest == nil {
		return nil, ErrDigestMissing
	}
	payload, err := s.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}

	coseHeaders := cose.Headers{
		Protected: cose.ProtectedHeader{
			dtcose.HeaderLabelCWTClaims: dtcose.NewCNFClaim(
				s.issuer, subject, keyIdentifier, coseSigner.Algorithm(), *publicKey),
		},
	}

	msg := cose.Sign1Message{
		Headers: coseHeaders,
		Payload: payload,
	}
	if err = msg.Sign(rand.Reader, external, coseSigner); err != nil {
		return nil, err
	}

	state.SaveDigest = nil
	payload, err = s.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}
	msg.Payload = payload

	return msg.MarshalCBOR()
}

// NewCheckpointCodec returns the deterministic cbor codec checkpoints are
// encoded with.
func NewCheckpointCodec() (dtcbor.CBORCodec, error) {
	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return dtcbor.CBORCodec{}, err
	}
	return codec, nil
}

func newCheckpointDecOptions() []dtcose.SignOption {
	return []dtcose.SignOption{dtcose.WithDecOptions(dtcbor.NewDeterministicDecOpts())}
}
