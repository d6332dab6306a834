package checkpoint

import (
	"crypto/elliptic"
	"testing"

	"github.com/datatrails/go-datatrails-common/azkeys"
	dtcose "github.com/datatrails/go-datatrails-common/cose"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Outspending/go-ferrumc/nbt"
)

func testState(t *testing.T) State {
	plain, err := nbt.Marshal("", nbt.CompoundOf(nbt.Compound{
		"Data": nbt.CompoundOf(nbt.Compound{
			"LevelName":   nbt.String("attested world"),
			"DataVersion": nbt.Int(3953),
		}),
	}))
	require.NoError(t, err)
	return State{
		SaveDigest:  SaveDigest(plain),
		DataVersion: 3953,
		LevelName:   "attested world",
		Timestamp:   1724800000000,
		RegionCount: 9,
	}
}

func TestSignAndVerifyCheckpoint(t *testing.T) {
	logger.New("TEST")

	key := TestGenerateECKey(t, elliptic.P256())
	signer := TestNewSigner(t, "ferrumc.example")

	coseSigner := azkeys.NewTestCoseSigner(t, key)
	pubKey, err := coseSigner.PublicKey()
	require.NoError(t, err)

	state := testState(t)
	coseMsg, err := signer.Sign1(
		coseSigner, coseSigner.KeyIdentifier(), pubKey, "world-attestor", state, nil)
	require.NoError(t, err)

	codec, err := NewCheckpointCodec()
	require.NoError(t, err)

	signed, unverified, err := DecodeSigned(codec, coseMsg)
	require.NoError(t, err)

	// the published payload does not carry the digest
	assert.Nil(t, unverified.SaveDigest)
	assert.Equal(t, state.LevelName, unverified.LevelName)
	assert.Equal(t, state.DataVersion, unverified.DataVersion)
	assert.Equal(t, state.RegionCount, unverified.RegionCount)

	// verification without recomputing the digest must fail
	err = VerifyCheckpoint(
		codec, dtcose.NewCWTPublicKeyProvider(signed), signed, unverified, nil)
	require.ErrorIs(t, err, ErrDigestMissing)

	// step 2 and 3: recompute the digest from the save data and verify
	unverified.SaveDigest = state.SaveDigest
	err = VerifyCheckpoint(
		codec, dtcose.NewCWTPublicKeyProvider(signed), signed, unverified, nil)
	require.NoError(t, err)
}

func TestVerifyCheckpointRejectsWrongDigest(t *testing.T) {
	logger.New("TEST")

	key := TestGenerateECKey(t, elliptic.P256())
	signer := TestNewSigner(t, "ferrumc.example")

	coseSigner := azkeys.NewTestCoseSigner(t, key)
	pubKey, err := coseSigner.PublicKey()
	require.NoError(t, err)

	state := testState(t)
	coseMsg, err := signer.Sign1(
		coseSigner, coseSigner.KeyIdentifier(), pubKey, "world-attestor", state, nil)
	require.NoError(t, err)

	codec, err := NewCheckpointCodec()
	require.NoError(t, err)
	signed, unverified, err := DecodeSigned(codec, coseMsg)
	require.NoError(t, err)

	// a digest over different save data must not verify
	unverified.SaveDigest = SaveDigest([]byte("tampered save"))
	err = VerifyCheckpoint(
		codec, dtcose.NewCWTPublicKeyProvider(signed), signed, unverified, nil)
	require.Error(t, err)
}

func TestSign1RequiresDigest(t *testing.T) {
	key := TestGenerateECKey(t, elliptic.P256())
	signer := TestNewSigner(t, "ferrumc.example")
	coseSigner := azkeys.NewTestCoseSigner(t, key)
	pubKey, err := coseSigner.PublicKey()
	require.NoError(t, err)

	state := testState(t)
	state.SaveDigest = nil
	_, err = signer.Sign1(
		coseSigner, coseSigner.KeyIdentifier(), pubKey, "world-attestor", state, nil)
	require.ErrorIs(t, err, ErrDigestMissing)
}

func TestDecodeStatePayload(t *testing.T) {
	codec, err := NewCheckpointCodec()
	require.NoError(t, err)

	state := testState(t)
	payload, err := codec.MarshalCBOR(state)
	require.NoError(t, err)

	got, err := DecodeState(payload)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	_, err = DecodeState([]byte{0xff, 0x00})
	require.ErrorIs(t, err, ErrStatePayload)
}
