package replay

import (
	"crypto/subtle"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/skillduel/skillduel/internal/model"
)

// replaySalt is mixed into every snapshot digest. The signature proves the
// payload was not altered in transit after generation; it does not prove
// the process that generated it played honestly, since signing and
// verification share a trust domain. See Verifier for the heuristic layer
// on top.
const replaySalt = "skillduel/replay-v1"

// encMode is the deterministic CBOR encoding used under the signature.
// Core deterministic encoding guarantees byte-identical output for equal
// payloads across processes, which the digest comparison depends on.
// Timestamps are encoded at microsecond precision; the default whole-second
// time encoding would leave sub-second mutations of StartedAt invisible to
// the digest.
var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeUnixMicro
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("replay: cbor encode mode: %v", err))
	}
	encMode = em
}

// signPayload computes the 256-bit digest over the canonical encoding of
// the payload concatenated with the fixed salt.
func signPayload(payload *model.ReplayPayload) ([]byte, error) {
	encoded, err := encMode.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode replay payload: %w", err)
	}

	h := blake3.New()
	_, _ = h.Write(encoded)
	_, _ = h.Write([]byte(replaySalt))
	return h.Sum(nil), nil
}

// signatureMatches recomputes the payload digest and compares it with the
// claimed signature in constant time.
func signatureMatches(snapshot *model.ReplaySnapshot) (bool, error) {
	expected, err := signPayload(&snapshot.Payload)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(expected, snapshot.Signature) == 1, nil
}
