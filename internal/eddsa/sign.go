package eddsa

import (
	"bytes"

	"filippo.io/edwards25519"
)

// Sign produces a deterministic signature of message under seed: identical
// inputs always yield identical signatures. publicKey must be the key
// derived from seed; a mismatched key yields a signature that will not
// verify.
func (sc Scheme) Sign(seed *[SeedSize]byte, publicKey *[PublicKeySize]byte, message []byte) [SignatureSize]byte {
	a, prefix := sc.expand(seed)

	// r = H(prefix ‖ message), the deterministic session nonce.
	h := sc.NewHash()
	h.Write(prefix[:])
	h.Write(message)
	r := reduce(h.Sum(nil))

	R := new(edwards25519.Point).ScalarBaseMult(r)
	encodedR := R.Bytes()

	// k = H(R ‖ A ‖ message), the challenge.
	h = sc.NewHash()
	h.Write(encodedR)
	h.Write(publicKey[:])
	h.Write(message)
	k := reduce(h.Sum(nil))

	// s = k·a + r mod L
	s := edwards25519.NewScalar().MultiplyAdd(k, a, r)

	var sig [SignatureSize]byte
	copy(sig[:32], encodedR)
	copy(sig[32:], s.Bytes())
	return sig
}

// Verify checks a signature over message.
//
// Malformed inputs are reported as such (wrong length, non-canonical
// scalar, public key not on the curve), but a well-formed signature that
// fails the curve equation is always reported as ErrVerificationFailed with
// no further detail.
//
// The s component must be fully reduced modulo the group order. Checking
// only the top three bits, as the original ed25519 paper's followers did,
// still admits malleable encodings; the canonical decode below performs the
// full range comparison. (Encodings with the top four bits of the last byte
// clear are below 2^252 and trivially canonical, so the published
// succeed-fast trick is subsumed by the same decode.)
func (sc Scheme) Verify(publicKey *[PublicKeySize]byte, message, sig []byte) error {
	if len(sig) != SignatureSize {
		return ErrInvalidSignatureLength
	}

	s, err := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])
	if err != nil {
		return ErrNonCanonicalScalar
	}

	A, err := new(edwards25519.Point).SetBytes(publicKey[:])
	if err != nil {
		return ErrInvalidPoint
	}
	minusA := new(edwards25519.Point).Negate(A)

	h := sc.NewHash()
	h.Write(sig[:32])
	h.Write(publicKey[:])
	h.Write(message)
	k := reduce(h.Sum(nil))

	// Accept iff k·(−A) + s·B compresses to exactly R, i.e. s·B = R + k·A.
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, s)
	if !bytes.Equal(R.Bytes(), sig[:32]) {
		return ErrVerificationFailed
	}
	return nil
}
