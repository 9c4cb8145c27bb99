// Package eddsa implements the ed25519 key derivation, signing, and
// Diffie-Hellman conventions shared by the Symbol and NIS1 networks.
//
// The two networks use the same curve but disagree on the digest function
// (SHA-512 versus Keccak-512) and on the byte order of the secret seed fed
// to it. A Scheme value captures both choices; everything else in this
// package is common to the two networks.
package eddsa

import (
	"errors"
	"hash"

	"filippo.io/edwards25519"
)

const (
	// SeedSize is the length of a secret seed in bytes.
	SeedSize = 32
	// PublicKeySize is the length of a compressed Edwards point in bytes.
	PublicKeySize = 32
	// SignatureSize is the length of a signature: R(32) followed by s(32).
	SignatureSize = 64
	// SharedSecretSize is the length of a compressed Diffie-Hellman point.
	SharedSecretSize = 32
)

var (
	// ErrInvalidPoint is returned when a public key does not decompress to
	// a point on the curve.
	ErrInvalidPoint = errors.New("eddsa: public key is not a valid curve point")
	// ErrNonCanonicalScalar is returned when a signature's s component is
	// not fully reduced modulo the group order, which would otherwise allow
	// signature malleability.
	ErrNonCanonicalScalar = errors.New("eddsa: signature scalar is not canonical")
	// ErrInvalidSignatureLength is returned when a signature is not exactly
	// SignatureSize bytes.
	ErrInvalidSignatureLength = errors.New("eddsa: signature must be 64 bytes")
	// ErrVerificationFailed is the generic rejection for a well-formed
	// signature that does not check out. It deliberately carries no detail
	// about why.
	ErrVerificationFailed = errors.New("eddsa: signature verification failed")
)

// Scheme selects one network's digest conventions.
type Scheme struct {
	// NewHash constructs the 64-byte-output digest used for key expansion,
	// nonce derivation, and challenge computation.
	NewHash func() hash.Hash
	// ReverseSeed indicates the secret seed is hashed in reversed byte
	// order. NIS1 does this; Symbol does not. The reversal happens before
	// digesting, never after.
	ReverseSeed bool
}

// digestSeed runs the scheme digest over the (possibly reversed) seed.
func (sc Scheme) digestSeed(seed *[SeedSize]byte) [64]byte {
	buf := *seed
	if sc.ReverseSeed {
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	h := sc.NewHash()
	h.Write(buf[:])
	sum := h.Sum(nil)

	var out [64]byte
	if len(sum) != len(out) {
		// A digest of the wrong width is a broken primitive, not bad input.
		panic("eddsa: scheme digest must produce 64 bytes")
	}
	copy(out[:], sum)
	return out
}

// expand splits the seed digest into the clamped signing scalar and the
// 32-byte nonce prefix.
func (sc Scheme) expand(seed *[SeedSize]byte) (*edwards25519.Scalar, [32]byte) {
	digest := sc.digestSeed(seed)

	// Clamping clears the low three bits, clears the top bit, and sets the
	// second-highest bit, forcing the scalar into the prime-order subgroup.
	s, err := edwards25519.NewScalar().SetBytesWithClamping(digest[:32])
	if err != nil {
		panic("eddsa: " + err.Error())
	}

	var prefix [32]byte
	copy(prefix[:], digest[32:])
	return s, prefix
}

// PublicKey derives the compressed public point for seed.
func (sc Scheme) PublicKey(seed *[SeedSize]byte) [PublicKeySize]byte {
	s, _ := sc.expand(seed)
	A := new(edwards25519.Point).ScalarBaseMult(s)

	var pk [PublicKeySize]byte
	copy(pk[:], A.Bytes())
	return pk
}

// SharedSecret computes the compressed Diffie-Hellman point between the
// local seed and a peer's public key. Both parties derive the same value
// with their roles swapped. Secrets derived under different schemes are not
// interoperable.
//
// The local scalar is reduced modulo the group order, so the contract
// covers peer keys in the prime-order subgroup. Every honestly derived
// public key lies there; an encoding with a torsion component still
// decompresses but is outside the contract.
func (sc Scheme) SharedSecret(seed *[SeedSize]byte, peerPublicKey *[PublicKeySize]byte) ([SharedSecretSize]byte, error) {
	var shared [SharedSecretSize]byte

	peer, err := new(edwards25519.Point).SetBytes(peerPublicKey[:])
	if err != nil {
		return shared, ErrInvalidPoint
	}

	s, _ := sc.expand(seed)
	P := new(edwards25519.Point).ScalarMult(s, peer)
	copy(shared[:], P.Bytes())
	return shared, nil
}

// reduce interprets a 64-byte digest as a scalar modulo the group order.
func reduce(digest []byte) *edwards25519.Scalar {
	s, err := edwards25519.NewScalar().SetUniformBytes(digest)
	if err != nil {
		panic("eddsa: scheme digest must produce 64 bytes")
	}
	return s
}
