// Package nis1 implements legacy NEM (NIS1) keypairs, ed25519 signing, and
// authenticated message encryption.
//
// NIS1 hashes the secret seed with Keccak-512 after reversing its byte
// order, and encrypts messages with AES-256-CBC under a salted Keccak-256
// session key. It is not interoperable with the Symbol scheme in
// pkg/symbol, even on identical key material.
package nis1

import (
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/BlockPuppets/symbol-crypto-core/internal/eddsa"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

var scheme = eddsa.Scheme{NewHash: sha3.NewLegacyKeccak512, ReverseSeed: true}

// Keypair is a NIS1 signing keypair. The zero value is not usable;
// construct one with NewKeypair, GenerateKeypair, KeypairFromHex,
// KeypairFromBytes, or VerifierFromPublicKey.
type Keypair struct {
	privateKey keys.PrivateKey
	publicKey  keys.PublicKey
}

// NewKeypair derives the public half from the given private key.
func NewKeypair(sk keys.PrivateKey) Keypair {
	seed := [eddsa.SeedSize]byte(sk)
	pk := scheme.PublicKey(&seed)
	return Keypair{privateKey: sk, publicKey: keys.PublicKey(pk)}
}

// GenerateKeypair creates a keypair from a fresh random seed read from
// rand.
func GenerateKeypair(rand io.Reader) (Keypair, error) {
	sk, err := keys.GeneratePrivateKey(rand)
	if err != nil {
		return Keypair{}, err
	}
	return NewKeypair(sk), nil
}

// KeypairFromHex parses a 64-character hex private key and derives its
// public half. The text is validated before any cryptographic operation.
func KeypairFromHex(hexSeed string) (Keypair, error) {
	sk, err := keys.PrivateKeyFromHex(hexSeed)
	if err != nil {
		return Keypair{}, err
	}
	return NewKeypair(sk), nil
}

// KeypairFromBytes parses a serialized keypair (privateKey ‖ publicKey).
// The public half is re-derived from the seed rather than trusted.
func KeypairFromBytes(b []byte) (Keypair, error) {
	if len(b) != keys.KeypairSize {
		return Keypair{}, fmt.Errorf("%w: keypair must be %d bytes, have %d",
			keys.ErrInvalidPrivateKey, keys.KeypairSize, len(b))
	}
	sk, err := keys.PrivateKeyFromBytes(b[:keys.PrivateKeySize])
	if err != nil {
		return Keypair{}, err
	}
	return NewKeypair(sk), nil
}

// VerifierFromPublicKey returns a verify-only keypair whose private half is
// zero.
func VerifierFromPublicKey(pk keys.PublicKey) Keypair {
	return Keypair{publicKey: pk}
}

// PrivateKey returns the private half of the keypair.
func (kp Keypair) PrivateKey() keys.PrivateKey { return kp.privateKey }

// PublicKey returns the public half of the keypair.
func (kp Keypair) PublicKey() keys.PublicKey { return kp.publicKey }

// Sign produces a deterministic NIS1 signature over message.
func (kp Keypair) Sign(message []byte) keys.Signature {
	seed := [eddsa.SeedSize]byte(kp.privateKey)
	pk := [eddsa.PublicKeySize]byte(kp.publicKey)
	return keys.Signature(scheme.Sign(&seed, &pk, message))
}

// Verify reports whether sig is a valid NIS1 signature over message under
// this keypair's public key.
func (kp Keypair) Verify(message []byte, sig keys.Signature) error {
	pk := [eddsa.PublicKeySize]byte(kp.publicKey)
	return scheme.Verify(&pk, message, sig[:])
}

// ToBytes serializes the keypair as privateKey ‖ publicKey.
func (kp Keypair) ToBytes() [keys.KeypairSize]byte {
	var out [keys.KeypairSize]byte
	copy(out[:keys.PrivateKeySize], kp.privateKey[:])
	copy(out[keys.PrivateKeySize:], kp.publicKey[:])
	return out
}
