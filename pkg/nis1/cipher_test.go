package nis1_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/BlockPuppets/symbol-crypto-core/pkg/nis1"
)

// seqReader hands out an incrementing byte sequence so envelope layout tests
// are reproducible.
type seqReader struct{ next byte }

func (r *seqReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

func testKeypairs(t *testing.T) (sender, receiver nis1.Keypair) {
	t.Helper()
	sender, err := nis1.KeypairFromHex("c9fb7f16b738b783be5192697a684cba4a36adb3d9c22c0808f30ae1d85d384f")
	if err != nil {
		t.Fatal(err)
	}
	receiver, err = nis1.KeypairFromHex("abf4cf55a2b3f742d7543d9cc17f50447b969e6e06f5ea9195d428ab12b7318d")
	if err != nil {
		t.Fatal(err)
	}
	return sender, receiver
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sender, receiver := testKeypairs(t)
	for _, msg := range [][]byte{
		[]byte("NEM is awesome !"),
		[]byte{0x00},
		{},
		bytes.Repeat([]byte{0xCD}, 1000),
	} {
		envelope, err := nis1.Encrypt(rand.Reader, sender.PrivateKey(), receiver.PublicKey(), msg)
		if err != nil {
			t.Fatalf("encrypt: %s", err)
		}

		plaintext, err := nis1.Decrypt(receiver.PrivateKey(), sender.PublicKey(), envelope)
		if err != nil {
			t.Fatalf("decrypt: %s", err)
		}
		if !bytes.Equal(plaintext, msg) {
			t.Errorf("round trip mismatch for %d-byte message", len(msg))
		}
	}
}

func TestEncryptEnvelopeLayout(t *testing.T) {
	sender, receiver := testKeypairs(t)
	msg := []byte("layout check")

	envelope, err := nis1.Encrypt(&seqReader{}, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}

	// Ciphertext is block aligned, so a 12-byte message pads to one block.
	if want := nis1.SaltSize + nis1.IVSize + 16; len(envelope) != want {
		t.Fatalf("envelope length %d, want %d", len(envelope), want)
	}

	// The salt is drawn first, the IV second.
	for i := 0; i < nis1.SaltSize; i++ {
		if envelope[i] != byte(i) {
			t.Fatalf("salt byte %d: got %#x, want %#x", i, envelope[i], byte(i))
		}
	}
	for i := 0; i < nis1.IVSize; i++ {
		if envelope[nis1.SaltSize+i] != byte(nis1.SaltSize+i) {
			t.Fatalf("iv byte %d: got %#x, want %#x", i, envelope[nis1.SaltSize+i], byte(nis1.SaltSize+i))
		}
	}
}

func TestEncryptDeterministicUnderFixedRand(t *testing.T) {
	sender, receiver := testKeypairs(t)
	msg := []byte("fixed randomness")

	first, err := nis1.Encrypt(&seqReader{}, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := nis1.Encrypt(&seqReader{}, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical randomness should produce identical envelopes")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	sender, receiver := testKeypairs(t)
	msg := []byte("tamper check payload")

	envelope, err := nis1.Encrypt(rand.Reader, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}

	// CBC carries no authenticator, so tampering must never yield the
	// original plaintext; it surfaces either as a padding error or as
	// garbled output.
	for i := 0; i < len(envelope); i++ {
		tampered := make([]byte, len(envelope))
		copy(tampered, envelope)
		tampered[i] ^= 0x01
		plaintext, err := nis1.Decrypt(receiver.PrivateKey(), sender.PublicKey(), tampered)
		if err == nil && bytes.Equal(plaintext, msg) {
			t.Fatalf("byte %d tampered: decryption still produced the original message", i)
		}
	}
}

func TestDecryptRejectsWrongKeys(t *testing.T) {
	sender, receiver := testKeypairs(t)
	other, err := nis1.KeypairFromHex("0257b05f601ff829fdff84956fb5e3c65470a62375a1cc285779edd5ca3b42f6")
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("wrong key check")

	envelope, err := nis1.Encrypt(rand.Reader, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}

	plaintext, err := nis1.Decrypt(other.PrivateKey(), sender.PublicKey(), envelope)
	if err == nil && bytes.Equal(plaintext, msg) {
		t.Error("wrong receiver key should not recover the message")
	}
}

func TestDecryptMalformedEnvelopes(t *testing.T) {
	sender, receiver := testKeypairs(t)

	if _, err := nis1.Decrypt(receiver.PrivateKey(), sender.PublicKey(), nil); !errors.Is(err, nis1.ErrEmptyMessage) {
		t.Errorf("empty envelope: expected ErrEmptyMessage, got %v", err)
	}
	// Too short to hold salt, IV, and one block.
	if _, err := nis1.Decrypt(receiver.PrivateKey(), sender.PublicKey(), make([]byte, nis1.SaltSize+nis1.IVSize)); !errors.Is(err, nis1.ErrDecryptionFailed) {
		t.Errorf("truncated envelope: expected ErrDecryptionFailed, got %v", err)
	}
	// Ciphertext not block aligned.
	if _, err := nis1.Decrypt(receiver.PrivateKey(), sender.PublicKey(), make([]byte, nis1.SaltSize+nis1.IVSize+17)); !errors.Is(err, nis1.ErrDecryptionFailed) {
		t.Errorf("unaligned envelope: expected ErrDecryptionFailed, got %v", err)
	}
}
