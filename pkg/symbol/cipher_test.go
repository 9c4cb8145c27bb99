package symbol_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/BlockPuppets/symbol-crypto-core/pkg/symbol"
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

func testKeypairs(t *testing.T) (sender, receiver symbol.Keypair) {
	t.Helper()
	sender, err := symbol.KeypairFromHex("575dbb3062267eff57c970a336ebbc8fbcfe12c5bd3ed7bc11eb0481d7704ced")
	if err != nil {
		t.Fatal(err)
	}
	receiver, err = symbol.KeypairFromHex("5b0e3fa5d3b49a79022d7c1e121ba1cbbf4db5821f47ab8c708ef88defc29bfe")
	if err != nil {
		t.Fatal(err)
	}
	return sender, receiver
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sender, receiver := testKeypairs(t)
	for _, msg := range [][]byte{
		[]byte("Symbol is awesome from Rust!"),
		[]byte{0x00},
		{},
		bytes.Repeat([]byte{0xAB}, 1000),
	} {
		envelope, err := symbol.Encrypt(rand.Reader, sender.PrivateKey(), receiver.PublicKey(), msg)
		if err != nil {
			t.Fatalf("encrypt: %s", err)
		}
		if len(envelope) != symbol.TagSize+symbol.IVSize+len(msg) {
			t.Fatalf("envelope length %d, want %d", len(envelope), symbol.TagSize+symbol.IVSize+len(msg))
		}

		plaintext, err := symbol.Decrypt(receiver.PrivateKey(), sender.PublicKey(), envelope)
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

	envelope, err := symbol.Encrypt(&seqReader{}, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}

	// The IV is the first (and only) random draw and sits after the tag.
	iv := envelope[symbol.TagSize : symbol.TagSize+symbol.IVSize]
	for i, b := range iv {
		if b != byte(i) {
			t.Fatalf("iv byte %d: got %#x, want %#x", i, b, byte(i))
		}
	}
}

func TestEncryptDeterministicUnderFixedRand(t *testing.T) {
	sender, receiver := testKeypairs(t)
	msg := []byte("fixed randomness")

	first, err := symbol.Encrypt(&seqReader{}, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := symbol.Encrypt(&seqReader{}, sender.PrivateKey(), receiver.PublicKey(), msg)
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

	envelope, err := symbol.Encrypt(rand.Reader, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < len(envelope); i++ {
		tampered := make([]byte, len(envelope))
		copy(tampered, envelope)
		tampered[i] ^= 0x01
		if _, err := symbol.Decrypt(receiver.PrivateKey(), sender.PublicKey(), tampered); !errors.Is(err, symbol.ErrDecryptionFailed) {
			t.Fatalf("byte %d tampered: expected ErrDecryptionFailed, got %v", i, err)
		}
	}
}

func TestDecryptRejectsWrongKeys(t *testing.T) {
	sender, receiver := testKeypairs(t)
	other, err := symbol.KeypairFromHex("738ba9bb9110aea8f15caa353aca5653b4bdfca1db9f34d0efed2ce1325aeeda")
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("wrong key check")

	envelope, err := symbol.Encrypt(rand.Reader, sender.PrivateKey(), receiver.PublicKey(), msg)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := symbol.Decrypt(other.PrivateKey(), sender.PublicKey(), envelope); !errors.Is(err, symbol.ErrDecryptionFailed) {
		t.Errorf("wrong receiver key: expected ErrDecryptionFailed, got %v", err)
	}
	if _, err := symbol.Decrypt(receiver.PrivateKey(), other.PublicKey(), envelope); !errors.Is(err, symbol.ErrDecryptionFailed) {
		t.Errorf("wrong sender key: expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecryptMalformedEnvelopes(t *testing.T) {
	sender, receiver := testKeypairs(t)

	if _, err := symbol.Decrypt(receiver.PrivateKey(), sender.PublicKey(), nil); !errors.Is(err, symbol.ErrEmptyMessage) {
		t.Errorf("empty envelope: expected ErrEmptyMessage, got %v", err)
	}
	if _, err := symbol.Decrypt(receiver.PrivateKey(), sender.PublicKey(), make([]byte, 27)); !errors.Is(err, symbol.ErrDecryptionFailed) {
		t.Errorf("truncated envelope: expected ErrDecryptionFailed, got %v", err)
	}
}
