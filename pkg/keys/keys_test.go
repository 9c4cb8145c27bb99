package keys_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

// iotaReader hands out an incrementing byte sequence, standing in for a real
// entropy source.
type iotaReader struct{ next byte }

func (r *iotaReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

func TestPrivateKeyFromHex(t *testing.T) {
	const seed = "575dbb3062267eff57c970a336ebbc8fbcfe12c5bd3ed7bc11eb0481d7704ced"
	sk, err := keys.PrivateKeyFromHex(seed)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sk.Hex() != seed {
		t.Errorf("round trip mismatch: %s", sk.Hex())
	}

	upper, err := keys.PrivateKeyFromHex(strings.ToUpper(seed))
	if err != nil {
		t.Fatalf("uppercase hex should be accepted: %s", err)
	}
	if !upper.Equal(sk) {
		t.Error("case should not change the decoded key")
	}
}

func TestPrivateKeyFromHexRejectsMalformed(t *testing.T) {
	invalid := []string{
		"", // empty
		"53C659B47C176A70EB228DE5C0A0FF391282C96640C2A42CD5BBD0982176AB",     // short
		"53C659B47C176A70EB228DE5C0A0FF391282C96640C2A42CD5BBD0982176AB1BBB", // long
		"53C659B47C176A70EB228DE5C0A0FF391282C96640C2A42CD5BBD0982176Axyz",   // not hex
	}
	for _, s := range invalid {
		if _, err := keys.PrivateKeyFromHex(s); !errors.Is(err, keys.ErrInvalidPrivateKey) {
			t.Errorf("%q: expected ErrInvalidPrivateKey, got %v", s, err)
		}
	}
}

func TestSignatureFromHexRejectsMalformed(t *testing.T) {
	invalid := []string{
		"f72d5abbf48a53e3c7c9c402bcb1b0a855821d5ef970dd5357b9899034d0c8dc177cef8e5924607ca325041b57db33628bd2f010c2474ff18",             // short
		"f72d5abbf48a53e3c7c9c402bcb1b0a855821d5ef970dd5357b9899034d0c8dc177cef8e5924607ca325041b57db33628bd2f010c2474ff18fff7b509a1wwwww", // not hex
	}
	for _, s := range invalid {
		if _, err := keys.SignatureFromHex(s); !errors.Is(err, keys.ErrInvalidSignature) {
			t.Errorf("%q: expected ErrInvalidSignature, got %v", s, err)
		}
	}
}

func TestPublicKeyFromHexRejectsMalformed(t *testing.T) {
	if _, err := keys.PublicKeyFromHex("ed9bf729"); !errors.Is(err, keys.ErrInvalidPublicKey) {
		t.Errorf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestFromBytesLengthChecks(t *testing.T) {
	if _, err := keys.PrivateKeyFromBytes(make([]byte, 31)); !errors.Is(err, keys.ErrInvalidPrivateKey) {
		t.Errorf("expected ErrInvalidPrivateKey, got %v", err)
	}
	if _, err := keys.PublicKeyFromBytes(make([]byte, 33)); !errors.Is(err, keys.ErrInvalidPublicKey) {
		t.Errorf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestGeneratePrivateKey(t *testing.T) {
	sk, err := keys.GeneratePrivateKey(&iotaReader{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := make([]byte, keys.PrivateKeySize)
	for i := range want {
		want[i] = byte(i)
	}
	if !bytes.Equal(sk.Bytes(), want) {
		t.Error("key should contain exactly the bytes read from rand")
	}
}

func TestPrivateKeyStringRedacted(t *testing.T) {
	sk, err := keys.PrivateKeyFromHex("575dbb3062267eff57c970a336ebbc8fbcfe12c5bd3ed7bc11eb0481d7704ced")
	if err != nil {
		t.Fatal(err)
	}
	if s := sk.String(); strings.Contains(s, "575dbb30") {
		t.Errorf("String() leaks key material: %s", s)
	}
}

func TestBytesReturnsCopy(t *testing.T) {
	sk, err := keys.GeneratePrivateKey(&iotaReader{})
	if err != nil {
		t.Fatal(err)
	}
	buf := sk.Bytes()
	buf[0] ^= 0xff
	if bytes.Equal(buf, sk.Bytes()) {
		t.Error("mutating the returned slice should not affect the key")
	}
}

func TestSignatureEqual(t *testing.T) {
	const sigHex = "d940d229dc57c7fca77e3232e09914e41de5c5d175de3ef58be3b35692514ea2337ef514a059e742a15ee5d02a09fd0d3803e9379d9e008be128a49dd554b600"
	a, err := keys.SignatureFromHex(sigHex)
	if err != nil {
		t.Fatal(err)
	}
	b, err := keys.SignatureFromHex(strings.ToUpper(sigHex))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("identical signatures should compare equal")
	}

	c := a
	c[0] ^= 1
	if a.Equal(c) {
		t.Error("different signatures should not compare equal")
	}
}
