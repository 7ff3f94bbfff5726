package models

import (
	"strings"
	"testing"
)

func TestSecretRoundtrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	enc, err := EncodeSecret(key, "sk_test_gateway")
	if err != nil {
		t.Fatalf("EncodeSecret: %v", err)
	}
	if strings.Contains(enc, "sk_test_gateway") {
		t.Error("ciphertext leaks plaintext")
	}

	plain, err := DecodeSecret(key, enc)
	if err != nil {
		t.Fatalf("DecodeSecret: %v", err)
	}
	if plain != "sk_test_gateway" {
		t.Errorf("roundtrip = %q, want sk_test_gateway", plain)
	}
}

func TestDecodeSecretWrongKey(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	other := []byte("ffffffffffffffffffffffffffffffff")
	enc, err := EncodeSecret(key, "sk_test_gateway")
	if err != nil {
		t.Fatalf("EncodeSecret: %v", err)
	}
	if _, err := DecodeSecret(other, enc); err == nil {
		t.Error("expected auth failure with wrong key")
	}
}

func TestDecodeSecretGarbage(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	if _, err := DecodeSecret(key, "not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := DecodeSecret(key, "c2hvcnQ="); err == nil {
		t.Error("expected error for truncated ciphertext")
	}
}
