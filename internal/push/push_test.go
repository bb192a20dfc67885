package push

import (
	"encoding/base64"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	if pub == "" || priv == "" {
		t.Fatal("expected non-empty key pair")
	}

	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	// Uncompressed P-256 point: 0x04 prefix + 32-byte X + 32-byte Y
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}
	if pubBytes[0] != 0x04 {
		t.Errorf("public key prefix = %#x, want 0x04", pubBytes[0])
	}

	pub2, _, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate second key pair: %v", err)
	}
	if pub == pub2 {
		t.Error("expected distinct key pairs")
	}
}
