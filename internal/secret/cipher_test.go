package secret

import "testing"

func TestPlaintextIsIdentity(t *testing.T) {
	c := Plaintext{}
	enc, err := c.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc != "hunter2" {
		t.Errorf("Encrypt = %q; want unchanged", enc)
	}
	dec, err := c.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != "hunter2" {
		t.Errorf("Decrypt = %q; want unchanged", dec)
	}
}

func TestAESGCMRoundTrip(t *testing.T) {
	c, err := NewAESGCM("vault-key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	enc, err := c.Encrypt("api-key-123")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == "api-key-123" {
		t.Error("ciphertext equals plaintext")
	}
	dec, err := c.Decrypt(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != "api-key-123" {
		t.Errorf("Decrypt = %q; want original", dec)
	}
}

func TestAESGCMWrongKeyFails(t *testing.T) {
	c1, err := NewAESGCM("key-one")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	c2, err := NewAESGCM("key-two")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	enc, err := c1.Encrypt("secret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := c2.Decrypt(enc); err == nil {
		t.Error("decrypt with wrong key succeeded")
	}
}

func TestAESGCMRejectsGarbage(t *testing.T) {
	c, err := NewAESGCM("key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	if _, err := c.Decrypt("not base64!!"); err == nil {
		t.Error("decrypt of invalid base64 succeeded")
	}
	if _, err := c.Decrypt("c2hvcnQ="); err == nil {
		t.Error("decrypt of too-short payload succeeded")
	}
}
