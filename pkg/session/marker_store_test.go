package session

import (
	"testing"
	"time"
)

func TestSignAndParseMarker(t *testing.T) {
	secret := []byte("marker-secret")
	token, err := SignMarker(secret, "m-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	marker, err := ParseMarker(secret, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if marker != "m-1" {
		t.Errorf("expected marker m-1, got %q", marker)
	}

	if _, err := ParseMarker([]byte("other-secret"), token); err == nil {
		t.Error("token must be rejected under a different secret")
	}

	expired, err := SignMarker(secret, "m-2", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseMarker(secret, expired); err == nil {
		t.Error("expired token must be rejected")
	}
}
