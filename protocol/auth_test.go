package protocol

import (
	"errors"
	"testing"
)

func TestParseGreeting_NoAuth(t *testing.T) {
	ch, err := ParseGreeting([]byte("PJLINK 0\r"))
	if err != nil {
		t.Fatalf("ParseGreeting() error = %v", err)
	}
	if ch.RequiresAuth {
		t.Error("RequiresAuth = true, want false")
	}
	if ch.Key != "" {
		t.Errorf("Key = %q, want empty", ch.Key)
	}
}

func TestParseGreeting_Auth(t *testing.T) {
	ch, err := ParseGreeting([]byte("PJLINK 1 12345678\r"))
	if err != nil {
		t.Fatalf("ParseGreeting() error = %v", err)
	}
	if !ch.RequiresAuth {
		t.Error("RequiresAuth = false, want true")
	}
	if ch.Key != "12345678" {
		t.Errorf("Key = %q, want 12345678", ch.Key)
	}
}

func TestParseGreeting_Refused(t *testing.T) {
	_, err := ParseGreeting([]byte("PJLINK ERRA\r"))
	if !errors.Is(err, ErrConnectionRefusedByDevice) {
		t.Errorf("ParseGreeting() error = %v, want ErrConnectionRefusedByDevice", err)
	}
}

func TestParseGreeting_Malformed(t *testing.T) {
	lines := []string{
		"HELLO\r",
		"PJLINK 2 12345678\r",
		"PJLINK 1 1234\r",      // short key
		"PJLINK 1 123456789\r", // long key
		"PJLINK 1 1234567Z\r",  // invalid key character
		"\r",
	}
	for _, line := range lines {
		_, err := ParseGreeting([]byte(line))
		if !IsMalformed(err) {
			t.Errorf("ParseGreeting(%q) error = %v, want MalformedResponseError", line, err)
		}
	}
}

func TestDigestHash(t *testing.T) {
	// Reference digest from the PJLink specification example.
	got := DigestHash("498e4a67", "JBMIAProjectorLink")
	want := "5d8409bc1c3fa39749434aa3a5c38682"
	if got != want {
		t.Errorf("DigestHash() = %q, want %q", got, want)
	}
	if len(got) != DigestHexLength {
		t.Errorf("len(DigestHash()) = %d, want %d", len(got), DigestHexLength)
	}
}

func TestDigestHash_Deterministic(t *testing.T) {
	a := DigestHash("12345678", "secret")
	b := DigestHash("12345678", "secret")
	if a != b {
		t.Errorf("DigestHash not deterministic: %q != %q", a, b)
	}

	if DigestHash("12345679", "secret") == a {
		t.Error("DigestHash unchanged when key changed")
	}
	if DigestHash("12345678", "secre") == a {
		t.Error("DigestHash unchanged when password changed")
	}
}

func TestChallenge_Prefix(t *testing.T) {
	open := Challenge{}
	prefix, err := open.Prefix("")
	if err != nil || prefix != "" {
		t.Errorf("Prefix() = (%q, %v), want empty and nil", prefix, err)
	}

	locked := Challenge{RequiresAuth: true, Key: "12345678"}
	prefix, err = locked.Prefix("panama")
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	if prefix != DigestHash("12345678", "panama") {
		t.Errorf("Prefix() = %q, want digest", prefix)
	}

	if _, err := locked.Prefix(""); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("Prefix() error = %v, want ErrAuthRequired", err)
	}
}
