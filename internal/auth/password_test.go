package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("hash does not carry the expected parameters: %s", hash)
	}

	valid, err := CheckPassword("correct-horse-battery", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Error("correct password was rejected")
	}

	valid, err = CheckPassword("incorrect-horse", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Error("wrong password was accepted")
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	b, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	for _, bad := range []string{"", "plaintext", "$bcrypt$whatever", "$argon2id$v=19$m=x$s$h"} {
		if _, err := CheckPassword("changeme", bad); err == nil {
			t.Errorf("CheckPassword accepted malformed hash %q", bad)
		}
	}
}

func TestCheckPassword_DummyHashNeverMatches(t *testing.T) {
	for _, guess := range []string{"", "changeme", "admin", "password123"} {
		valid, err := CheckPassword(guess, DummyHash)
		if err != nil {
			t.Fatalf("CheckPassword(%q, DummyHash) error: %v", guess, err)
		}
		if valid {
			t.Errorf("DummyHash matched %q", guess)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	current, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if NeedsRehash(current) {
		t.Error("freshly generated hash reported as stale")
	}

	// Hash created with older, stronger-memory parameters.
	legacy := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	if !NeedsRehash(legacy) {
		t.Error("legacy-parameter hash not flagged for rehash")
	}
	if !NeedsRehash("not-a-hash") {
		t.Error("garbage input not flagged for rehash")
	}
}
