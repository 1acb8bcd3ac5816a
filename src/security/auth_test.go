package security

import (
	"testing"
	"time"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/config"
	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/model"
)

// Registration hashes through the auth service and login verifies through
// the user model; the two must stay interoperable.
func TestHashPasswordMatchesUserCheck(t *testing.T) {
	auth := NewAuthService("test-secret-of-at-least-32-bytes!!!!")

	hash, err := auth.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plain text")
	}

	user := &model.User{Password: hash}
	if err := user.CheckPassword("correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword rejected the matching password: %v", err)
	}
	if err := user.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	config.Cfg = &config.AppConfig{AccessTokenExpiry: time.Minute}
	auth := NewAuthService("test-secret-of-at-least-32-bytes!!!!")

	token, err := auth.GenerateToken("42")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "42" {
		t.Errorf("sub = %q, want 42", sub)
	}

	other := NewAuthService("a-different-secret-of-32-bytes!!!!!!")
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret validated")
	}
}
