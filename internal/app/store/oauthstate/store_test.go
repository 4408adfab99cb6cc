package oauthstate

import (
	"testing"
	"time"

	"github.com/wayfarehq/wayfare/internal/testutil"
)

func TestValidate_ConsumesToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.Save(ctx, "tok-1", "/events", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ret, valid, err := s.Validate(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !valid || ret != "/events" {
		t.Fatalf("Validate = (%q, %v), want (/events, true)", ret, valid)
	}

	// One-time use: a replay of the same token fails.
	_, valid, err = s.Validate(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Validate replay: %v", err)
	}
	if valid {
		t.Error("replayed state token must be invalid")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.Save(ctx, "tok-old", "", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, valid, err := s.Validate(ctx, "tok-old")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("expired state token must be invalid")
	}
}

func TestValidate_UnknownToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, valid, err := s.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("unknown state token must be invalid")
	}
}
