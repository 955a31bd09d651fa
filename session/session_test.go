package session

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/stowaway/paginate"
)

func TestNew(t *testing.T) {
	before := time.Now()
	s := New("/tmp/host.go", "/tmp/doc.txt")

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("New() ID = %q, not a valid UUID: %v", s.ID, err)
	}
	if s.HostPath != "/tmp/host.go" {
		t.Errorf("HostPath = %q, want /tmp/host.go", s.HostPath)
	}
	if s.DocumentPath != "/tmp/doc.txt" {
		t.Errorf("DocumentPath = %q, want /tmp/doc.txt", s.DocumentPath)
	}
	if s.CreatedAt.Before(before) {
		t.Error("CreatedAt not set")
	}
	if !s.UpdatedAt.Equal(s.CreatedAt) {
		t.Error("UpdatedAt should match CreatedAt on a fresh session")
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New("/tmp/host.go", "/tmp/doc.txt")
	b := New("/tmp/host.go", "/tmp/doc.txt")
	if a.ID == b.ID {
		t.Errorf("two sessions share ID %q", a.ID)
	}
}

func TestSession_ParamsRoundTrip(t *testing.T) {
	s := New("/tmp/host.go", "/tmp/doc.txt")
	want := paginate.Params{PageSize: 40, SnippetsPerPage: 6, Unit: paginate.UnitChars}

	s.SetParams(want)
	if got := s.Params(); got != want {
		t.Errorf("Params() = %+v, want %+v", got, want)
	}
	if s.Unit != "chars" {
		t.Errorf("Unit stored as %q, want chars", s.Unit)
	}
}

func TestSession_Touch(t *testing.T) {
	s := New("/tmp/host.go", "/tmp/doc.txt")
	created := s.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	s.Touch()

	if !s.UpdatedAt.After(created) {
		t.Error("Touch() did not advance UpdatedAt")
	}
	if !s.CreatedAt.Equal(created) {
		t.Error("Touch() must not change CreatedAt")
	}
}

func TestFingerprint(t *testing.T) {
	got := Fingerprint([]byte("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("Fingerprint(hello) = %q, want %q", got, want)
	}

	if Fingerprint([]byte("hello")) != got {
		t.Error("Fingerprint not deterministic")
	}
	if Fingerprint([]byte("hello ")) == got {
		t.Error("Fingerprint ignores content changes")
	}
}

func TestKey(t *testing.T) {
	k := Key("/home/u/project/main.go")

	if len(k) != 16 {
		t.Errorf("Key length = %d, want 16", len(k))
	}
	if strings.ToLower(k) != k {
		t.Errorf("Key %q not lowercase hex", k)
	}
	if k != Key("/home/u/project/main.go") {
		t.Error("Key not stable for the same path")
	}
	if k == Key("/home/u/other/main.go") {
		t.Error("Key collides for different paths with the same base name")
	}
}
