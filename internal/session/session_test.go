package session

import (
	"errors"
	"io"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/mkravets/passvault/internal/hasher"
	"github.com/mkravets/passvault/internal/models"
)

// scriptedReader returns one queued answer per Secret call.
type scriptedReader struct {
	answers []string
	calls   int
}

func (r *scriptedReader) Secret(label string) (string, error) {
	if r.calls >= len(r.answers) {
		return "", io.EOF
	}
	answer := r.answers[r.calls]
	r.calls++
	return answer, nil
}

type mockStore struct {
	saved   *models.VaultFile
	failErr error
}

func (m *mockStore) Save(vf *models.VaultFile) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saved = vf
	return nil
}

// silenceStdout discards the session's console output for the duration of a
// test.
func silenceStdout(t *testing.T) {
	t.Helper()
	old := os.Stdout
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open %s: %v", os.DevNull, err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = old
		devNull.Close()
	})
}

func newTestSession(st Store) *Session {
	return New(hasher.SHA256{}, st, zap.NewNop())
}

func TestSetup_MatchingPasswords(t *testing.T) {
	silenceStdout(t)
	st := &mockStore{}
	s := newTestSession(st)

	vf, err := s.Setup(&scriptedReader{answers: []string{"abc123", "abc123"}})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	want := "6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090"
	if vf.MasterHash != want {
		t.Errorf("MasterHash = %q; want %q", vf.MasterHash, want)
	}
	if len(vf.Passwords) != 0 {
		t.Errorf("expected empty passwords map, got %d entries", len(vf.Passwords))
	}
	if st.saved != vf {
		t.Error("Setup did not persist the new vault file")
	}
	if s.State() != Authenticated {
		t.Errorf("State = %v; want Authenticated", s.State())
	}
}

func TestSetup_RetriesUntilConfirmed(t *testing.T) {
	silenceStdout(t)
	st := &mockStore{}
	s := newTestSession(st)

	reader := &scriptedReader{answers: []string{
		"first", "typo",
		"second", "second",
	}}
	vf, err := s.Setup(reader)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if reader.calls != 4 {
		t.Errorf("Secret called %d times; want 4", reader.calls)
	}
	if vf.MasterHash != (hasher.SHA256{}).Digest("second") {
		t.Error("vault digest does not match the confirmed password")
	}
}

func TestSetup_RejectsEmptyPassword(t *testing.T) {
	silenceStdout(t)
	st := &mockStore{}
	s := newTestSession(st)

	reader := &scriptedReader{answers: []string{
		"", "",
		"real", "real",
	}}
	vf, err := s.Setup(reader)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if vf.MasterHash != (hasher.SHA256{}).Digest("real") {
		t.Error("empty master password was accepted")
	}
}

func TestSetup_SaveFailure(t *testing.T) {
	silenceStdout(t)
	st := &mockStore{failErr: errors.New("disk full")}
	s := newTestSession(st)

	_, err := s.Setup(&scriptedReader{answers: []string{"pw", "pw"}})
	if err == nil {
		t.Fatal("Setup succeeded despite save failure")
	}
	if s.State() != Unauthenticated {
		t.Errorf("State = %v; want Unauthenticated", s.State())
	}
}

func TestVerify_CorrectFirstAttempt(t *testing.T) {
	silenceStdout(t)
	s := newTestSession(&mockStore{})
	vf := models.NewVaultFile((hasher.SHA256{}).Digest("abc123"))

	if !s.Verify(vf, &scriptedReader{answers: []string{"abc123"}}) {
		t.Fatal("Verify rejected the correct password")
	}
	if s.State() != Authenticated {
		t.Errorf("State = %v; want Authenticated", s.State())
	}
}

func TestVerify_CorrectSecondAttempt(t *testing.T) {
	silenceStdout(t)
	s := newTestSession(&mockStore{})
	vf := models.NewVaultFile((hasher.SHA256{}).Digest("abc123"))

	reader := &scriptedReader{answers: []string{"wrong", "abc123"}}
	if !s.Verify(vf, reader) {
		t.Fatal("Verify rejected the correct password on attempt 2")
	}
	if reader.calls != 2 {
		t.Errorf("Secret called %d times; want 2", reader.calls)
	}
}

func TestVerify_LocksAfterThreeMisses(t *testing.T) {
	silenceStdout(t)
	s := newTestSession(&mockStore{})
	vf := models.NewVaultFile((hasher.SHA256{}).Digest("abc123"))

	reader := &scriptedReader{answers: []string{"a", "b", "c", "abc123"}}
	if s.Verify(vf, reader) {
		t.Fatal("Verify granted access after three wrong attempts")
	}
	if reader.calls != MaxAttempts {
		t.Errorf("Secret called %d times; want %d", reader.calls, MaxAttempts)
	}
	if s.State() != Locked {
		t.Errorf("State = %v; want Locked", s.State())
	}
}

func TestVerify_ReadFailureLocks(t *testing.T) {
	silenceStdout(t)
	s := newTestSession(&mockStore{})
	vf := models.NewVaultFile((hasher.SHA256{}).Digest("abc123"))

	if s.Verify(vf, &scriptedReader{}) {
		t.Fatal("Verify granted access without any input")
	}
	if s.State() != Locked {
		t.Errorf("State = %v; want Locked", s.State())
	}
}
