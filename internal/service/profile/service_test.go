package profile

import (
	"errors"
	"testing"
)

func janePerson() Person {
	return Person{
		ID:          "1",
		Name:        "Jane Doe",
		Identifiers: "A123",
		Type:        "individual",
		Country:     "UAE",
		RiskLevel:   "low",
		Dataset:     "sanctions",
	}
}

func TestMergeWithoutExtended(t *testing.T) {
	m := Merge(janePerson(), nil)

	if m.Person != janePerson() {
		t.Fatalf("expected base fields intact, got %+v", m.Person)
	}
	if m.FullName != "Jane Doe" {
		t.Fatalf("expected fullName to default to name, got %q", m.FullName)
	}
	if m.Extended != nil {
		t.Fatalf("expected no extended fields, got %+v", m.Extended)
	}
}

func TestMergeNationalIDPrecedence(t *testing.T) {
	ind := &Individual{ID: 1, Fields: Fields{FullName: "Jane Doe", NationalIDNumber: "N-999"}}
	m := Merge(janePerson(), ind)
	if m.Extended.NationalIDNumber != "N-999" {
		t.Fatalf("expected extended national id, got %q", m.Extended.NationalIDNumber)
	}

	ind = &Individual{ID: 1, Fields: Fields{FullName: "Jane Doe"}}
	m = Merge(janePerson(), ind)
	if m.Extended.NationalIDNumber != "A123" {
		t.Fatalf("expected identifiers fallback, got %q", m.Extended.NationalIDNumber)
	}
	if ind.NationalIDNumber != "" {
		t.Fatal("merge must not modify the stored record")
	}
}

func TestEditorFallback(t *testing.T) {
	if got := editor(""); got != DefaultEditor {
		t.Fatalf("expected %q, got %q", DefaultEditor, got)
	}
	if got := editor("analyst@example.com"); got != "analyst@example.com" {
		t.Fatalf("expected identity, got %q", got)
	}
}

func TestStorageErrorWrapsOnce(t *testing.T) {
	cause := errors.New("deadlock")
	err := storageError("update person", cause)
	if !errors.Is(err, ErrStorage) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrStorage and cause, got %v", err)
	}
	if again := storageError("update profile", err); again != err {
		t.Fatalf("expected already wrapped error unchanged, got %v", again)
	}
}
