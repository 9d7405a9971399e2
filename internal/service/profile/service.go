package profile

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service errors
var (
	ErrNotFound = errors.New("profile not found")
	ErrStorage  = errors.New("profile storage failure")
)

// DefaultEditor is recorded when the caller identity is unknown.
const DefaultEditor = "system"

// StatusApproved is assigned to extended records created by an edit.
const StatusApproved = "approved"

// Person is the base record owned by the screening ingestion.
type Person struct {
	ID          string
	Name        string
	Identifiers string
	Type        string
	Country     string
	RiskLevel   string
	Dataset     string
}

// Fields is the full set of editable attributes.
type Fields struct {
	FullName                    string
	Email                       string
	Gender                      string
	DateOfBirth                 string
	Nationality                 string
	CountryOfResidence          string
	OtherNationalities          bool
	SpecifiedOtherNationalities string
	NationalIDNumber            string
	NationalIDExpiry            string
	PassportNumber              string
	PassportExpiry              string
	Address                     string
	State                       string
	City                        string
	ZipCode                     string
	ContactNumber               string
	DialingCode                 string
	WorkType                    string
	Industry                    string
	ProductTypeOffered          string
	ProductOffered              string
	CompanyName                 string
	PositionInCompany           string
}

// Individual is an extended record, linked to a Person by full name.
type Individual struct {
	ID int64
	Fields
	Status string
}

// EditRecord is one row of the append-only edit history.
type EditRecord struct {
	ID           int64
	ProfileID    string
	OriginalName string
	Fields
	EditedBy  string
	CreatedAt time.Time
}

// MergedProfile is a Person combined with its extended record, if any.
type MergedProfile struct {
	Person
	FullName string
	// Extended is nil when no extended record matches the person's name.
	// When set, NationalIDNumber already falls back to Person.Identifiers.
	Extended *Individual
}

// UpdateParams for updating a profile.
type UpdateParams struct {
	// OriginalName is the pre-edit name the extended record is keyed by.
	OriginalName string
	EditedBy     string
	Fields       Fields
}

// Branch identifies how the extended record was written.
type Branch string

const (
	BranchInsert Branch = "insert"
	BranchUpdate Branch = "update"
)

// UpdateResult describes a committed update.
type UpdateResult struct {
	ProfileID string
	EditID    int64
	Branch    Branch
}

// Service defines profile operations.
//
// Update must apply the base update, the history insert, and the extended
// upsert atomically. Implementations wrap every storage fault in ErrStorage.
type Service interface {
	Get(ctx context.Context, id string) (*MergedProfile, error)
	Update(ctx context.Context, id string, params UpdateParams) (*UpdateResult, error)
}

// Merge combines a person with the first extended record matching its name.
func Merge(p Person, ind *Individual) *MergedProfile {
	m := &MergedProfile{Person: p, FullName: p.Name}
	if ind == nil {
		return m
	}
	ext := *ind
	if ext.NationalIDNumber == "" {
		ext.NationalIDNumber = p.Identifiers
	}
	m.FullName = ext.FullName
	m.Extended = &ext
	return m
}

func editor(editedBy string) string {
	if editedBy == "" {
		return DefaultEditor
	}
	return editedBy
}

func storageError(op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
