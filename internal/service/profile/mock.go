package profile

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// MockProfileService implements Service in memory with the same semantics as
// MySQLStore. It backs handler tests and local runs without a database.
type MockProfileService struct {
	mu          sync.RWMutex
	persons     map[string]Person
	individuals []Individual
	edits       []EditRecord
	nextIndID   int64
	nextEditID  int64
	upsertErr   error
}

// NewMockProfileService creates a new mock service.
func NewMockProfileService() *MockProfileService {
	return &MockProfileService{
		persons:    make(map[string]Person),
		nextIndID:  1,
		nextEditID: 1,
	}
}

// SeedPerson stores a base record.
func (m *MockProfileService) SeedPerson(p Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persons[p.ID] = p
}

// SeedIndividual stores an extended record and returns its id.
func (m *MockProfileService) SeedIndividual(ind Individual) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ind.ID = m.nextIndID
	m.nextIndID++
	m.individuals = append(m.individuals, ind)
	return ind.ID
}

// FailUpsert makes the extended record step of subsequent updates fail with
// err, after the base update and history insert have been staged. A nil err
// clears the failure.
func (m *MockProfileService) FailUpsert(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertErr = err
}

func (m *MockProfileService) Get(_ context.Context, id string) (*MergedProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.persons[id]
	if !ok {
		return nil, ErrNotFound
	}
	if i := m.firstIndividual(p.Name); i >= 0 {
		return Merge(p, &m.individuals[i]), nil
	}
	return Merge(p, nil), nil
}

func (m *MockProfileService) Update(_ context.Context, id string, params UpdateParams) (*UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Steps run against a copy that replaces the live state only on success.
	tx := m.begin()
	f := params.Fields
	if p, ok := tx.persons[id]; ok {
		p.Name = f.FullName
		p.Identifiers = f.NationalIDNumber
		p.Country = f.CountryOfResidence
		tx.persons[id] = p
	}

	edit := EditRecord{
		ID:           tx.nextEditID,
		ProfileID:    id,
		OriginalName: params.OriginalName,
		Fields:       f,
		EditedBy:     editor(params.EditedBy),
		CreatedAt:    time.Now().UTC(),
	}
	tx.nextEditID++
	tx.edits = append(tx.edits, edit)

	if m.upsertErr != nil {
		return nil, storageError("upsert individual", m.upsertErr)
	}

	result := &UpdateResult{ProfileID: id, EditID: edit.ID, Branch: BranchUpdate}
	if slices.IndexFunc(tx.individuals, nameIs(params.OriginalName)) < 0 {
		tx.individuals = append(tx.individuals, Individual{ID: tx.nextIndID, Fields: f, Status: StatusApproved})
		tx.nextIndID++
		result.Branch = BranchInsert
	} else {
		for i := range tx.individuals {
			if tx.individuals[i].FullName == params.OriginalName {
				tx.individuals[i].Fields = f
			}
		}
	}

	m.commit(tx)
	return result, nil
}

// mockState is the mutable part of MockProfileService.
type mockState struct {
	persons     map[string]Person
	individuals []Individual
	edits       []EditRecord
	nextIndID   int64
	nextEditID  int64
}

func (m *MockProfileService) begin() *mockState {
	return &mockState{
		persons:     maps.Clone(m.persons),
		individuals: slices.Clone(m.individuals),
		edits:       slices.Clone(m.edits),
		nextIndID:   m.nextIndID,
		nextEditID:  m.nextEditID,
	}
}

func (m *MockProfileService) commit(tx *mockState) {
	m.persons = tx.persons
	m.individuals = tx.individuals
	m.edits = tx.edits
	m.nextIndID = tx.nextIndID
	m.nextEditID = tx.nextEditID
}

// Person returns the stored base record.
func (m *MockProfileService) Person(id string) (Person, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.persons[id]
	return p, ok
}

// Individuals returns the extended records with the given full name.
func (m *MockProfileService) Individuals(fullName string) []Individual {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Individual
	for _, ind := range m.individuals {
		if ind.FullName == fullName {
			out = append(out, ind)
		}
	}
	return out
}

// Edits returns the edit history for a profile, oldest first.
func (m *MockProfileService) Edits(id string) []EditRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []EditRecord
	for _, e := range m.edits {
		if e.ProfileID == id {
			out = append(out, e)
		}
	}
	return out
}

// Clear removes all records (useful for test cleanup).
func (m *MockProfileService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persons = make(map[string]Person)
	m.individuals = nil
	m.edits = nil
	m.upsertErr = nil
}

// firstIndividual returns the index of the lowest-id record named fullName, or -1.
func (m *MockProfileService) firstIndividual(fullName string) int {
	return slices.IndexFunc(m.individuals, nameIs(fullName))
}

func nameIs(fullName string) func(Individual) bool {
	return func(ind Individual) bool { return ind.FullName == fullName }
}

// Compile-time interface check
var _ Service = (*MockProfileService)(nil)
