// Package memory is an in-process RecordStore used for local development
// without a database and as the shared fake in service and handler tests.
// It mirrors the Postgres store's filter, order and paging rules.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"assetgallery/internal/domain"
	"assetgallery/internal/domain/models/gallery"
	"assetgallery/internal/domain/repositories"
)

type siblingKey struct {
	parent int64 // 0 = top level
	name   string
}

// Store keeps records and members in maps guarded by one lock.
type Store struct {
	mu       sync.RWMutex
	records  map[int64]gallery.FileRecord
	siblings map[siblingKey]int64
	members  map[int64]gallery.Member
	nextID   int64

	// txMu serializes transactions; a failed transaction restores the
	// snapshot taken when it began.
	txMu sync.Mutex

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		records:  make(map[int64]gallery.FileRecord),
		siblings: make(map[siblingKey]int64),
		members:  make(map[int64]gallery.Member),
		nextID:   1,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to stamp created folders
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func keyOf(parentID *int64, name string) siblingKey {
	var parent int64
	if parentID != nil {
		parent = *parentID
	}
	return siblingKey{parent: parent, name: name}
}

// Insert adds a record, assigning an id when ID is zero. It enforces the
// same parent and sibling-name constraints as the database.
func (s *Store) Insert(record gallery.FileRecord) (*gallery.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(record)
}

func (s *Store) insertLocked(record gallery.FileRecord) (*gallery.FileRecord, error) {
	if record.ParentID != nil && *record.ParentID == 0 {
		record.ParentID = nil
	}
	if record.ParentID != nil {
		parent, ok := s.records[*record.ParentID]
		if !ok || !parent.IsFolder {
			return nil, fmt.Errorf("parent %d is not a folder", *record.ParentID)
		}
	}

	key := keyOf(record.ParentID, record.Name)
	if existing, taken := s.siblings[key]; taken {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("%q already exists in this folder", record.Name),
			ResourceType: resourceType(s.records[existing]),
			ResourceID:   existing,
		}
	}

	if record.ID == 0 {
		record.ID = s.nextID
	} else if _, taken := s.records[record.ID]; taken {
		return nil, fmt.Errorf("record %d already exists", record.ID)
	}
	// Ids are never reused
	if record.ID >= s.nextID {
		s.nextID = record.ID + 1
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	if record.LastUpdatedAt.IsZero() {
		record.LastUpdatedAt = record.CreatedAt
	}

	s.records[record.ID] = record
	s.siblings[key] = record.ID
	out := record
	return &out, nil
}

// AddMember registers a member
func (s *Store) AddMember(member gallery.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
}

// Query returns the matching records, folders first then by name
func (s *Store) Query(ctx context.Context, criteria *gallery.Criteria) ([]gallery.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matches := s.matchLocked(criteria)
	s.mu.RUnlock()

	slices.SortFunc(matches, func(a, b gallery.FileRecord) int {
		if a.IsFolder != b.IsFolder {
			if a.IsFolder {
				return -1
			}
			return 1
		}
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	if criteria.Offset > 0 {
		if criteria.Offset >= len(matches) {
			return []gallery.FileRecord{}, nil
		}
		matches = matches[criteria.Offset:]
	}
	if criteria.Paginated() && len(matches) > criteria.Limit {
		matches = matches[:criteria.Limit]
	}
	return matches, nil
}

// CountMatching counts matches ignoring the page window
func (s *Store) CountMatching(ctx context.Context, criteria *gallery.Criteria) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchLocked(criteria)), nil
}

func (s *Store) matchLocked(c *gallery.Criteria) []gallery.FileRecord {
	name := strings.ToLower(c.NameContains)

	out := make([]gallery.FileRecord, 0)
	for _, r := range s.records {
		switch c.Scope {
		case gallery.ScopeTopLevel:
			if r.ParentID != nil {
				continue
			}
		case gallery.ScopeParent:
			if r.ParentID == nil || *r.ParentID != c.ParentID {
				continue
			}
		}

		if name != "" &&
			!strings.Contains(strings.ToLower(r.Name), name) &&
			!strings.Contains(strings.ToLower(r.Title), name) {
			continue
		}
		if c.CreatedFrom != nil && r.CreatedAt.Before(*c.CreatedFrom) {
			continue
		}
		if c.CreatedTo != nil && r.CreatedAt.After(*c.CreatedTo) {
			continue
		}
		if c.Extensions != nil && !hasAnyExtension(r.Name, c.Extensions) {
			continue
		}

		out = append(out, r)
	}
	return out
}

func hasAnyExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.Contains(lower, "."+strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// FindByID retrieves a record
func (s *Store) FindByID(ctx context.Context, id int64) (*gallery.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	return &record, nil
}

// Write persists name, title and last-updated time of an existing record
func (s *Store) Write(ctx context.Context, record *gallery.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[record.ID]
	if !ok {
		return fmt.Errorf("record %d: %w", record.ID, domain.ErrNotFound)
	}

	oldKey := keyOf(current.ParentID, current.Name)
	newKey := keyOf(current.ParentID, record.Name)
	if newKey != oldKey {
		if existing, taken := s.siblings[newKey]; taken {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%q already exists in this folder", record.Name),
				ResourceType: resourceType(s.records[existing]),
				ResourceID:   existing,
			}
		}
		delete(s.siblings, oldKey)
		s.siblings[newKey] = current.ID
	}

	current.Name = record.Name
	current.Title = record.Title
	current.LastUpdatedAt = record.LastUpdatedAt
	s.records[current.ID] = current
	return nil
}

// Delete removes a record and, for folders, everything below it
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}

	pending := []int64{id}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		for childID, child := range s.records {
			if child.ParentID != nil && *child.ParentID == current {
				pending = append(pending, childID)
			}
		}

		record := s.records[current]
		delete(s.siblings, keyOf(record.ParentID, record.Name))
		delete(s.records, current)
	}
	return nil
}

// HasChildren reports whether any record lives in the folder
func (s *Store) HasChildren(ctx context.Context, folderID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ParentID != nil && *r.ParentID == folderID {
			return true, nil
		}
	}
	return false, nil
}

// FindOrCreateFolder returns the record called name under parentID, creating
// a folder when there is none. The lookup and insert happen under one lock.
func (s *Store) FindOrCreateFolder(ctx context.Context, parentID *int64, name string) (*gallery.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.siblings[keyOf(parentID, name)]; ok {
		record := s.records[id]
		return &record, nil
	}

	return s.insertLocked(gallery.FileRecord{
		ParentID: parentID,
		IsFolder: true,
		Name:     name,
		Title:    name,
	})
}

// GetPath joins the names from the top level down to the record
func (s *Store) GetPath(ctx context.Context, id int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var segments []string
	current := &id
	for depth := 0; current != nil; depth++ {
		if depth > len(s.records) {
			return "", fmt.Errorf("cycle detected at record %d", *current)
		}
		record, ok := s.records[*current]
		if !ok {
			return "", fmt.Errorf("record %d: %w", *current, domain.ErrNotFound)
		}
		segments = append(segments, record.Name)
		current = record.ParentID
	}

	slices.Reverse(segments)
	return strings.Join(segments, "/"), nil
}

// GetByID looks up a member, so a Store also serves as the member repository
func (s *Store) GetByID(ctx context.Context, id int64) (*gallery.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[id]
	if !ok {
		return nil, fmt.Errorf("member %d: %w", id, domain.ErrNotFound)
	}
	return &member, nil
}

type txMarker struct{}

// ExecTx runs fn atomically with respect to other transactions. Nested
// calls join the outer transaction.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeState struct {
	records  map[int64]gallery.FileRecord
	siblings map[siblingKey]int64
}

func (s *Store) snapshot() storeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storeState{
		records:  maps.Clone(s.records),
		siblings: maps.Clone(s.siblings),
	}
}

// restore rolls records back; nextID keeps advancing so ids are not reused
func (s *Store) restore(state storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = state.records
	s.siblings = state.siblings
}

func resourceType(record gallery.FileRecord) string {
	if record.IsFolder {
		return "folder"
	}
	return "file"
}
