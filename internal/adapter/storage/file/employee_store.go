// Package file implements the employee store over a single JSON file.
// The file is the vault's only durable state: human-inspectable, secrets
// kept as ciphertext.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"proxy-payout-gateway/internal/core/domain"

	"github.com/rs/zerolog"
)

// EmployeeStore persists the employee map as JSON, keyed by canonical
// address. All mutations rewrite the whole file atomically
// (write-new-then-replace); a single mutex serializes writers.
type EmployeeStore struct {
	path string
	log  zerolog.Logger

	mu        sync.RWMutex
	employees map[string]domain.Employee
}

// NewEmployeeStore loads the store from path. A missing file is an empty
// vault; a present but unreadable file is a startup error, never silent
// data loss.
func NewEmployeeStore(path string, log zerolog.Logger) (*EmployeeStore, error) {
	s := &EmployeeStore{
		path:      path,
		log:       log,
		employees: make(map[string]domain.Employee),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("employee file absent, starting with empty vault")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading employee file: %w", err)
	}

	if err := json.Unmarshal(data, &s.employees); err != nil {
		return nil, fmt.Errorf("employee file %s is corrupt: %w", path, err)
	}

	log.Info().Str("path", path).Int("count", len(s.employees)).Msg("employee file loaded")
	return s, nil
}

// Put inserts or overwrites the record under its canonical address.
func (s *EmployeeStore) Put(_ context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees[domain.CanonicalAddress(employee.Address)] = *employee
	return s.persistLocked()
}

// Get returns the record for a canonical address, or nil if absent.
func (s *EmployeeStore) Get(_ context.Context, canonicalAddress string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[canonicalAddress]
	if !ok {
		return nil, nil
	}
	return &employee, nil
}

// Delete removes a record. Deleting an absent address is a no-op.
func (s *EmployeeStore) Delete(_ context.Context, canonicalAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[canonicalAddress]; !ok {
		return nil
	}
	delete(s.employees, canonicalAddress)
	return s.persistLocked()
}

// List returns all records.
func (s *EmployeeStore) List(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		employees = append(employees, e)
	}
	return employees, nil
}

// persistLocked writes the full map to a temp file in the same directory
// and renames it over the target, so readers never observe a partial write.
// Callers must hold the write lock.
func (s *EmployeeStore) persistLocked() error {
	data, err := json.MarshalIndent(s.employees, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding employees: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".employees-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing employee file: %w", err)
	}
	return nil
}
