package ports

import (
	"context"

	"proxy-payout-gateway/internal/core/domain"
)

// EmployeeStore persists employee records keyed by canonical address.
// Implementations must write atomically from a reader's perspective and
// serialize concurrent mutations.
type EmployeeStore interface {
	// Put inserts or overwrites the record for its canonical address.
	Put(ctx context.Context, employee *domain.Employee) error
	// Get returns the record for a canonical address, or nil if absent.
	Get(ctx context.Context, canonicalAddress string) (*domain.Employee, error)
	// Delete removes a record. Deleting an absent address is not an error.
	Delete(ctx context.Context, canonicalAddress string) error
	// List returns all records in no particular order.
	List(ctx context.Context) ([]domain.Employee, error)
}
