package domain

import (
	"strings"
	"time"
)

// Employee is a custodied intermediary account. The vault stores its signing
// key encrypted at rest; only the payout flow ever sees the plaintext.
type Employee struct {
	Address         string    `json:"address"`
	Name            string    `json:"name"`
	EncryptedSecret string    `json:"encryptedPrivateKey"`
	CreatedAt       time.Time `json:"createdAt"`
}

// EmployeeSummary is the listing view of an employee. It never carries the
// secret or its ciphertext.
type EmployeeSummary struct {
	Address   string    `json:"address"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary strips the employee down to its listable fields.
func (e Employee) Summary() EmployeeSummary {
	return EmployeeSummary{
		Address:   e.Address,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
	}
}

// CanonicalAddress normalizes an account address for use as a vault key.
// At most one employee record exists per canonical address.
func CanonicalAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
