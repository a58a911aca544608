package service

import (
	"context"
	"fmt"
	"time"

	"proxy-payout-gateway/internal/core/domain"
	"proxy-payout-gateway/internal/core/ports"
	"proxy-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// VaultServiceImpl implements ports.KeyVault over an employee store and a
// secret cipher.
type VaultServiceImpl struct {
	store  ports.EmployeeStore
	cipher ports.SecretCipher
	log    zerolog.Logger
}

// NewVaultService creates a new VaultServiceImpl.
func NewVaultService(store ports.EmployeeStore, cipher ports.SecretCipher, log zerolog.Logger) *VaultServiceImpl {
	return &VaultServiceImpl{
		store:  store,
		cipher: cipher,
		log:    log,
	}
}

// Add encrypts the signing key under a fresh nonce and writes the record,
// overwriting any prior record for the same canonical address.
func (s *VaultServiceImpl) Add(ctx context.Context, address, privateKey, name string) error {
	if address == "" || privateKey == "" {
		return apperror.Validation("address and privateKey are required")
	}

	sealed, err := s.cipher.Seal(privateKey)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("sealing secret: %w", err))
	}

	employee := &domain.Employee{
		Address:         address,
		Name:            name,
		EncryptedSecret: sealed.Encode(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.store.Put(ctx, employee); err != nil {
		return apperror.ErrVaultStorage(fmt.Errorf("persisting employee: %w", err))
	}

	s.log.Info().Str("address", address).Msg("employee added")
	return nil
}

// Get looks up an employee by canonical address. Returns nil when absent.
func (s *VaultServiceImpl) Get(ctx context.Context, address string) (*domain.Employee, error) {
	employee, err := s.store.Get(ctx, domain.CanonicalAddress(address))
	if err != nil {
		return nil, apperror.ErrVaultStorage(err)
	}
	return employee, nil
}

// GetSecret returns the plaintext signing key. Records written before
// encryption was introduced are stored as plaintext and returned as-is;
// every encrypted record is opened through the cipher.
func (s *VaultServiceImpl) GetSecret(ctx context.Context, address string) (string, error) {
	employee, err := s.Get(ctx, address)
	if err != nil {
		return "", err
	}
	if employee == nil {
		return "", apperror.ErrEmployeeNotFound(address)
	}

	stored := domain.ParseStoredSecret(employee.EncryptedSecret)
	if stored.Legacy {
		return stored.Ciphertext, nil
	}

	plaintext, err := s.cipher.Open(stored)
	if err != nil {
		s.log.Error().Str("address", employee.Address).Err(err).Msg("stored secret failed to decrypt")
		return "", apperror.ErrDecryptionFailure(err)
	}
	return plaintext, nil
}

// Exists reports whether an employee record exists for the address.
func (s *VaultServiceImpl) Exists(ctx context.Context, address string) (bool, error) {
	employee, err := s.Get(ctx, address)
	if err != nil {
		return false, err
	}
	return employee != nil, nil
}

// Remove deletes the record. Removing an unknown address is a no-op.
func (s *VaultServiceImpl) Remove(ctx context.Context, address string) error {
	if err := s.store.Delete(ctx, domain.CanonicalAddress(address)); err != nil {
		return apperror.ErrVaultStorage(err)
	}
	s.log.Info().Str("address", address).Msg("employee removed")
	return nil
}

// List returns all employees without secrets or ciphertext.
func (s *VaultServiceImpl) List(ctx context.Context) ([]domain.EmployeeSummary, error) {
	employees, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.ErrVaultStorage(err)
	}

	summaries := make([]domain.EmployeeSummary, 0, len(employees))
	for _, e := range employees {
		summaries = append(summaries, e.Summary())
	}
	return summaries, nil
}
