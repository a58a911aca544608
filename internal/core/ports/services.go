package ports

import (
	"context"
	"errors"

	"proxy-payout-gateway/internal/core/domain"
)

// ErrTransactionFailed marks a transaction that executed on chain and
// reverted. Unlike a pending transaction, this state is terminal.
var ErrTransactionFailed = errors.New("transaction failed on chain")

// SecretCipher seals and opens employee signing keys for at-rest storage.
type SecretCipher interface {
	// Seal encrypts a plaintext key under a fresh random nonce. Two calls
	// with the same plaintext never produce the same blob.
	Seal(plaintext string) (domain.StoredSecret, error)
	// Open decrypts a sealed blob. It fails on tampered ciphertext or a
	// wrong key rather than returning garbage key material.
	Open(secret domain.StoredSecret) (string, error)
}

// ChainClient executes token operations on behalf of a single signing
// authority. Calls may be slow (seconds) and may fail transiently; the
// client never retries internally.
type ChainClient interface {
	// Transfer submits a signed value transfer and returns the transaction
	// id. Success means accepted for broadcast, not final settlement.
	Transfer(ctx context.Context, to string, amountBaseUnits int64) (string, error)
	// BalanceOf returns an account's token balance in base units.
	BalanceOf(ctx context.Context, account string) (int64, error)
	// TransactionConfirmed reports whether the transaction has been
	// executed on chain. A false result with nil error means "not yet".
	TransactionConfirmed(ctx context.Context, txID string) (bool, error)
}

// ChainClientFactory builds chain clients bound to signing authorities.
type ChainClientFactory interface {
	// Pool returns the client bound to the pool's signing authority. Its
	// Transfer moves funds out of the pool contract to an employee.
	Pool() ChainClient
	// ForKey builds a transient client signing as ownerAddress with the
	// given private key. Callers must discard it after the call; it is
	// never cached.
	ForKey(ownerAddress, privateKey string) (ChainClient, error)
}

// KeyVault custodies employee signing keys, encrypted at rest.
type KeyVault interface {
	Add(ctx context.Context, address, privateKey, name string) error
	Get(ctx context.Context, address string) (*domain.Employee, error)
	// GetSecret returns the plaintext signing key for an employee.
	GetSecret(ctx context.Context, address string) (string, error)
	Exists(ctx context.Context, address string) (bool, error)
	// Remove is idempotent: removing an unknown address is not an error.
	Remove(ctx context.Context, address string) error
	// List never exposes secrets or ciphertext.
	List(ctx context.Context) ([]domain.EmployeeSummary, error)
}

// PayoutService drives the two-phase relay payout.
type PayoutService interface {
	// Execute runs pool->employee then employee->target for the requested
	// amount. On a phase-two failure it returns a stranded-funds error
	// carrying the phase-one transaction id.
	Execute(ctx context.Context, req domain.PayoutRequest) (*domain.PayoutResult, error)
	// PoolBalance returns the pool balance in display units.
	PoolBalance(ctx context.Context) (string, error)
}
