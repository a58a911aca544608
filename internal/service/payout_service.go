package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"proxy-payout-gateway/internal/core/domain"
	"proxy-payout-gateway/internal/core/ports"
	"proxy-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// PayoutConfig tunes the settlement-wait confirmation poll between the two
// transfer legs.
type PayoutConfig struct {
	// ConfirmInterval is the first poll delay; each subsequent delay doubles.
	ConfirmInterval time.Duration
	// ConfirmMaxAttempts bounds the poll. Exhaustion strands the attempt.
	ConfirmMaxAttempts int
}

// DefaultPayoutConfig returns the production confirmation schedule:
// 1s, 2s, 4s, 8s, 16s, 32s (roughly one minute total).
func DefaultPayoutConfig() PayoutConfig {
	return PayoutConfig{
		ConfirmInterval:    time.Second,
		ConfirmMaxAttempts: 6,
	}
}

// PayoutServiceImpl implements ports.PayoutService: the two-phase relay from
// the pool through a custodied employee account to the target.
//
// Neither leg can be rolled back once broadcast, so the service reports
// exactly where an attempt stopped: a phase-one failure moved nothing, a
// phase-two failure leaves funds stranded at the employee address and is
// surfaced with the phase-one transaction id.
type PayoutServiceImpl struct {
	vault ports.KeyVault
	chain ports.ChainClientFactory
	cfg   PayoutConfig
	log   zerolog.Logger

	// poolMu serializes phase-one transfers: a single signing authority
	// must not race on nonce assignment.
	poolMu sync.Mutex
	// employeeLocks serializes phase two per canonical employee address,
	// covering the transient client's whole lifetime.
	employeeLocks sync.Map // canonical address -> *sync.Mutex
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(vault ports.KeyVault, chain ports.ChainClientFactory, cfg PayoutConfig, log zerolog.Logger) *PayoutServiceImpl {
	if cfg.ConfirmInterval <= 0 {
		cfg.ConfirmInterval = time.Second
	}
	if cfg.ConfirmMaxAttempts <= 0 {
		cfg.ConfirmMaxAttempts = 1
	}
	return &PayoutServiceImpl{
		vault: vault,
		chain: chain,
		cfg:   cfg,
		log:   log,
	}
}

// Execute runs a single payout attempt through the relay state machine.
func (s *PayoutServiceImpl) Execute(ctx context.Context, req domain.PayoutRequest) (*domain.PayoutResult, error) {
	if req.EmployeeAddress == "" || req.TargetAddress == "" || req.Amount == "" {
		return nil, apperror.Validation("employeeAddress, targetAddress and amount are required")
	}

	baseUnits, err := domain.ToBaseUnits(req.Amount)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if baseUnits <= 0 {
		return nil, apperror.Validation("amount is below the smallest token unit")
	}

	// Validating: unknown employees fail before any chain call.
	exists, err := s.vault.Exists(ctx, req.EmployeeAddress)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.ErrUnauthorizedEmployee(req.EmployeeAddress)
	}

	// Retrieve the signing key up front: a vault failure here moves nothing.
	secret, err := s.vault.GetSecret(ctx, req.EmployeeAddress)
	if err != nil {
		return nil, err
	}

	canonical := domain.CanonicalAddress(req.EmployeeAddress)

	s.log.Info().
		Str("employee", req.EmployeeAddress).
		Str("target", req.TargetAddress).
		Int64("base_units", baseUnits).
		Msg("payout started")

	// PhaseOneInFlight: pool -> employee.
	poolTxID, err := s.transferFromPool(ctx, req.EmployeeAddress, baseUnits)
	if err != nil {
		s.log.Warn().Str("employee", req.EmployeeAddress).Err(err).Msg("phase one failed, nothing moved")
		return nil, apperror.ErrChainTransfer(err)
	}

	// SettlementWait: poll until phase one is executed on chain.
	if err := s.waitForSettlement(ctx, poolTxID); err != nil {
		if errors.Is(err, ports.ErrTransactionFailed) {
			// Phase one reverted: funds never left the pool.
			s.log.Warn().Str("pool_tx", poolTxID).Err(err).Msg("phase one reverted on chain")
			return nil, apperror.ErrChainTransfer(err)
		}
		// Funds already left the pool; never fire phase two blind.
		return nil, s.stranded(req, poolTxID, baseUnits, err)
	}

	// PhaseTwoInFlight: employee -> target, serialized per employee.
	targetTxID, err := s.transferFromEmployee(ctx, canonical, req.EmployeeAddress, secret, req.TargetAddress, baseUnits)
	if err != nil {
		return nil, s.stranded(req, poolTxID, baseUnits, err)
	}

	s.log.Info().
		Str("pool_tx", poolTxID).
		Str("target_tx", targetTxID).
		Str("employee", req.EmployeeAddress).
		Str("target", req.TargetAddress).
		Msg("payout complete")

	return &domain.PayoutResult{
		FromPoolTxID:    poolTxID,
		ToTargetTxID:    targetTxID,
		EmployeeAddress: req.EmployeeAddress,
		TargetAddress:   req.TargetAddress,
		Amount:          req.Amount,
	}, nil
}

// PoolBalance returns the pool balance in display units.
func (s *PayoutServiceImpl) PoolBalance(ctx context.Context) (string, error) {
	baseUnits, err := s.chain.Pool().BalanceOf(ctx, "")
	if err != nil {
		return "", apperror.ErrChainQuery(err)
	}
	return domain.FromBaseUnits(baseUnits), nil
}

func (s *PayoutServiceImpl) transferFromPool(ctx context.Context, employeeAddress string, baseUnits int64) (string, error) {
	s.poolMu.Lock()
	defer s.poolMu.Unlock()
	return s.chain.Pool().Transfer(ctx, employeeAddress, baseUnits)
}

func (s *PayoutServiceImpl) transferFromEmployee(ctx context.Context, canonical, employeeAddress, secret, target string, baseUnits int64) (string, error) {
	mu := s.employeeLock(canonical)
	mu.Lock()
	defer mu.Unlock()

	// The transient client lives only inside this critical section.
	client, err := s.chain.ForKey(employeeAddress, secret)
	if err != nil {
		return "", fmt.Errorf("building employee signer: %w", err)
	}
	return client.Transfer(ctx, target, baseUnits)
}

// waitForSettlement polls phase-one confirmation under a doubling-interval
// schedule. A nil return means the transfer executed on chain.
func (s *PayoutServiceImpl) waitForSettlement(ctx context.Context, txID string) error {
	interval := s.cfg.ConfirmInterval
	var lastErr error

	for attempt := 1; attempt <= s.cfg.ConfirmMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		confirmed, err := s.chain.Pool().TransactionConfirmed(ctx, txID)
		if err != nil {
			if errors.Is(err, ports.ErrTransactionFailed) {
				return err
			}
			lastErr = err
			s.log.Warn().Str("tx", txID).Int("attempt", attempt).Err(err).Msg("confirmation check failed")
		} else if confirmed {
			return nil
		}

		interval *= 2
	}

	if lastErr != nil {
		return fmt.Errorf("confirmation not reached for %s: %w", txID, lastErr)
	}
	return fmt.Errorf("confirmation not reached for %s after %d attempts", txID, s.cfg.ConfirmMaxAttempts)
}

// stranded records and wraps a phase-two failure. The phase-one id travels
// with the error so the employee->target leg can be resumed without a second
// pool debit.
func (s *PayoutServiceImpl) stranded(req domain.PayoutRequest, poolTxID string, baseUnits int64, cause error) error {
	s.log.Error().
		Str("pool_tx", poolTxID).
		Str("employee", req.EmployeeAddress).
		Str("target", req.TargetAddress).
		Int64("base_units", baseUnits).
		Err(cause).
		Msg("payout stranded: funds at employee account, phase two must be resumed manually")
	return apperror.ErrStrandedFunds(poolTxID, cause)
}

func (s *PayoutServiceImpl) employeeLock(canonical string) *sync.Mutex {
	mu, _ := s.employeeLocks.LoadOrStore(canonical, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
