package domain

// PayoutRequest is a validated request for a two-phase relay payout.
// Amount is in display units (e.g. "10.5" USDT); conversion to base units
// happens once and feeds both transfer legs.
type PayoutRequest struct {
	EmployeeAddress string
	TargetAddress   string
	Amount          string
}

// PayoutResult reports a completed relay. Both transaction ids must be
// present for the payout to count as complete; a phase-one id without a
// phase-two id is a stranded attempt and is reported as an error instead.
type PayoutResult struct {
	FromPoolTxID    string `json:"fromPool"`
	ToTargetTxID    string `json:"toTarget"`
	EmployeeAddress string `json:"employeeAddress"`
	TargetAddress   string `json:"targetAddress"`
	Amount          string `json:"amount"`
}

// PayoutState tracks a single payout attempt through the relay state machine.
type PayoutState string

const (
	PayoutStateValidating     PayoutState = "VALIDATING"
	PayoutStatePhaseOne       PayoutState = "PHASE_ONE_IN_FLIGHT"
	PayoutStateSettlementWait PayoutState = "SETTLEMENT_WAIT"
	PayoutStatePhaseTwo       PayoutState = "PHASE_TWO_IN_FLIGHT"
	PayoutStateComplete       PayoutState = "COMPLETE"
	PayoutStateFailed         PayoutState = "FAILED"
	PayoutStateStranded       PayoutState = "STRANDED"
)
