package dto

// PayoutRequest is the request body for the proxy payout operation.
type PayoutRequest struct {
	EmployeeAddress string `json:"employeeAddress" binding:"required,tron_address"`
	TargetAddress   string `json:"targetAddress" binding:"required,tron_address"`
	Amount          string `json:"amount" binding:"required,token_amount"`
}

// PayoutResponse is the response body for a completed payout.
type PayoutResponse struct {
	FromPool        string `json:"fromPool"`
	ToTarget        string `json:"toTarget"`
	EmployeeAddress string `json:"employeeAddress"`
	TargetAddress   string `json:"targetAddress"`
	Amount          string `json:"amount"`
}

// BalanceResponse is the response for the pool balance query.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// CheckEmployeeResponse reports whether an address is registered.
type CheckEmployeeResponse struct {
	Address    string `json:"address"`
	IsEmployee bool   `json:"isEmployee"`
}

// AddEmployeeRequest is the request body for employee registration.
type AddEmployeeRequest struct {
	Address    string `json:"address" binding:"required,tron_address"`
	Name       string `json:"name" binding:"omitempty,max=100"`
	PrivateKey string `json:"privateKey" binding:"required,min=1,max=256"`
}

// AddEmployeeResponse is the response for employee registration.
type AddEmployeeResponse struct {
	Address string `json:"address"`
}

// EmployeeResponse is a single employee in listings. It never carries
// key material.
type EmployeeResponse struct {
	Address   string `json:"address"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

// EmployeeListResponse wraps the employee listing.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Total int                `json:"total"`
}
