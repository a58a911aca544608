// Package chain implements the chain client boundary against a TRON
// full-node HTTP API. Transaction construction and signing stay on the
// node side; this adapter only drives the trigger/sign/broadcast flow.
package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"proxy-payout-gateway/config"
	"proxy-payout-gateway/internal/core/ports"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	selectorPoolTransfer = "transferToEmployee(address,uint256)"
	selectorPoolBalance  = "getBalance()"
	selectorTransfer     = "transfer(address,uint256)"
	selectorBalanceOf    = "balanceOf(address)"
)

// ClientFactory builds chain clients over one shared HTTP client. The pool
// client is long-lived; employee clients are built per call and discarded.
type ClientFactory struct {
	http *resty.Client
	cfg  config.ChainConfig
	log  zerolog.Logger
	pool *Client
}

// NewClientFactory validates the configured addresses and prepares the pool
// client.
func NewClientFactory(cfg config.ChainConfig, log zerolog.Logger) (*ClientFactory, error) {
	for name, addr := range map[string]string{
		"pool owner":     cfg.PoolOwnerAddress,
		"pool contract":  cfg.PoolContract,
		"token contract": cfg.TokenContract,
	} {
		if _, err := AddressToHex(addr); err != nil {
			return nil, fmt.Errorf("invalid %s address: %w", name, err)
		}
	}
	if cfg.PoolPrivateKey == "" {
		return nil, fmt.Errorf("pool private key must be configured")
	}

	httpClient := resty.New().
		SetBaseURL(cfg.NodeURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	f := &ClientFactory{http: httpClient, cfg: cfg, log: log}
	f.pool = &Client{
		http:             httpClient,
		ownerAddress:     cfg.PoolOwnerAddress,
		privateKey:       cfg.PoolPrivateKey,
		contract:         cfg.PoolContract,
		transferSelector: selectorPoolTransfer,
		feeLimit:         cfg.FeeLimit,
		isPool:           true,
		log:              log,
	}
	return f, nil
}

// Pool returns the client bound to the pool's signing authority.
func (f *ClientFactory) Pool() ports.ChainClient {
	return f.pool
}

// ForKey builds a transient client signing token transfers as ownerAddress.
func (f *ClientFactory) ForKey(ownerAddress, privateKey string) (ports.ChainClient, error) {
	if _, err := AddressToHex(ownerAddress); err != nil {
		return nil, fmt.Errorf("invalid signer address: %w", err)
	}
	if privateKey == "" {
		return nil, fmt.Errorf("empty signing key")
	}
	return &Client{
		http:             f.http,
		ownerAddress:     ownerAddress,
		privateKey:       privateKey,
		contract:         f.cfg.TokenContract,
		transferSelector: selectorTransfer,
		feeLimit:         f.cfg.FeeLimit,
		log:              f.log,
	}, nil
}

// Client implements ports.ChainClient for one signing authority. The pool
// variant calls the pool contract; employee variants call the token
// contract directly.
type Client struct {
	http             *resty.Client
	ownerAddress     string
	privateKey       string
	contract         string
	transferSelector string
	feeLimit         int64
	isPool           bool
	log              zerolog.Logger
}

type triggerResult struct {
	Result  bool   `json:"result"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type triggerResponse struct {
	Result         triggerResult   `json:"result"`
	Transaction    json.RawMessage `json:"transaction"`
	ConstantResult []string        `json:"constant_result"`
}

type broadcastResponse struct {
	Result  bool   `json:"result"`
	TxID    string `json:"txid"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type txInfoResponse struct {
	ID          string `json:"id"`
	BlockNumber int64  `json:"blockNumber"`
	Receipt     struct {
		Result string `json:"result"`
	} `json:"receipt"`
}

// Transfer packs a transfer(to, amount) call, has the node build and sign
// the transaction, and broadcasts it. The returned id means accepted for
// broadcast, not settled.
func (c *Client) Transfer(ctx context.Context, to string, amountBaseUnits int64) (string, error) {
	if amountBaseUnits <= 0 {
		return "", fmt.Errorf("transfer amount must be positive, got %d", amountBaseUnits)
	}

	toWord, err := abiAddressWord(to)
	if err != nil {
		return "", fmt.Errorf("recipient: %w", err)
	}

	unsigned, err := c.trigger(ctx, c.transferSelector, toWord+abiUintWord(amountBaseUnits))
	if err != nil {
		return "", err
	}

	var signed json.RawMessage
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"transaction": json.RawMessage(unsigned),
			"privateKey":  c.privateKey,
		}).
		SetResult(&signed).
		Post("/wallet/gettransactionsign")
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("signing transaction: node returned %s", resp.Status())
	}

	var out broadcastResponse
	resp, err = c.http.R().
		SetContext(ctx).
		SetBody(signed).
		SetResult(&out).
		Post("/wallet/broadcasttransaction")
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}
	if resp.IsError() || !out.Result {
		return "", fmt.Errorf("broadcast rejected: %s %s", out.Code, decodeNodeMessage(out.Message))
	}

	txID := out.TxID
	if txID == "" {
		// Older nodes omit txid from the broadcast response; it is part
		// of the unsigned transaction.
		var tx struct {
			TxID string `json:"txID"`
		}
		if err := json.Unmarshal(unsigned, &tx); err != nil || tx.TxID == "" {
			return "", fmt.Errorf("broadcast accepted but transaction id missing")
		}
		txID = tx.TxID
	}

	c.log.Debug().
		Str("tx", txID).
		Str("from", c.ownerAddress).
		Str("to", to).
		Int64("base_units", amountBaseUnits).
		Msg("transfer broadcast")
	return txID, nil
}

// BalanceOf returns a token balance in base units. The pool client resolves
// an empty account to the pool contract's own balance via getBalance().
func (c *Client) BalanceOf(ctx context.Context, account string) (int64, error) {
	selector := selectorBalanceOf
	parameter := ""
	if c.isPool && account == "" {
		selector = selectorPoolBalance
	} else {
		word, err := abiAddressWord(account)
		if err != nil {
			return 0, fmt.Errorf("account: %w", err)
		}
		parameter = word
	}

	var out triggerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"owner_address":     mustHex(c.ownerAddress),
			"contract_address":  mustHex(c.contract),
			"function_selector": selector,
			"parameter":         parameter,
		}).
		SetResult(&out).
		Post("/wallet/triggerconstantcontract")
	if err != nil {
		return 0, fmt.Errorf("querying balance: %w", err)
	}
	if resp.IsError() || !out.Result.Result {
		return 0, fmt.Errorf("balance query rejected: %s %s", out.Result.Code, decodeNodeMessage(out.Result.Message))
	}
	if len(out.ConstantResult) == 0 {
		return 0, fmt.Errorf("balance query returned no result")
	}

	return parseUintWord(out.ConstantResult[0])
}

// TransactionConfirmed checks execution via the transaction info endpoint.
// An empty info object means not yet included; a failed receipt is terminal.
func (c *Client) TransactionConfirmed(ctx context.Context, txID string) (bool, error) {
	var out txInfoResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"value": txID}).
		SetResult(&out).
		Post("/wallet/gettransactioninfobyid")
	if err != nil {
		return false, fmt.Errorf("querying transaction info: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("transaction info query returned %s", resp.Status())
	}

	if out.ID == "" {
		return false, nil
	}
	switch out.Receipt.Result {
	case "", "SUCCESS":
		return true, nil
	default:
		return false, fmt.Errorf("tx %s receipt %s: %w", txID, out.Receipt.Result, ports.ErrTransactionFailed)
	}
}

// trigger builds an unsigned contract call through the node.
func (c *Client) trigger(ctx context.Context, selector, parameter string) (json.RawMessage, error) {
	var out triggerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"owner_address":     mustHex(c.ownerAddress),
			"contract_address":  mustHex(c.contract),
			"function_selector": selector,
			"parameter":         parameter,
			"fee_limit":         c.feeLimit,
			"call_value":        0,
		}).
		SetResult(&out).
		Post("/wallet/triggersmartcontract")
	if err != nil {
		return nil, fmt.Errorf("building transaction: %w", err)
	}
	if resp.IsError() || !out.Result.Result {
		return nil, fmt.Errorf("contract call rejected: %s %s", out.Result.Code, decodeNodeMessage(out.Result.Message))
	}
	if len(out.Transaction) == 0 {
		return nil, fmt.Errorf("node returned no transaction")
	}
	return out.Transaction, nil
}

// mustHex converts an address validated at construction time.
func mustHex(address string) string {
	h, err := AddressToHex(address)
	if err != nil {
		return address
	}
	return h
}

// parseUintWord decodes a 32-byte ABI result word into an int64. Any value
// up to MaxInt64 is accepted; only words that genuinely exceed it fail.
func parseUintWord(word string) (int64, error) {
	b, err := hex.DecodeString(word)
	if err != nil {
		return 0, fmt.Errorf("decoding result word: %w", err)
	}
	if len(b) > 8 {
		for _, by := range b[:len(b)-8] {
			if by != 0 {
				return 0, fmt.Errorf("result word overflows int64")
			}
		}
		b = b[len(b)-8:]
	}
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("result word overflows int64")
	}
	return int64(v), nil
}

// decodeNodeMessage turns the node's hex-encoded message into text.
func decodeNodeMessage(message string) string {
	if b, err := hex.DecodeString(message); err == nil && len(b) > 0 {
		return string(b)
	}
	return message
}

// HealthCheck implements ports.HealthChecker against the node.
type HealthCheck struct {
	http *resty.Client
}

// NewHealthCheck creates a chain node health checker sharing the factory's
// HTTP client.
func NewHealthCheck(f *ClientFactory) *HealthCheck {
	return &HealthCheck{http: f.http}
}

// Ping asks the node for its current block.
func (h *HealthCheck) Ping(ctx context.Context) error {
	resp, err := h.http.R().SetContext(ctx).Post("/wallet/getnowblock")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("node returned %s", resp.Status())
	}
	return nil
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "chain-node"
}
