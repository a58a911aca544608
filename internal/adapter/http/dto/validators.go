package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Base58check mainnet address or its 21-byte hex form.
	tronAddressRe = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$|^41[0-9a-fA-F]{40}$`)

	// Decimal token amount. Range and precision are enforced by the
	// service layer; this only rejects junk at the boundary.
	tokenAmountRe = regexp.MustCompile(`^[0-9]{1,20}(\.[0-9]{1,18})?$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("tron_address", validateTronAddress)
		_ = v.RegisterValidation("token_amount", validateTokenAmount)
	}
}

// validateTronAddress checks the shape of an address field. Checksum
// validation happens in the chain adapter.
func validateTronAddress(fl validator.FieldLevel) bool {
	return tronAddressRe.MatchString(fl.Field().String())
}

// validateTokenAmount accepts a positive decimal string.
func validateTokenAmount(fl validator.FieldLevel) bool {
	return tokenAmountRe.MatchString(fl.Field().String())
}
