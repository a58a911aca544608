package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// tron mainnet address payload: 0x41 prefix + 20-byte account, then a
// 4-byte double-sha256 checksum in the base58check envelope.
const (
	addressPrefix      = 0x41
	addressPayloadSize = 21
	checksumSize       = 4
)

var base58Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base58Alphabet))
	for i := 0; i < len(base58Alphabet); i++ {
		m[base58Alphabet[i]] = int64(i)
	}
	return m
}()

// AddressToHex converts a base58check address ("T...") to its 21-byte hex
// form ("41..."), validating the checksum. Hex input is passed through
// after a shape check.
func AddressToHex(address string) (string, error) {
	if strings.HasPrefix(address, "41") && len(address) == addressPayloadSize*2 {
		if _, err := hex.DecodeString(address); err != nil {
			return "", fmt.Errorf("invalid hex address %q: %w", address, err)
		}
		return address, nil
	}

	payload, err := decodeBase58Check(address)
	if err != nil {
		return "", err
	}
	if len(payload) != addressPayloadSize || payload[0] != addressPrefix {
		return "", fmt.Errorf("address %q is not a mainnet account address", address)
	}
	return hex.EncodeToString(payload), nil
}

// abiAddressWord packs an address into a 32-byte ABI word (the 20-byte
// account body, left-padded).
func abiAddressWord(address string) (string, error) {
	hexAddr, err := AddressToHex(address)
	if err != nil {
		return "", err
	}
	// Strip the 0x41 network prefix, pad the 20-byte body to 32 bytes.
	return strings.Repeat("0", 24) + hexAddr[2:], nil
}

// abiUintWord packs a non-negative integer into a 32-byte ABI word.
func abiUintWord(v int64) string {
	return fmt.Sprintf("%064x", v)
}

func decodeBase58Check(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("empty address")
	}

	n := new(big.Int)
	radix := big.NewInt(58)
	for i := 0; i < len(s); i++ {
		d, ok := base58Index[s[i]]
		if !ok {
			return nil, fmt.Errorf("invalid base58 character %q in address", s[i])
		}
		n.Mul(n, radix)
		n.Add(n, big.NewInt(d))
	}

	decoded := n.Bytes()
	// Leading '1' characters encode leading zero bytes.
	for i := 0; i < len(s) && s[i] == '1'; i++ {
		decoded = append([]byte{0}, decoded...)
	}

	if len(decoded) < checksumSize+1 {
		return nil, fmt.Errorf("address too short")
	}

	payload := decoded[:len(decoded)-checksumSize]
	check := decoded[len(decoded)-checksumSize:]

	h1 := sha256.Sum256(payload)
	h2 := sha256.Sum256(h1[:])
	for i := 0; i < checksumSize; i++ {
		if check[i] != h2[i] {
			return nil, fmt.Errorf("address checksum mismatch")
		}
	}
	return payload, nil
}
