package chain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressToHex_Base58(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{
			name:    "usdt contract",
			address: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
			want:    "41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
		},
		{
			name:    "zero account",
			address: "T9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb",
			want:    "410000000000000000000000000000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddressToHex(tt.address)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddressToHex_HexPassthrough(t *testing.T) {
	got, err := AddressToHex("41a614f803b6fd780986a42c78ec9c7f77e6ded13c")
	require.NoError(t, err)
	assert.Equal(t, "41a614f803b6fd780986a42c78ec9c7f77e6ded13c", got)
}

func TestAddressToHex_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		address string
	}{
		{"empty", ""},
		{"bad checksum", "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6u"},
		{"invalid base58 character", "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjL0!t"},
		{"too short", "TR7N"},
		{"hex with bad body", "41zz14f803b6fd780986a42c78ec9c7f77e6ded13c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddressToHex(tt.address)
			assert.Error(t, err)
		})
	}
}

func TestABIAddressWord(t *testing.T) {
	word, err := abiAddressWord("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t")
	require.NoError(t, err)
	assert.Len(t, word, 64)
	assert.Equal(t, strings.Repeat("0", 24)+"a614f803b6fd780986a42c78ec9c7f77e6ded13c", word)
}

func TestABIAddressWord_Invalid(t *testing.T) {
	_, err := abiAddressWord("not-an-address")
	assert.Error(t, err)
}

func TestABIUintWord(t *testing.T) {
	assert.Equal(t, strings.Repeat("0", 63)+"1", abiUintWord(1))
	assert.Equal(t, strings.Repeat("0", 58)+"0f4240", abiUintWord(1_000_000))
}

func TestParseUintWord(t *testing.T) {
	v, err := parseUintWord(strings.Repeat("0", 58) + "0f4240")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), v)

	// A whale-sized balance still fits: full int64 range is honoured.
	v, err = parseUintWord(strings.Repeat("0", 48) + "7fffffffffffffff")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	v, err = parseUintWord(strings.Repeat("0", 48) + "0080000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<55, v)

	_, err = parseUintWord("zz")
	assert.Error(t, err)

	// One past MaxInt64, and a nonzero high word, must both fail.
	_, err = parseUintWord(strings.Repeat("0", 48) + "8000000000000000")
	assert.Error(t, err)

	_, err = parseUintWord(strings.Repeat("0", 47) + "1" + strings.Repeat("0", 16))
	assert.Error(t, err)

	_, err = parseUintWord(strings.Repeat("f", 64))
	assert.Error(t, err, "word exceeding int64 must be rejected")
}
