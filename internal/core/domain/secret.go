package domain

import "strings"

// SecretSeparator splits the nonce from the ciphertext in a stored blob.
// Its absence marks a legacy record written before encryption at rest.
const SecretSeparator = ":"

// StoredSecret is the tagged form of a vault secret blob. Modeling the
// legacy/encrypted split explicitly keeps malformed ciphertext from being
// misread as a plaintext key.
type StoredSecret struct {
	Legacy     bool
	Nonce      string // hex-encoded, empty for legacy records
	Ciphertext string // hex-encoded sealed box; the raw key when Legacy
}

// ParseStoredSecret classifies a stored blob. New writes always produce the
// encrypted form; the legacy branch exists only to read bootstrap-era records.
func ParseStoredSecret(blob string) StoredSecret {
	i := strings.Index(blob, SecretSeparator)
	if i < 0 {
		return StoredSecret{Legacy: true, Ciphertext: blob}
	}
	return StoredSecret{
		Nonce:      blob[:i],
		Ciphertext: blob[i+1:],
	}
}

// Encode renders the secret back to its persisted text form.
func (s StoredSecret) Encode() string {
	if s.Legacy {
		return s.Ciphertext
	}
	return s.Nonce + SecretSeparator + s.Ciphertext
}
