package service

import (
	"encoding/json"
	"fmt"

	vaultDomain "github.com/rajnish8869/SecureVault-Manager/internal/vault/domain"
)

// encodeIndex serializes a metadata index to its canonical plaintext
// form. JSON is the format spec §6 leaves implementations free to pick;
// field names and widths are fixed by vaultDomain.VaultItem's tags.
func encodeIndex(idx vaultDomain.MetadataIndex) ([]byte, error) {
	data, err := json.Marshal(idx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata index: %w", err)
	}
	return data, nil
}

// decodeIndex parses a metadata index, rejecting plaintext larger than
// maxBytes to bound allocation (spec §6).
func decodeIndex(data []byte, maxBytes int) (vaultDomain.MetadataIndex, error) {
	if len(data) > maxBytes {
		return vaultDomain.MetadataIndex{}, vaultDomain.ErrConstraintViolated
	}
	var idx vaultDomain.MetadataIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return vaultDomain.MetadataIndex{}, fmt.Errorf("failed to decode metadata index: %w", err)
	}
	return idx, nil
}
