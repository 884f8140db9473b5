package domain

import (
	"encoding/hex"
	"encoding/json"
)

// HexBytes is a byte slice that serializes as a lowercase hex string in JSON.
// All binary fields of persisted encrypted payloads use this encoding.
type HexBytes []byte

// MarshalJSON implements json.Marshaler.
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = b
	return nil
}

// EncryptedData is the persisted envelope for an encrypted value.
//
// The JSON shape is part of the storage format: algorithm name, hex encoded
// nonce and ciphertext (tag appended), the key version used for encryption,
// and the optional associated-data context that must be replayed verbatim
// on decryption.
type EncryptedData struct {
	Algorithm  Algorithm `json:"algorithm"`
	Nonce      HexBytes  `json:"nonce"`
	Ciphertext HexBytes  `json:"ciphertext"`
	KeyVersion uint32    `json:"key_version"`
	AADContext *string   `json:"aad_context,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Payloads written before key
// rotation support omit key_version; those default to version 1.
func (e *EncryptedData) UnmarshalJSON(data []byte) error {
	type alias EncryptedData
	aux := alias{KeyVersion: 1}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = EncryptedData(aux)
	return nil
}
