package commands

import (
	"fmt"

	cryptoService "github.com/allisson/llm-config/internal/crypto/service"
)

// RunKeygen generates a new random 32-byte AES key and prints it base64
// encoded, ready for the LLM_CONFIG_KEY environment variable. The key
// material is zeroed from memory after encoding.
func RunKeygen(io IOTuple) error {
	key, err := cryptoService.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	defer key.Destroy()

	if _, err := fmt.Fprintf(io.Writer, "LLM_CONFIG_KEY=%s\n", key.ToBase64()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(io.Writer, "# Store this key securely. Losing it makes stored secrets unrecoverable.")
	return err
}
