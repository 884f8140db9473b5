package commands

import (
	"bufio"
	"fmt"
	"strings"

	cryptoService "github.com/allisson/llm-config/internal/crypto/service"
)

// RunDeriveKey derives an AES-256 key from a passphrase read from the
// input stream. The base64 key is printed together with a PHC verifier
// string that can later confirm the passphrase without re-deriving.
func RunDeriveKey(io IOTuple) error {
	if _, err := fmt.Fprint(io.Writer, "Passphrase: "); err != nil {
		return err
	}

	reader := bufio.NewReader(io.Reader)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read passphrase: %w", err)
	}
	passphrase := strings.TrimRight(line, "\r\n")

	key, verifier, err := cryptoService.NewArgon2Deriver().DeriveKey([]byte(passphrase), nil)
	if err != nil {
		return err
	}
	defer key.Destroy()

	if _, err := fmt.Fprintf(io.Writer, "\nLLM_CONFIG_KEY=%s\n", key.ToBase64()); err != nil {
		return err
	}
	_, err = fmt.Fprintf(io.Writer, "VERIFIER=%s\n", verifier)
	return err
}
