package chainsol

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// DefaultKeypairPath is the Solana CLI default wallet location.
func DefaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// LoadKeypair reads a Solana CLI keypair file: a JSON array of 64 bytes,
// secret seed followed by the public key.
func LoadKeypair(path string) (solana.PrivateKey, error) {
	if path == "" {
		return nil, errors.New("keypair path required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read keypair %s", path)
	}

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, errors.Wrapf(ErrInvalidKeypairFile, "%s: %v", path, err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrInvalidKeypairFile, "%s: expected %d bytes, got %d", path, ed25519.PrivateKeySize, len(ints))
	}

	key := make([]byte, ed25519.PrivateKeySize)
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, errors.Wrapf(ErrInvalidKeypairFile, "%s: byte %d out of range", path, i)
		}
		key[i] = byte(v)
	}

	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return nil, errors.Wrapf(ErrInvalidKeypairFile, "%s: public key does not match secret", path)
	}
	return solana.PrivateKey(key), nil
}

// WriteKeypair stores key in the Solana CLI JSON format.
func WriteKeypair(path string, key solana.PrivateKey) error {
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, raw, 0o600), "write keypair %s", path)
}
