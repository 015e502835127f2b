package main

import (
	"fmt"
	"os"
	"strings"

	"bravesearch/internal/infra/config"
)

// runEncrypt turns a plaintext API key into an enc: value suitable for
// config.yaml. The passphrase comes from BRAVESEARCH_CONFIG_KEY so the
// key never appears in shell history twice.
func runEncrypt(args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("usage: bravesearch encrypt VALUE")
	}

	passphrase := os.Getenv("BRAVESEARCH_CONFIG_KEY")
	if passphrase == "" {
		return fmt.Errorf("BRAVESEARCH_CONFIG_KEY must be set to the encryption passphrase")
	}

	out, err := config.EncryptValue(args[0], passphrase)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
