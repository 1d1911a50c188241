package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	derivedKeyBytes  = 32

	// recordVersion is the leading version byte of every on-disk/keyring
	// record. A future format change bumps this and readers reject any
	// other value outright, matching the cache's "ignore unknown version,
	// don't crash" discipline.
	recordVersion byte = 1
)

func readRandom(buf []byte) (int, error) {
	return rand.Read(buf)
}

// deriveKey computes (and memoizes) the PBKDF2-HMAC-SHA256 derived key
// from the vault's master key and salt. Derivation happens once per
// process and is reused for every subsequent record.
func (v *Vault) deriveKey() []byte {
	v.derivedMu.Lock()
	defer v.derivedMu.Unlock()
	if v.derived != nil {
		return v.derived
	}
	v.derived = pbkdf2.Key(v.masterKey, v.salt, pbkdf2Iterations, derivedKeyBytes, sha256.New)
	return v.derived
}

// encryptRecord seals plaintext under AES-GCM and returns
// base64(version ‖ nonce ‖ ciphertext‖tag).
func (v *Vault) encryptRecord(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.deriveKey())
	if err != nil {
		return "", fmt.Errorf("vault: cipher init failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("vault: gcm init failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := readRandom(nonce); err != nil {
		return "", fmt.Errorf("vault: nonce generation failed: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), []byte{recordVersion})

	buf := make([]byte, 0, 1+len(nonce)+len(sealed))
	buf = append(buf, recordVersion)
	buf = append(buf, nonce...)
	buf = append(buf, sealed...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// decryptRecord reverses encryptRecord, rejecting any version byte other
// than recordVersion and any tag mismatch. Every failure path returns a
// generic error: no plaintext, ciphertext, or key-length detail ever
// appears in an error message.
func (v *Vault) decryptRecord(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("vault: malformed record")
	}
	block, err := aes.NewCipher(v.deriveKey())
	if err != nil {
		return "", fmt.Errorf("vault: cipher init failed")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("vault: gcm init failed")
	}

	minLen := 1 + gcm.NonceSize()
	if len(raw) < minLen {
		return "", fmt.Errorf("vault: malformed record")
	}

	version := raw[0]
	if subtle.ConstantTimeByteEq(version, recordVersion) != 1 {
		return "", fmt.Errorf("vault: unrecognized record version")
	}

	nonce := raw[1:minLen]
	ciphertext := raw[minLen:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte{recordVersion})
	if err != nil {
		return "", fmt.Errorf("vault: authentication failed")
	}
	return string(plaintext), nil
}

// encodeMasterKeyRecord / decodeMasterKeyRecord store the master key
// alongside its salt as base64(version ‖ salt ‖ key), unencrypted — the
// master key's confidentiality rests entirely on the OS keyring's own
// access control.
func encodeMasterKeyRecord(key, salt []byte) string {
	buf := make([]byte, 0, 1+len(salt)+len(key))
	buf = append(buf, recordVersion)
	buf = append(buf, salt...)
	buf = append(buf, key...)
	return base64.StdEncoding.EncodeToString(buf)
}

func decodeMasterKeyRecord(encoded string) (key, salt []byte, err error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("vault: malformed master key record")
	}
	want := 1 + saltBytes + masterKeyBytes
	if len(raw) != want || raw[0] != recordVersion {
		return nil, nil, fmt.Errorf("vault: unrecognized master key record")
	}
	salt = append([]byte(nil), raw[1:1+saltBytes]...)
	key = append([]byte(nil), raw[1+saltBytes:]...)
	return key, salt, nil
}
