// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters, following OWASP guidance.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonSaltLen = 16
	argonKeyLen  = 32
)

// PasswordHasher hashes credentials for storage. Verification of stored
// credentials against login attempts is the external authenticator's job;
// Verify exists so provisioning flows can round-trip what they wrote.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// Argon2idHasher implements PasswordHasher with argon2id in PHC string
// format.
type Argon2idHasher struct{}

// NewArgon2idHasher creates an Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces a PHC-encoded argon2id hash of the password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", oops.In("auth").Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.In("auth").Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether password matches the PHC-encoded hash. A
// mismatch is (false, nil); only malformed hashes error.
func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	salt, key, params, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodePHC(encoded string) (salt, key []byte, params argonParams, err error) {
	invalid := func(reason string) error {
		return oops.In("auth").Code("AUTH_INVALID_HASH").Errorf("invalid argon2id hash: %s", reason)
	}

	var version int
	var memory, time, threads uint32
	var saltB64, keyB64 string
	n, scanErr := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &memory, &time, &threads, &saltB64)
	if scanErr != nil || n != 5 {
		return nil, nil, params, invalid("unrecognized format")
	}
	// The final Sscanf verb consumes "salt$key" as one token.
	for i, c := range saltB64 {
		if c == '$' {
			keyB64 = saltB64[i+1:]
			saltB64 = saltB64[:i]
			break
		}
	}
	if keyB64 == "" {
		return nil, nil, params, invalid("missing key segment")
	}
	if threads == 0 || threads > 255 {
		return nil, nil, params, invalid("threads out of range")
	}
	// argon2.IDKey panics on zero rounds, so bad parameters must be
	// rejected here rather than surfaced as a panic from Verify.
	if time == 0 {
		return nil, nil, params, invalid("time out of range")
	}
	if memory < 8*threads || memory > 4*1024*1024 {
		return nil, nil, params, invalid("memory out of range")
	}

	salt, err = base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, nil, params, invalid("salt is not base64")
	}
	key, err = base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, nil, params, invalid("key is not base64")
	}
	if len(key) == 0 {
		return nil, nil, params, invalid("empty key")
	}

	params = argonParams{memory: memory, time: time, threads: uint8(threads)}
	return salt, key, params, nil
}
