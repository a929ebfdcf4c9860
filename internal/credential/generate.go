// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package credential

import (
	"crypto/rand"
	"math/big"

	"github.com/samber/oops"
)

// Temporary password length bounds. Four characters is the floor because
// each of the four classes must appear at least once.
const (
	MinTempPasswordLength     = 4
	DefaultTempPasswordLength = 12
)

var classAlphabets = []string{
	lowerAlphabet,
	upperAlphabet,
	digitAlphabet,
	symbolAlphabet,
}

var unionAlphabet = lowerAlphabet + upperAlphabet + digitAlphabet + symbolAlphabet

// GenerateTempPassword produces a temporary password of the given length
// containing at least one character from each class. The result passes
// ValidatePasswordStrength at "strong" for any length >= MinStrongLength.
func GenerateTempPassword(length int) (string, error) {
	if length < MinTempPasswordLength {
		return "", oops.In("credential").
			Code("CREDENTIAL_LENGTH_TOO_SHORT").
			With("length", length).
			With("min", MinTempPasswordLength).
			Errorf("temp password length must be at least %d", MinTempPasswordLength)
	}

	chars := make([]byte, 0, length)
	for _, alphabet := range classAlphabets {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < length {
		c, err := randomChar(unionAlphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}
	return string(chars), nil
}

// shuffle performs a Fisher-Yates pass over the characters so the
// guaranteed-class positions are indistinguishable from the rest. A sort
// with a random comparator would bias the permutation; Fisher-Yates keeps
// it uniform.
func shuffle(chars []byte) error {
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return oops.In("credential").
				Code("CREDENTIAL_RANDOM_FAILED").
				With("operation", "shuffle index").
				Wrap(err)
		}
		j := int(n.Int64())
		chars[i], chars[j] = chars[j], chars[i]
	}
	return nil
}

// randomChar draws one character uniformly from the alphabet.
func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, oops.In("credential").
			Code("CREDENTIAL_RANDOM_FAILED").
			With("operation", "draw character").
			Wrap(err)
	}
	return alphabet[n.Int64()], nil
}

// randomInt draws a uniform integer in [0, max).
func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, oops.In("credential").
			Code("CREDENTIAL_RANDOM_FAILED").
			With("operation", "draw integer").
			Wrap(err)
	}
	return int(n.Int64()), nil
}
