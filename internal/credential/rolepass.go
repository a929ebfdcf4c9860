// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package credential

import (
	"fmt"

	"github.com/samber/oops"
)

// AccountKind selects the vocabulary for a role-flavored password.
type AccountKind string

// Provisioned account classes.
const (
	AccountAdmin AccountKind = "admin"
	AccountStaff AccountKind = "staff"
)

// Memorable word stems per account class. Each stem mixes upper and lower
// case so the composed password carries both classes.
var roleVocabulary = map[AccountKind][]string{
	AccountAdmin: {"ClubAdmin", "Manager", "Director", "Captain"},
	AccountStaff: {"ClubStaff", "Helper", "Member", "Crew"},
}

// GenerateRolePassword composes a memorable temporary password for a
// provisioned account: a class-specific word stem, a numeric suffix, and a
// symbol. The output always satisfies ValidatePasswordStrength at "fair"
// or better; in practice every composition scores "strong".
func GenerateRolePassword(kind AccountKind) (string, error) {
	words, ok := roleVocabulary[kind]
	if !ok {
		return "", oops.In("credential").
			Code("CREDENTIAL_UNKNOWN_ACCOUNT_KIND").
			With("kind", string(kind)).
			Errorf("unknown account kind %q", string(kind))
	}

	wordIdx, err := randomInt(len(words))
	if err != nil {
		return "", err
	}
	// Four digits keeps the suffix memorable while avoiding trivially
	// guessable two-digit spaces.
	digits, err := randomInt(10000)
	if err != nil {
		return "", err
	}
	symbol, err := randomChar(symbolAlphabet)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d%c", words[wordIdx], digits, symbol), nil
}
