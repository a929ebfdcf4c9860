// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

// Package credential implements Clubward's credential policy: temporary
// password generation and strength scoring.
//
// Generated passwords always contain at least one character from each of
// the four classes (lowercase, uppercase, digit, symbol) with remaining
// positions drawn uniformly from the union alphabet, then shuffled with a
// Fisher-Yates pass so the guaranteed-class prefix is not observable.
// All randomness comes from crypto/rand.
package credential
