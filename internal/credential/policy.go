// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Clubward Contributors

package credential

import "strings"

// Character classes used by both generation and strength scoring.
// The symbol alphabet is the fixed allowed set; symbols outside it do not
// count toward the symbol check.
const (
	lowerAlphabet  = "abcdefghijklmnopqrstuvwxyz"
	upperAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitAlphabet  = "0123456789"
	symbolAlphabet = "!@#$%^&*()-_=+"
)

// MinStrongLength is the length threshold for the length check.
const MinStrongLength = 8

// Strength classifies a password's overall score.
type Strength string

// Strength bands in ascending order.
const (
	StrengthWeak   Strength = "weak"
	StrengthFair   Strength = "fair"
	StrengthGood   Strength = "good"
	StrengthStrong Strength = "strong"
)

// Checks is the per-category checklist behind a strength score.
type Checks struct {
	Length bool `json:"length"`
	Lower  bool `json:"lower"`
	Upper  bool `json:"upper"`
	Digit  bool `json:"digit"`
	Symbol bool `json:"symbol"`
}

// Result is the outcome of a strength validation. Score counts satisfied
// checks (0-5); Strength maps the score into a band.
type Result struct {
	Strength Strength `json:"strength"`
	Score    int      `json:"score"`
	Checks   Checks   `json:"checks"`
}

// ValidatePasswordStrength scores a password against the five policy
// checks. It is pure and total; any string, including empty, yields a
// result.
func ValidatePasswordStrength(password string) Result {
	checks := Checks{
		Length: len(password) >= MinStrongLength,
		Lower:  strings.ContainsAny(password, lowerAlphabet),
		Upper:  strings.ContainsAny(password, upperAlphabet),
		Digit:  strings.ContainsAny(password, digitAlphabet),
		Symbol: strings.ContainsAny(password, symbolAlphabet),
	}

	score := 0
	for _, ok := range []bool{checks.Length, checks.Lower, checks.Upper, checks.Digit, checks.Symbol} {
		if ok {
			score++
		}
	}

	return Result{
		Strength: strengthFor(score),
		Score:    score,
		Checks:   checks,
	}
}

func strengthFor(score int) Strength {
	switch {
	case score >= 5:
		return StrengthStrong
	case score >= 4:
		return StrengthGood
	case score >= 3:
		return StrengthFair
	default:
		return StrengthWeak
	}
}
