package domain

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var accountCodeRegex = regexp.MustCompile(`^[1-9][0-9]{0,7}(\.[0-9]{1,6})?$`)

// ValidateMontantPositif checks that a monetary input is strictly positive.
func ValidateMontantPositif(nom string, montant decimal.Decimal) error {
	if montant.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %s=%s", ErrMontantInvalide, nom, montant.String())
	}
	return nil
}

// ValidateMontantPositifOuNul checks that a monetary input is not negative.
func ValidateMontantPositifOuNul(nom string, montant decimal.Decimal) error {
	if montant.IsNegative() {
		return fmt.Errorf("%w: %s=%s", ErrMontantInvalide, nom, montant.String())
	}
	return nil
}

// ValidateAccountCode checks the syntactic shape of an OHADA account code:
// a class digit followed by up to seven digits, with an optional dotted
// sub-account suffix (e.g. 411.0001).
func ValidateAccountCode(code string) error {
	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, code)
	}
	return nil
}

// ValidateTranches checks that a schedule is ascending and contiguous from
// zero, with only the last tranche open-ended.
func ValidateTranches(tranches []Tranche) error {
	if len(tranches) == 0 {
		return fmt.Errorf("empty tranche schedule")
	}

	if !tranches[0].Min.IsZero() {
		return fmt.Errorf("schedule must start at zero, got %s", tranches[0].Min.String())
	}

	for i, t := range tranches {
		last := i == len(tranches)-1
		if t.Max == nil {
			if !last {
				return fmt.Errorf("open-ended tranche %d is not the last", i)
			}
			continue
		}
		if t.Max.LessThanOrEqual(t.Min) {
			return fmt.Errorf("tranche %d has max %s <= min %s", i, t.Max.String(), t.Min.String())
		}
		if !last && !tranches[i+1].Min.Equal(*t.Max) {
			return fmt.Errorf("gap between tranche %d and %d", i, i+1)
		}
	}

	return nil
}
