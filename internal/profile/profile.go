// Package profile holds the user's identity record and the places it is kept:
// a vCard on disk, the OS keyring, or a remote file to import from.
package profile

import (
	"errors"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// Gender mirrors the vCard 4.0 sex component.
type Gender = vcard.Sex

const (
	GenderUnspecified = vcard.SexUnspecified
	GenderFemale      = vcard.SexFemale
	GenderMale        = vcard.SexMale
	GenderOther       = vcard.SexOther
	GenderNone        = vcard.SexNone
)

// Genders lists the selectable values in display order.
var Genders = []Gender{GenderFemale, GenderMale, GenderOther, GenderNone}

var (
	// ErrNotFound is returned by a Store holding no profile.
	ErrNotFound = errors.New(config.ErrProfileNotFound)

	// ErrNameRequired is returned by Validate for a blank name.
	ErrNameRequired = errors.New(config.ErrNameRequired)
)

// Profile is what the user enters once: enough to compute every statistic.
type Profile struct {
	Name    string
	Birth   engine.Birth
	Gender  Gender
	Country string
}

// Validate checks the fields the statistics depend on.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.Birth.IsZero() {
		return engine.ErrInvalidInput
	}
	return nil
}

// CountryOrFallback returns the registry country, or a placeholder when unset.
func (p Profile) CountryOrFallback() string {
	if c := strings.TrimSpace(p.Country); c != "" {
		return strings.ToUpper(c)
	}
	return config.FallbackCountry
}
