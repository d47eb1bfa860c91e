package profile

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-lifestats/internal/config"
	"github.com/tartampluch/go-lifestats/internal/engine"
)

// Encode writes p as a single vCard 4.0.
func Encode(w io.Writer, p Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileEncode, err)
	}

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldFormattedName, strings.TrimSpace(p.Name))
	card.SetValue(vcard.FieldBirthday, formatBirthday(p.Birth))
	if p.Gender != GenderUnspecified {
		card.SetGender(p.Gender, "")
	}
	if c := strings.TrimSpace(p.Country); c != "" {
		card.AddAddress(&vcard.Address{Country: c})
	}

	if err := vcard.NewEncoder(w).Encode(card); err != nil {
		return fmt.Errorf("%s: %w", config.ErrProfileEncode, err)
	}
	return nil
}

// Decode reads the first vCard of r. The birthday is validated against now.
// Cards without FN fall back to the structured name N.
func Decode(r io.Reader, now time.Time) (Profile, error) {
	card, err := vcard.NewDecoder(r).Decode()
	if errors.Is(err, io.EOF) {
		return Profile{}, errors.New(config.ErrImportEmpty)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileDecode, err)
	}

	var p Profile
	if fn := card.Get(vcard.FieldFormattedName); fn != nil {
		p.Name = strings.TrimSpace(fn.Value)
	} else if n := card.Get(vcard.FieldName); n != nil {
		p.Name = strings.TrimSpace(strings.ReplaceAll(n.Value, ";", " "))
	}

	bday := card.Get(vcard.FieldBirthday)
	if bday == nil || strings.TrimSpace(bday.Value) == "" {
		return Profile{}, errors.New(config.ErrBirthdayMissing)
	}
	p.Birth, err = engine.ParseBirth(bday.Value, now)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileDecode, err)
	}

	p.Gender, _ = card.Gender()
	if adr := card.Address(); adr != nil {
		p.Country = strings.TrimSpace(adr.Country)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileDecode, err)
	}
	return p, nil
}

func formatBirthday(b engine.Birth) string {
	if b.HasTimeOfDay() {
		return b.Time().UTC().Format(config.DateFormatDashTimeS)
	}
	return b.Time().UTC().Format(config.DateFormatFullDash)
}
