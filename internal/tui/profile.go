package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"fricu/internal/store"
)

// Accepted ranges for profile inputs
const (
	minFTP, maxFTP       = 50, 600
	minLTHR, maxLTHR     = 80, 220
	minWeight, maxWeight = 30.0, 200.0
)

var errNotNumber = errors.New("enter a number")

// ProfileForm edits the athlete thresholds and body mass
type ProfileForm struct {
	base   store.Profile
	ftp    *string
	lthr   *string
	weight *string
	form   *huh.Form
}

// NewProfileForm creates a form prefilled from p
func NewProfileForm(p store.Profile) *ProfileForm {
	f := &ProfileForm{
		base:   p,
		ftp:    new(string),
		lthr:   new(string),
		weight: new(string),
	}
	if p.DefaultFTPWatts > 0 {
		*f.ftp = strconv.Itoa(p.DefaultFTPWatts)
	}
	if p.DefaultThresholdHeartRate > 0 {
		*f.lthr = strconv.Itoa(p.DefaultThresholdHeartRate)
	}
	if p.WeightKg > 0 {
		*f.weight = strconv.FormatFloat(p.WeightKg, 'f', -1, 64)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("FTP (watts)").Value(f.ftp).Validate(validateIntRange(minFTP, maxFTP)),
			huh.NewInput().Title("Threshold heart rate (bpm)").Value(f.lthr).Validate(validateIntRange(minLTHR, maxLTHR)),
			huh.NewInput().Title("Weight (kg)").Value(f.weight).Validate(validateWeight),
		).Title("Athlete Profile").
			Description("Thresholds drive zone classification. Sport specific history entries are kept."),
	).WithShowHelp(true).WithShowErrors(true)

	return f
}

// Form returns the underlying huh form
func (f *ProfileForm) Form() *huh.Form {
	return f.form
}

// Profile returns the base profile with the edited fields applied
func (f *ProfileForm) Profile() (store.Profile, error) {
	p := f.base

	ftp, err := parseIntRange(*f.ftp, minFTP, maxFTP)
	if err != nil {
		return p, fmt.Errorf("ftp: %w", err)
	}
	lthr, err := parseIntRange(*f.lthr, minLTHR, maxLTHR)
	if err != nil {
		return p, fmt.Errorf("threshold heart rate: %w", err)
	}
	weight, err := parseWeight(*f.weight)
	if err != nil {
		return p, fmt.Errorf("weight: %w", err)
	}

	p.DefaultFTPWatts = ftp
	p.DefaultThresholdHeartRate = lthr
	p.WeightKg = weight
	return p, nil
}

func validateIntRange(lo, hi int) func(string) error {
	return func(s string) error {
		_, err := parseIntRange(s, lo, hi)
		return err
	}
}

func validateWeight(s string) error {
	_, err := parseWeight(s)
	return err
}

func parseIntRange(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errNotNumber
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return v, nil
}

func parseWeight(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errNotNumber
	}
	if v < minWeight || v > maxWeight {
		return 0, fmt.Errorf("must be between %.0f and %.0f", minWeight, maxWeight)
	}
	return v, nil
}
