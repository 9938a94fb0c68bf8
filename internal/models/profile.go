package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/grand/internal/shared"
)

// Mobility describes how easily the elder gets around; it steers event suggestions.
type Mobility string

const (
	MobilityExcelente Mobility = "excelente"
	MobilityBuena     Mobility = "buena"
	MobilityLimitada  Mobility = "limitada"
	MobilityReducida  Mobility = "reducida"
)

// Valid reports whether m is one of the known levels.
func (m Mobility) Valid() bool {
	switch m {
	case MobilityExcelente, MobilityBuena, MobilityLimitada, MobilityReducida:
		return true
	}
	return false
}

// UpdateFrequency is how often the caregiver wants the plan refreshed.
type UpdateFrequency string

const (
	FrequencyWeekly   UpdateFrequency = "weekly"
	FrequencyBiweekly UpdateFrequency = "biweekly"
	FrequencyMonthly  UpdateFrequency = "monthly"
)

// Valid reports whether f is one of the known frequencies.
func (f UpdateFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Interval converts f into the time between refreshes. Unknown values count as weekly.
func (f UpdateFrequency) Interval() time.Duration {
	switch f {
	case FrequencyBiweekly:
		return 14 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// ElderProfile is the person content is generated for.
//
// Age is kept as entered; the forms never enforced a number.
// Interests is free text, conventionally comma separated.
type ElderProfile struct {
	Name            string          `json:"name"`
	Age             string          `json:"age"`
	Interests       string          `json:"interests"`
	Mobility        Mobility        `json:"mobility"`
	Schedule        string          `json:"schedule,omitempty"`
	Preferences     string          `json:"preferences,omitempty"`
	UpdateFrequency UpdateFrequency `json:"updateFrequency"`
	Location        string          `json:"location,omitempty"`
	Recommendations string          `json:"recommendations,omitempty"`
	CredencialID    *int            `json:"credencial_id,omitempty"`
	CreatedAt       time.Time       `json:"createdAt,omitzero"`
}

// NewElderProfile returns a profile with the wizard defaults applied.
func NewElderProfile() *ElderProfile {
	return &ElderProfile{Mobility: MobilityBuena, UpdateFrequency: FrequencyWeekly}
}

// Validate checks the fields the wizard requires before finishing.
func (p *ElderProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.Age) == "" {
		return fmt.Errorf("age is required")
	}
	if strings.TrimSpace(p.Interests) == "" {
		return fmt.Errorf("interests are required")
	}
	if p.Mobility != "" && !p.Mobility.Valid() {
		return fmt.Errorf("unknown mobility %q", p.Mobility)
	}
	if p.UpdateFrequency != "" && !p.UpdateFrequency.Valid() {
		return fmt.Errorf("unknown update frequency %q", p.UpdateFrequency)
	}
	return nil
}

// AgeYears parses Age. ok is false when it is not a whole number.
func (p *ElderProfile) AgeYears() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.Age))
	if err != nil {
		return 0, false
	}
	return n, true
}

// InterestList splits Interests on commas, trimming and dropping empty entries.
func (p *ElderProfile) InterestList() []string {
	var out []string
	for _, part := range strings.Split(p.Interests, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SetInterests rewrites Interests as a ", " joined list.
func (p *ElderProfile) SetInterests(items []string) {
	p.Interests = strings.Join(items, ", ")
}

// AddInterest appends interest unless it is empty or already present
// (compared case and whitespace insensitively). It reports whether the list changed.
func (p *ElderProfile) AddInterest(interest string) bool {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return false
	}
	list := p.InterestList()
	for _, existing := range list {
		if shared.NormalizeKey(existing) == shared.NormalizeKey(interest) {
			return false
		}
	}
	p.SetInterests(append(list, interest))
	return true
}

// RemoveInterest drops interest from the list and reports whether it was present.
func (p *ElderProfile) RemoveInterest(interest string) bool {
	list := p.InterestList()
	kept := list[:0]
	removed := false
	for _, existing := range list {
		if shared.NormalizeKey(existing) == shared.NormalizeKey(interest) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if removed {
		p.SetInterests(kept)
	}
	return removed
}
