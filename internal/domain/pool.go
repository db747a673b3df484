package domain

import (
	"strings"
	"time"
)

type PoolID string

type PoolStatus string

const (
	PoolStatusActive PoolStatus = "Active"
	PoolStatusEnded  PoolStatus = "Ended"
)

// Pool is one sponsor credit pool as known to the client. The server owns the
// persisted state; Balance stays nil until a balance fetch succeeds.
type Pool struct {
	ID          PoolID
	Name        string
	Balance     *float64
	UsageCap    float64
	StartTime   time.Time
	EndTime     time.Time
	Whitelist   []string
	SponsorInfo string
}

// Status derives the display status: Active strictly before EndTime.
func (p Pool) Status(now time.Time) PoolStatus {
	if now.Before(p.EndTime) {
		return PoolStatusActive
	}
	return PoolStatusEnded
}

func (p *Pool) NormalizeWhitelist() {
	if p == nil {
		return
	}

	addresses := make([]string, 0, len(p.Whitelist))
	seen := make(map[string]struct{}, len(p.Whitelist))
	for _, address := range p.Whitelist {
		trimmed := strings.TrimSpace(address)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		addresses = append(addresses, trimmed)
	}

	p.Whitelist = addresses
}

// PoolDraft carries the user's form input for create and edit operations.
// Start and End are local datetime strings; they are converted to UTC only
// after validation passes.
type PoolDraft struct {
	Name            string
	Password        string
	ConfirmPassword string
	Start           string
	End             string
	UsageCap        float64
	Whitelist       []string
	SponsorInfo     string
}

// Validate runs the client-side gates in order and stops at the first
// failure. Password gates only apply when requirePassword is set; create
// requires the confirmation to match, edit prompts for the password
// elsewhere.
func (d PoolDraft) Validate(requirePassword bool) *ValidationError {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Title: "Invalid Pool Name", Detail: "Please enter a valid pool name"}
	}
	if requirePassword {
		if d.Password == "" {
			return &ValidationError{Title: "Password Required", Detail: "Please enter a pool password"}
		}
		if d.Password != d.ConfirmPassword {
			return &ValidationError{Title: "Passwords Mismatch", Detail: "Passwords do not match"}
		}
	}
	if invalid := InvalidAddresses(d.Whitelist); len(invalid) > 0 {
		return &ValidationError{
			Title:  "Invalid Addresses",
			Detail: "Please fix invalid addresses: " + strings.Join(invalid, ", "),
		}
	}

	start, startErr := ParseLocalTime(d.Start)
	end, endErr := ParseLocalTime(d.End)
	if startErr != nil || endErr != nil || !start.Before(end) {
		return &ValidationError{Title: "Invalid Dates", Detail: "Start time must be before end time"}
	}

	return nil
}

// CleanWhitelist splits raw newline- or comma-separated address input into a
// trimmed list, dropping empties.
func CleanWhitelist(raw []string) []string {
	addresses := make([]string, 0, len(raw))
	for _, chunk := range raw {
		for _, part := range strings.FieldsFunc(chunk, func(r rune) bool {
			return r == '\n' || r == ','
		}) {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				addresses = append(addresses, trimmed)
			}
		}
	}
	return addresses
}
