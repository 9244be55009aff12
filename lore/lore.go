// Package lore produces short flavor texts for colony buildings, backed by a
// generative model when one is configured and by a fixed fallback otherwise.
package lore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/simukka/skyisle/colony"
)

var (
	// ErrNoCredential means no API key is configured.
	ErrNoCredential = errors.New("lore: no API credential configured")
	// ErrMalformed means the generator answered with unusable JSON.
	ErrMalformed = errors.New("lore: malformed response")
	// ErrEmptyResponse means the generator answered with no text.
	ErrEmptyResponse = errors.New("lore: empty response")
)

// Status of a building as reported by the archives.
type Status string

const (
	StatusOperational Status = "operational"
	StatusDamaged     Status = "damaged"
	StatusUnknown     Status = "unknown"
	StatusUpgrading   Status = "upgrading"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusOperational, StatusDamaged, StatusUnknown, StatusUpgrading}

// Valid reports whether s is one of Statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lore is the generated record shown in the info panel.
type Lore struct {
	Description string `json:"description"`
	Secret      string `json:"secret"`
	Status      Status `json:"status"`
}

// Request identifies the building to describe.
type Request struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BaseDescription string `json:"baseDescription"`
}

// RequestFor builds a request from a dataset record.
func RequestFor(b colony.Building) Request {
	return Request{ID: b.ID, Name: b.Name, BaseDescription: b.BaseDescription}
}

// Source returns lore for a building. Implementations never fail; errors
// are absorbed into Fallback.
type Source interface {
	Lore(ctx context.Context, req Request) Lore
}

const (
	// CorruptionNotice replaces the secret whenever the archives are unreachable.
	CorruptionNotice = "Data corruption detected. Unable to retrieve classified intel."

	offlinePrefix   = "Archives offline. Displaying cached data: "
	noUplinkPrefix  = "Archive uplink not configured. Displaying cached data: "
	maxFieldLength  = 600
	maxPromptLength = 2000
)

// Fallback is the deterministic record used when generation is impossible.
// A missing credential gets its own wording so the cause is visible.
func Fallback(req Request, cause error) Lore {
	prefix := offlinePrefix
	if errors.Is(cause, ErrNoCredential) {
		prefix = noUplinkPrefix
	}
	return Lore{
		Description: prefix + req.BaseDescription,
		Secret:      CorruptionNotice,
		Status:      StatusUnknown,
	}
}

// Prompt renders the generation prompt for req.
func Prompt(req Request) string {
	var b strings.Builder
	b.WriteString("Generate a creative sci-fi status report for a building on a floating space island.\n")
	fmt.Fprintf(&b, "Building Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Base Function: %s\n", req.BaseDescription)
	b.WriteString("\nReturn JSON with:\n")
	b.WriteString("- description: A 2-sentence atmospheric description of what is happening there right now.\n")
	b.WriteString("- secret: A one-sentence rumor or secret about this location.\n")
	b.WriteString("- status: One of 'operational', 'damaged', 'unknown', 'upgrading'.\n")

	prompt := b.String()
	return truncate(prompt, maxPromptLength)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Parse decodes and validates a generated JSON record.
func Parse(text string) (Lore, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Lore{}, ErrEmptyResponse
	}
	// models sometimes wrap JSON in a markdown fence
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var l Lore
	if err := json.Unmarshal([]byte(text), &l); err != nil {
		return Lore{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := l.validate(); err != nil {
		return Lore{}, err
	}
	return l, nil
}

func (l *Lore) validate() error {
	l.Description = strings.TrimSpace(l.Description)
	l.Secret = strings.TrimSpace(l.Secret)
	l.Status = Status(strings.ToLower(strings.TrimSpace(string(l.Status))))

	switch {
	case l.Description == "":
		return fmt.Errorf("%w: missing description", ErrMalformed)
	case l.Secret == "":
		return fmt.Errorf("%w: missing secret", ErrMalformed)
	case !l.Status.Valid():
		return fmt.Errorf("%w: invalid status %q", ErrMalformed, l.Status)
	case len(l.Description) > maxFieldLength || len(l.Secret) > maxFieldLength:
		return fmt.Errorf("%w: field too long", ErrMalformed)
	}
	return nil
}
