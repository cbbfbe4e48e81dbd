package state

import (
	"slices"
	"strings"

	"github.com/jwebster45206/great-transit/pkg/alignment"
)

// ChoiceOption is one side of a binary choice.
type ChoiceOption struct {
	Letter     string          `json:"letter"`
	Text       string          `json:"text"`
	Impact     alignment.Shift `json:"impact"`
	ResultText string          `json:"result_text"`
	Grants     []string        `json:"grants,omitempty"`
	Next       string          `json:"next,omitempty"` // ID of a follow-up choice
}

// BinaryChoice is a two-option decision presented to the player. While one
// is pending the session only accepts its resolution.
type BinaryChoice struct {
	ID       string       `json:"id"`
	Frame    string       `json:"frame"`
	A        ChoiceOption `json:"a"`
	B        ChoiceOption `json:"b"`
	Location string       `json:"location,omitempty"`
}

// Option returns the option for a letter ("a" or "b", any case).
func (c *BinaryChoice) Option(letter string) (ChoiceOption, bool) {
	switch strings.ToLower(strings.TrimSpace(letter)) {
	case "a":
		return c.A, true
	case "b":
		return c.B, true
	}
	return ChoiceOption{}, false
}

// Prompt renders the frame and both options.
func (c *BinaryChoice) Prompt() string {
	var b strings.Builder
	b.WriteString(c.Frame)
	b.WriteString("\n\n[A] ")
	b.WriteString(c.A.Text)
	b.WriteString("\n[B] ")
	b.WriteString(c.B.Text)
	return b.String()
}

// Clone returns a deep copy.
func (c *BinaryChoice) Clone() *BinaryChoice {
	if c == nil {
		return nil
	}
	cp := *c
	cp.A.Grants = slices.Clone(c.A.Grants)
	cp.B.Grants = slices.Clone(c.B.Grants)
	return &cp
}

// ChoiceFlag is the flag set once the choice with id has been resolved.
func ChoiceFlag(id string) string {
	return "choice:" + id
}
