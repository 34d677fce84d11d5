package image

import (
	"context"
	"crypto/sha256"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeholderColors are the background colors the placeholder service cycles
// through. The color is chosen deterministically from the prompt so the same
// prompt always renders the same card.
var placeholderColors = []string{"3B82F6", "10B981", "8B5CF6", "F59E0B", "EF4444"}

const placeholderCaptionRunes = 30

// Placeholder produces a placehold.co image URL derived from the prompt. It
// never fails and needs no credentials, which makes it the fallback of last
// resort.
type Placeholder struct {
	titler cases.Caser
}

func NewPlaceholder() *Placeholder {
	return &Placeholder{titler: cases.Title(language.English)}
}

func (p *Placeholder) Generate(_ context.Context, req Request) (*Asset, error) {
	color := placeholderColors[int(sha256.Sum256([]byte(req.Prompt))[0])%len(placeholderColors)]
	caption := p.caption(req.Prompt)

	u := "https://placehold.co/800x600/" + color + "/FFFFFF?text=" + url.QueryEscape("AI Image: "+caption)
	return &Asset{URL: u, MIME: "image/svg+xml"}, nil
}

func (p *Placeholder) caption(prompt string) string {
	trimmed := strings.Join(strings.Fields(prompt), " ")
	runes := []rune(trimmed)
	if len(runes) > placeholderCaptionRunes {
		trimmed = string(runes[:placeholderCaptionRunes])
	}
	return p.titler.String(trimmed)
}

var _ Generator = (*Placeholder)(nil)
