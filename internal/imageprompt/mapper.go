package imageprompt

import (
	"fmt"
	"strings"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/styleguide"
)

// ErrUnsupportedSection is returned for sections that never get an
// illustration.
var ErrUnsupportedSection = fmt.Errorf("section not eligible for image generation")

// Request is a fully-rendered image generation request. Deriving it is
// pure template substitution; no generation call happens here.
type Request struct {
	SectionID     string `json:"section_id"`
	PromptText    string `json:"prompt_text"`
	SourceExcerpt string `json:"source_excerpt"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
}

// styleBlock carries the brand constraints every image request embeds.
const styleBlock = `Style requirements:
- Clean, professional corporate style
- Modern flat design or subtle 3D
- Colors: teal (#037E7F), coral (#FE8916), and neutral tones
- No text in the image
- Suitable for an email newsletter
- Business/insurance industry appropriate`

type sectionTemplate struct {
	subject string
	width   int
	height  int
}

// News Roundup and Brite Spot stay image-free until the open question
// about illustrating them is settled with stakeholders.
var templates = map[string]sectionTemplate{
	styleguide.SectionCuriousClaims: {
		subject: "A lighthearted scene hinting at an unusual insurance claim",
		width:   203,
		height:  152,
	},
	styleguide.SectionSpotlight: {
		subject: "An editorial illustration of the month's biggest insurance industry story",
		width:   400,
		height:  225,
	},
	styleguide.SectionAgentAdvantage: {
		subject: "An insurance agent at work, confident and organized",
		width:   203,
		height:  152,
	},
}

// Eligible reports whether a section can receive an illustration.
func Eligible(sectionID string) bool {
	_, ok := templates[sectionID]
	return ok
}

// MapRequest derives the image request for an accepted section draft.
func MapRequest(sectionID string, draft assembler.SectionDraft) (Request, error) {
	if !styleguide.IsCanonical(sectionID) {
		return Request{}, fmt.Errorf("%w: %q", styleguide.ErrUnknownSection, sectionID)
	}
	tpl, ok := templates[sectionID]
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", ErrUnsupportedSection, sectionID)
	}

	excerpt := leadSentences(draft.Text, 2)
	promptText := fmt.Sprintf(`Create a professional, modern illustration for an insurance industry newsletter.

Subject: %s

Context from the section: %s

%s`, tpl.subject, excerpt, styleBlock)

	return Request{
		SectionID:     sectionID,
		PromptText:    promptText,
		SourceExcerpt: excerpt,
		Width:         tpl.width,
		Height:        tpl.height,
	}, nil
}

// leadSentences returns the first n sentences of drafted text.
func leadSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
