package styleguide

import (
	"fmt"
	"strings"
)

// Canonical section identifiers. Frontend, API, and storage all key on
// these; no other keys are permitted in an issue draft.
const (
	SectionSubjectLine    = "subject_line"
	SectionPreheader      = "preheader"
	SectionIntro          = "intro"
	SectionNewsRoundup    = "news_roundup"
	SectionCuriousClaims  = "curious_claims"
	SectionBriteSpot      = "brite_spot"
	SectionSpotlight      = "spotlight"
	SectionAgentAdvantage = "agent_advantage"
	SectionFooterCTA      = "footer_cta"
)

// CanonicalOrder is the fixed assembly and reporting order.
var CanonicalOrder = []string{
	SectionSubjectLine,
	SectionPreheader,
	SectionIntro,
	SectionNewsRoundup,
	SectionCuriousClaims,
	SectionBriteSpot,
	SectionSpotlight,
	SectionAgentAdvantage,
	SectionFooterCTA,
}

// ErrUnknownSection is returned for identifiers outside the canonical nine.
var ErrUnknownSection = fmt.Errorf("unknown section")

// Format describes how a section's body is laid out.
type Format string

const (
	FormatNarrative  Format = "narrative"
	FormatBulleted   Format = "bulleted"
	FormatNumbered   Format = "numbered"
	FormatSingleLine Format = "single-line"
)

// SectionSpec holds the editorial constraints for one newsletter section.
type SectionSpec struct {
	ID                  string
	Name                string
	MinWords            int
	MaxWords            int
	Format              Format
	RequiredSubsections []string
	Tone                string
	RequiresCitation    bool
	RequiresCTA         bool
	// HedgeLimit is the number of hedging qualifiers tolerated before
	// the tone rule flags the section.
	HedgeLimit int
	Structure  []string
}

var sections = map[string]SectionSpec{
	SectionSubjectLine: {
		ID:         SectionSubjectLine,
		Name:       "Subject Line",
		MinWords:   4,
		MaxWords:   12,
		Format:     FormatSingleLine,
		Tone:       "Punchy, specific, no clickbait",
		HedgeLimit: 0,
		Structure:  []string{"One line", "Lead with the issue's strongest story", "No ALL CAPS, no exclamation spam"},
	},
	SectionPreheader: {
		ID:         SectionPreheader,
		Name:       "Preheader",
		MinWords:   5,
		MaxWords:   18,
		Format:     FormatSingleLine,
		Tone:       "Complements the subject line without repeating it",
		HedgeLimit: 0,
		Structure:  []string{"One line shown next to the subject in inboxes", "Tease a second story"},
	},
	SectionIntro: {
		ID:         SectionIntro,
		Name:       "Introduction",
		MinWords:   30,
		MaxWords:   75,
		Format:     FormatNarrative,
		Tone:       "Warm, welcoming, brief",
		HedgeLimit: 1,
		Structure:  []string{"1-4 sentences welcoming readers", "Address readers as \"Agents\"", "Reference the month or season", "Hint at content inside"},
	},
	SectionNewsRoundup: {
		ID:               SectionNewsRoundup,
		Name:             "Insurance News Roundup",
		MinWords:         75,
		MaxWords:         150,
		Format:           FormatBulleted,
		Tone:             "Factual, concise, newsworthy",
		RequiresCitation: true,
		HedgeLimit:       1,
		Structure:        []string{"5 bullet points", "Each ~25 words", "Include source attribution"},
	},
	SectionCuriousClaims: {
		ID:                  SectionCuriousClaims,
		Name:                "Curious Claims",
		MinWords:            100,
		MaxWords:            200,
		Format:              FormatNarrative,
		RequiredSubsections: []string{"The Claim", "The Outcome", "Agent Takeaway"},
		Tone:                "Engaging, storytelling, educational",
		RequiresCitation:    true,
		HedgeLimit:          2,
		Structure:           []string{"The Claim: what happened (2-3 sentences)", "The Outcome: how it was resolved", "Agent Takeaway: lesson for agents", "Link to the source story"},
	},
	SectionBriteSpot: {
		ID:          SectionBriteSpot,
		Name:        "The Brite Spot",
		MinWords:    40,
		MaxWords:    100,
		Format:      FormatNarrative,
		Tone:        "Exciting, informative",
		RequiresCTA: true,
		HedgeLimit:  1,
		Structure:   []string{"BriteCo company news or feature highlight", "Clear value proposition for agents", "End with a call to action"},
	},
	SectionSpotlight: {
		ID:                  SectionSpotlight,
		Name:                "InsurNews Spotlight",
		MinWords:            250,
		MaxWords:            450,
		Format:              FormatNarrative,
		RequiredSubsections: []string{"Implications for Agents"},
		Tone:                "Analytical, insightful, practical",
		RequiresCitation:    true,
		HedgeLimit:          3,
		Structure:           []string{"Compelling sub-header (max 15 words)", "Opening paragraph introducing the topic", "Up to 4 subsections with inline source links", "\"Implications for Agents\" closes the section"},
	},
	SectionAgentAdvantage: {
		ID:               SectionAgentAdvantage,
		Name:             "Agent Advantage",
		MinWords:         200,
		MaxWords:         350,
		Format:           FormatNumbered,
		Tone:             "Helpful, actionable, expert advice",
		RequiresCitation: true,
		HedgeLimit:       2,
		Structure:        []string{"Quick intro paragraph (2-3 sentences)", "Exactly 5 numbered tips", "Each tip: bold mini-title (up to 10 words) plus 1-3 sentences", "Focus on sales, retention, operations"},
	},
	SectionFooterCTA: {
		ID:          SectionFooterCTA,
		Name:        "Footer & CTA",
		MinWords:    10,
		MaxWords:    40,
		Format:      FormatSingleLine,
		Tone:        "Direct, friendly",
		RequiresCTA: true,
		HedgeLimit:  0,
		Structure:   []string{"One closing line thanking readers", "A partnership or contact call to action", "Refer to the website as brite.co"},
	},
}

// SpecFor returns the editorial constraints for a canonical section id.
func SpecFor(id string) (SectionSpec, error) {
	spec, ok := sections[id]
	if !ok {
		return SectionSpec{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}
	return spec, nil
}

// IsCanonical reports whether id is one of the nine canonical sections.
func IsCanonical(id string) bool {
	_, ok := sections[id]
	return ok
}

// Sections returns all section specs in canonical order.
func Sections() []SectionSpec {
	out := make([]SectionSpec, 0, len(CanonicalOrder))
	for _, id := range CanonicalOrder {
		out = append(out, sections[id])
	}
	return out
}

// BannedPhrases maps AI-tell and corporate-speak phrases to their
// suggested human replacements. Matching is case-insensitive.
var BannedPhrases = map[string]string{
	"leverage":                       "use",
	"utilize":                        "use",
	"delve into":                     "dig into",
	"in today's fast-paced world":    "today",
	"in the ever-evolving landscape": "in the changing market",
	"game-changer":                   "big step forward",
	"cutting-edge":                   "modern",
	"seamless":                       "smooth",
	"robust":                         "strong",
	"synergy":                        "teamwork",
	"unlock the potential":           "get the most out of",
	"elevate your":                   "improve your",
	"it's important to note":         "note",
	"at the end of the day":          "ultimately",
	"take it to the next level":      "build on it",
	"best-in-class":                  "leading",
	"circle back":                    "follow up",
	"low-hanging fruit":              "easy wins",
}

// CTAVerbs are imperative openers that satisfy the call-to-action rule.
var CTAVerbs = []string{
	"join", "partner", "sign up", "contact", "call", "visit", "learn",
	"get", "schedule", "register", "download", "start", "claim", "book",
	"reach out", "explore", "try",
}

// HedgingQualifiers trip the tone rule when a section uses too many.
var HedgingQualifiers = []string{
	"may", "might", "could potentially", "perhaps", "possibly",
	"it seems", "arguably",
}

// Brand terminology rules from the BriteCo editorial guide.
var (
	BrandDo = []string{
		"Call BriteCo an 'insurtech company' or 'insurance provider'",
		"Refer to BriteCo as a 'specialty jewelry insurance provider' when comparing to general insurers",
		"Say 'backed by an AM Best A+ rated Insurance Carrier'",
		"Refer to the website as brite.co or https://brite.co",
	}
	BrandDont = []string{
		"Call BriteCo an 'insurance company'",
		"Refer to BriteCo as 'specialized jewelry insurance'",
		"Slander competitors",
		"Say 'we have AM Best policies' or 'we are AM Best'",
		"Refer to the website as www.brite.co",
	}
)

// Content filters applied to research and drafting prompts.
var (
	IncludeTopics = []string{
		"property and casualty", "P&C", "homeowners insurance",
		"auto insurance", "commercial insurance", "workers compensation",
		"liability insurance", "independent agents", "insurance technology",
		"claims management",
	}
	ExcludeTopics = []string{
		"health insurance", "life insurance", "medicare", "medicaid",
		"political", "election", "international news",
		"executive appointment", "personnel announcement", "obituary",
	}
)

// NewsSources are the publications the research collaborator searches.
var NewsSources = []string{
	"insurancenewsnet.com",
	"insurancejournal.com",
	"businessinsurance.com",
	"insurancebusinessmag.com/us",
	"claimsjournal.com",
	"propertycasualty360.com",
	"carriermanagement.com",
}

// StyleGuideFor renders a prompt-friendly editorial guide, optionally
// including one section's specific requirements.
func StyleGuideFor(sectionID string) string {
	var sb strings.Builder

	sb.WriteString("## EDITORIAL STYLE GUIDE\n\n")
	sb.WriteString("### TONE & VOICE\n")
	sb.WriteString("- Tone: Professional but approachable, knowledgeable, supportive\n")
	sb.WriteString("- Style: Clear, concise, actionable\n")
	sb.WriteString("- Perspective: We help independent insurance agents succeed\n")
	sb.WriteString("- AVOID: Overly salesy language, jargon without explanation, competitor bashing\n\n")

	sb.WriteString("### CONTENT FOCUS\n")
	sb.WriteString("- INCLUDE topics about: " + strings.Join(IncludeTopics[:5], ", ") + "\n")
	sb.WriteString("- EXCLUDE any content about: " + strings.Join(ExcludeTopics[:5], ", ") + "\n\n")

	sb.WriteString("### BRITECO BRAND TERMINOLOGY\n")
	sb.WriteString("DO:\n")
	for _, rule := range BrandDo[:3] {
		sb.WriteString("  - " + rule + "\n")
	}
	sb.WriteString("DON'T:\n")
	for _, rule := range BrandDont[:3] {
		sb.WriteString("  - " + rule + "\n")
	}
	sb.WriteString("\n")

	if spec, ok := sections[sectionID]; ok {
		sb.WriteString("### " + strings.ToUpper(spec.Name) + " SECTION REQUIREMENTS\n")
		for _, item := range spec.Structure {
			sb.WriteString("- " + item + "\n")
		}
		sb.WriteString(fmt.Sprintf("- Length: %d-%d words\n", spec.MinWords, spec.MaxWords))
		sb.WriteString("- Tone: " + spec.Tone + "\n")
	}

	return sb.String()
}
