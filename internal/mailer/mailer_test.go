package mailer

import (
	"strings"
	"testing"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/styleguide"
)

func TestRenderHTML(t *testing.T) {
	issue := &assembler.IssueDraft{
		ID:          "issue-1",
		SubjectLine: "Hurricane season tests carriers",
		Sections: map[string]assembler.SectionDraft{
			styleguide.SectionSubjectLine: {SectionID: styleguide.SectionSubjectLine, Text: "Hurricane season tests carriers"},
			styleguide.SectionIntro:       {SectionID: styleguide.SectionIntro, Text: "Agents, welcome back."},
			styleguide.SectionNewsRoundup: {SectionID: styleguide.SectionNewsRoundup, Text: "- Losses climbed, per [Insurance Journal](https://example.com/1)."},
			styleguide.SectionFooterCTA:   {SectionID: styleguide.SectionFooterCTA, Text: "Thanks for reading. Visit brite.co."},
		},
	}

	html, err := RenderHTML(issue, "The BriteCo Brief")
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if !strings.Contains(html, "<h1>The BriteCo Brief</h1>") {
		t.Fatalf("html missing title header:\n%s", html)
	}
	// Sections appear under their display names in canonical order.
	intro := strings.Index(html, "<h2>Introduction</h2>")
	roundup := strings.Index(html, "<h2>Insurance News Roundup</h2>")
	footer := strings.Index(html, "<h2>Footer &amp; CTA</h2>")
	if intro < 0 || roundup < 0 || footer < 0 {
		t.Fatalf("html missing section headers:\n%s", html)
	}
	if !(intro < roundup && roundup < footer) {
		t.Fatal("sections out of canonical order")
	}
	// Markdown converts: the bullet's link becomes an anchor.
	if !strings.Contains(html, `<a href="https://example.com/1">Insurance Journal</a>`) {
		t.Fatalf("markdown link not converted:\n%s", html)
	}
	// The subject line rides in the envelope, never the body.
	if strings.Contains(html, "<h2>Subject Line</h2>") {
		t.Fatal("subject line must not render in the body")
	}
}

func TestRenderHTMLSkipsMissingSections(t *testing.T) {
	issue := &assembler.IssueDraft{
		ID: "issue-2",
		Sections: map[string]assembler.SectionDraft{
			styleguide.SectionIntro: {SectionID: styleguide.SectionIntro, Text: "Agents, welcome back."},
		},
		Failures: map[string]string{styleguide.SectionSpotlight: "insufficient source material"},
	}

	html, err := RenderHTML(issue, "")
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if strings.Contains(html, "InsurNews Spotlight") {
		t.Fatal("failed section must not render")
	}
	if !strings.Contains(html, "<h2>Introduction</h2>") {
		t.Fatalf("intro missing:\n%s", html)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("brief@brite.co", "pat@example.com", "September Preview", "<p>Hello</p>"))
	for _, want := range []string{
		"From: brief@brite.co",
		"To: pat@example.com",
		"Subject: September Preview",
		"Content-Type: text/html",
		"<p>Hello</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}
