package distribute

import (
	"context"
	"errors"
	"testing"

	"github.com/briteco/brief/internal/config"
)

func TestStageWithoutCredentials(t *testing.T) {
	o := NewOntraport(config.OntraportConfig{})
	if o.Configured() {
		t.Fatal("empty credentials must not report configured")
	}
	_, err := o.Stage(context.Background(), "September issue", "", "<p>Hello</p>")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestStageRequiresSubjectAndBody(t *testing.T) {
	o := NewOntraport(config.OntraportConfig{AppID: "app", APIKey: "key"})
	if _, err := o.Stage(context.Background(), "", "", "<p>Hello</p>"); err == nil {
		t.Fatal("expected error for missing subject")
	}
	if _, err := o.Stage(context.Background(), "September issue", "", ""); err == nil {
		t.Fatal("expected error for missing html")
	}
}

func TestStageReceipt(t *testing.T) {
	o := NewOntraport(config.OntraportConfig{AppID: "app", APIKey: "key"})
	receipt, err := o.Stage(context.Background(), "September issue", "Inside: five tips", "<p>Hello</p>")
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if len(receipt.Objects) != 2 || receipt.Objects[0] != "10004" || receipt.Objects[1] != "10007" {
		t.Fatalf("objects = %v", receipt.Objects)
	}
	if receipt.FromEmail != "agent@brite.co" {
		t.Fatalf("from = %q", receipt.FromEmail)
	}
	if receipt.Subject != "September issue" {
		t.Fatalf("subject = %q", receipt.Subject)
	}
}
