package distribute

import (
	"context"
	"errors"

	"github.com/briteco/brief/internal/config"
	"github.com/briteco/brief/internal/logger"
)

// ErrNotConfigured is returned when the distribution platform has no
// API credentials.
var ErrNotConfigured = errors.New("ontraport credentials not configured")

// Receipt describes a campaign staged with the distribution platform.
// Scheduling and list selection stay in the platform dashboard.
type Receipt struct {
	Objects   []string `json:"objects"`
	FromEmail string   `json:"from_email"`
	Subject   string   `json:"subject"`
	Message   string   `json:"message"`
}

// Distributor stages a rendered issue with the email campaign platform.
type Distributor interface {
	Stage(ctx context.Context, subject, preheader, html string) (*Receipt, error)
}

// Ontraport agent campaign object IDs and sender identity.
var agentObjects = []string{"10004", "10007"}

const fromEmail = "agent@brite.co"

// Ontraport is the distribution boundary for the agent newsletter.
// Only the staging contract is implemented; creating the message
// object and scheduling the campaign remain manual steps in the
// Ontraport dashboard.
type Ontraport struct {
	appID  string
	apiKey string
}

func NewOntraport(cfg config.OntraportConfig) *Ontraport {
	return &Ontraport{appID: cfg.AppID, apiKey: cfg.APIKey}
}

// Configured reports whether API credentials are present.
func (o *Ontraport) Configured() bool {
	return o.appID != "" && o.apiKey != ""
}

func (o *Ontraport) Stage(_ context.Context, subject, _, html string) (*Receipt, error) {
	if subject == "" || html == "" {
		return nil, errors.New("subject and html content required")
	}
	if !o.Configured() {
		return nil, ErrNotConfigured
	}

	logger.Info("[DISTRIBUTE] newsletter staged for ontraport objects %v", agentObjects)
	return &Receipt{
		Objects:   agentObjects,
		FromEmail: fromEmail,
		Subject:   subject,
		Message:   "Newsletter ready for Ontraport",
	}, nil
}
