package webui

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/brandcheck"
	"github.com/briteco/brief/internal/config"
	"github.com/briteco/brief/internal/distribute"
	"github.com/briteco/brief/internal/generate"
	"github.com/briteco/brief/internal/imageprompt"
	"github.com/briteco/brief/internal/logger"
	"github.com/briteco/brief/internal/mailer"
	"github.com/briteco/brief/internal/persist"
	"github.com/briteco/brief/internal/prompt"
	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/styleguide"
)

// Server exposes the newsletter pipeline to the operator frontend.
type Server struct {
	assembler   *assembler.Assembler
	research    research.Collaborator
	store       *persist.Store
	mailer      *mailer.Mailer
	distributor distribute.Distributor
	newsletter  config.NewsletterConfig
	startedAt   time.Time
}

func NewServer(asm *assembler.Assembler, collaborator research.Collaborator, store *persist.Store, m *mailer.Mailer, distributor distribute.Distributor, newsletter config.NewsletterConfig) *Server {
	return &Server{
		assembler:   asm,
		research:    collaborator,
		store:       store,
		mailer:      m,
		distributor: distributor,
		newsletter:  newsletter,
		startedAt:   time.Now().UTC(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/sections", s.handleSections)
	mux.HandleFunc("/api/team-members", s.handleTeamMembers)
	mux.HandleFunc("/api/topic-cache", s.handleTopicCache)
	mux.HandleFunc("/api/research/topics", s.handleResearchTopics)
	mux.HandleFunc("/api/research/articles", s.handleResearchArticles)
	mux.HandleFunc("/api/research/claims", s.handleResearchClaims)
	mux.HandleFunc("/api/research/roundup", s.handleResearchRoundup)
	mux.HandleFunc("/api/research/agent-tips", s.handleResearchAgentTips)
	mux.HandleFunc("/api/assemble-section", s.handleAssembleSection)
	mux.HandleFunc("/api/assemble", s.handleAssemble)
	mux.HandleFunc("/api/brand-check", s.handleBrandCheck)
	mux.HandleFunc("/api/image-request", s.handleImageRequest)
	mux.HandleFunc("/api/issues", s.handleIssues)
	mux.HandleFunc("/api/issues/", s.handleIssueByID)
	mux.HandleFunc("/api/send-preview", s.handleSendPreview)
	mux.HandleFunc("/api/send-to-ontraport", s.handleSendToOntraport)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(defaultIndexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"success":    true,
		"service":    "britebrief",
		"started_at": s.startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(s.startedAt).Seconds()),
	}
	if avg, err := load.Avg(); err == nil {
		payload["load1"] = avg.Load1
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		payload["mem_used_percent"] = vm.UsedPercent
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type sectionPayload struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		MinWords         int    `json:"min_words"`
		MaxWords         int    `json:"max_words"`
		Format           string `json:"format"`
		RequiresCitation bool   `json:"requires_citation"`
		ImageEligible    bool   `json:"image_eligible"`
	}

	var sections []sectionPayload
	for _, spec := range styleguide.Sections() {
		sections = append(sections, sectionPayload{
			ID:               spec.ID,
			Name:             spec.Name,
			MinWords:         spec.MinWords,
			MaxWords:         spec.MaxWords,
			Format:           string(spec.Format),
			RequiresCitation: spec.RequiresCitation,
			ImageEligible:    imageprompt.Eligible(spec.ID),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sections": sections})
}

func (s *Server) handleTeamMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"team_members": s.newsletter.TeamMembers,
	})
}

func (s *Server) handleTopicCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	cache, err := s.store.LatestTopicCache()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "cache": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "cache": cache})
}

// ---- research routes ----

func (s *Server) requireResearch(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if s.research == nil {
		writeError(w, http.StatusServiceUnavailable, "research collaborator is not configured")
		return false
	}
	return true
}

func (s *Server) handleResearchTopics(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w, r) {
		return
	}
	topics, err := s.research.Topics(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "topics": topics})
}

func (s *Server) handleResearchArticles(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w, r) {
		return
	}
	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	items, err := s.research.Articles(r.Context(), req.Topic)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "articles": items})
}

func (s *Server) handleResearchClaims(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w, r) {
		return
	}
	items, err := s.research.ClaimsStories(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "claims": items})
}

func (s *Server) handleResearchRoundup(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w, r) {
		return
	}
	items, err := s.research.Roundup(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "items": items})
}

func (s *Server) handleResearchAgentTips(w http.ResponseWriter, r *http.Request) {
	if !s.requireResearch(w, r) {
		return
	}
	var req struct {
		Topic string `json:"topic"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	items, err := s.research.AgentTips(r.Context(), strings.TrimSpace(req.Topic))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tips": items})
}

// ---- assembly routes ----

type hintsPayload struct {
	Month        string   `json:"month,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
	Announcement string   `json:"announcement,omitempty"`
	Topic        string   `json:"topic,omitempty"`
	Details      string   `json:"details,omitempty"`
}

func (h hintsPayload) toHints() prompt.Hints {
	return prompt.Hints{
		Month:        h.Month,
		Highlights:   h.Highlights,
		Announcement: h.Announcement,
		Topic:        h.Topic,
		Details:      h.Details,
	}
}

func (s *Server) handleAssembleSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		SectionID string          `json:"section_id"`
		Items     []research.Item `json:"items"`
		Hints     hintsPayload    `json:"hints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	draft, err := s.assembler.AssembleSection(r.Context(), req.SectionID, req.Items, req.Hints.toHints())
	if err != nil {
		status, retriable := classifyAssemblyError(err)
		writeJSON(w, status, map[string]any{
			"success":   false,
			"error":     err.Error(),
			"retriable": retriable,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "draft": draft})
}

func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Research map[string][]research.Item `json:"research"`
		Hints    hintsPayload               `json:"hints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	issue, err := s.assembler.AssembleIssue(r.Context(), req.Research, req.Hints.toHints())
	if err != nil {
		if errors.Is(err, styleguide.ErrUnknownSection) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.store != nil {
		if err := s.store.SaveIssue(issue); err != nil {
			logger.Warn("[WEB] failed to persist issue %s: %v", issue.ID, err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "issue": issue})
}

func (s *Server) handleBrandCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		IssueID string                `json:"issue_id,omitempty"`
		Issue   *assembler.IssueDraft `json:"issue,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	issue := req.Issue
	if req.IssueID != "" {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "storage is not configured")
			return
		}
		stored, err := s.store.GetIssue(req.IssueID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "issue not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		issue = stored
	}
	if issue == nil {
		writeError(w, http.StatusBadRequest, "issue_id or inline issue required")
		return
	}

	issues := brandcheck.Check(issue)

	if req.IssueID != "" && s.store != nil {
		if err := s.store.SaveBrandReport(req.IssueID, issues); err != nil {
			logger.Warn("[WEB] failed to persist brand report for %s: %v", req.IssueID, err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "issues": issues, "count": len(issues)})
}

func (s *Server) handleImageRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		SectionID string `json:"section_id"`
		IssueID   string `json:"issue_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}

	issue, err := s.store.GetIssue(req.IssueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	draft, ok := issue.Section(req.SectionID)
	if !ok {
		writeError(w, http.StatusNotFound, "section has no accepted draft in this issue")
		return
	}

	imgReq, err := imageprompt.MapRequest(req.SectionID, draft)
	if err != nil {
		switch {
		case errors.Is(err, styleguide.ErrUnknownSection):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, imageprompt.ErrUnsupportedSection):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "request": imgReq})
}

func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	summaries, err := s.store.ListIssues(20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "issues": summaries})
}

func (s *Server) handleIssueByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/issues/")
	if report, ok := strings.CutSuffix(id, "/brand-report"); ok {
		s.serveBrandReport(w, report)
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "issue id required")
		return
	}
	issue, err := s.store.GetIssue(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "issue": issue})
}

func (s *Server) serveBrandReport(w http.ResponseWriter, issueID string) {
	if issueID == "" {
		writeError(w, http.StatusBadRequest, "issue id required")
		return
	}
	report, err := s.store.GetBrandReport(issueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "no brand report for this issue")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "issues": report, "count": len(report)})
}

func (s *Server) handleSendToOntraport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.distributor == nil {
		writeError(w, http.StatusServiceUnavailable, "distribution is not configured")
		return
	}
	var req struct {
		IssueID   string `json:"issue_id,omitempty"`
		Subject   string `json:"subject,omitempty"`
		Preheader string `json:"preheader,omitempty"`
		HTML      string `json:"html,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	subject, preheader, html := req.Subject, req.Preheader, req.HTML
	if req.IssueID != "" {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "storage is not configured")
			return
		}
		issue, err := s.store.GetIssue(req.IssueID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "issue not found")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rendered, err := mailer.RenderHTML(issue, s.newsletter.Title)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		html = rendered
		if subject == "" {
			subject = issue.SubjectLine
		}
		if preheader == "" {
			preheader = issue.Preheader
		}
	}
	if subject == "" || html == "" {
		writeError(w, http.StatusBadRequest, "html content and subject required")
		return
	}

	receipt, err := s.distributor.Stage(r.Context(), subject, preheader, html)
	if err != nil {
		if errors.Is(err, distribute.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "receipt": receipt})
}

func (s *Server) handleSendPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.mailer == nil {
		writeError(w, http.StatusServiceUnavailable, "smtp is not configured")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured")
		return
	}
	var req struct {
		IssueID    string   `json:"issue_id"`
		Recipients []string `json:"recipients,omitempty"`
		Subject    string   `json:"subject,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	issue, err := s.store.GetIssue(req.IssueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recipients := req.Recipients
	if len(recipients) == 0 {
		for _, member := range s.newsletter.TeamMembers {
			recipients = append(recipients, member.Email)
		}
	}
	subject := req.Subject
	if subject == "" {
		subject = issue.SubjectLine
	}
	if subject == "" {
		subject = s.newsletter.Title + " Preview"
	}

	html, err := mailer.RenderHTML(issue, s.newsletter.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.mailer.SendPreview(recipients, subject, html)
	if err != nil {
		payload := map[string]any{"success": false, "error": err.Error()}
		if result != nil {
			payload["sent"] = result.Sent
			payload["errors"] = result.Errors
		}
		writeJSON(w, http.StatusInternalServerError, payload)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}

// classifyAssemblyError maps the error taxonomy to HTTP status and the
// retry-offer flag the frontend shows: generation timeouts are worth a
// retry, refusals and bad input are not.
func classifyAssemblyError(err error) (status int, retriable bool) {
	var refusal *generate.RefusalError
	switch {
	case errors.Is(err, styleguide.ErrUnknownSection):
		return http.StatusNotFound, false
	case errors.Is(err, prompt.ErrInsufficientSource):
		return http.StatusBadRequest, false
	case errors.Is(err, generate.ErrTimeout):
		return http.StatusBadGateway, true
	case errors.As(err, &refusal):
		return http.StatusBadGateway, false
	case errors.Is(err, context.Canceled):
		return http.StatusBadGateway, true
	default:
		return http.StatusInternalServerError, false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
