package research

import "context"

// Static serves canned research material, keyed by section id. Used by
// tests, mock runs, and the one-shot generate command's research files.
type Static struct {
	TopicList []Topic
	BySection map[string][]Item
}

func (s *Static) Topics(_ context.Context) ([]Topic, error) {
	return s.TopicList, nil
}

func (s *Static) Articles(_ context.Context, _ string) ([]Item, error) {
	return s.BySection["spotlight"], nil
}

func (s *Static) ClaimsStories(_ context.Context) ([]Item, error) {
	return s.BySection["curious_claims"], nil
}

func (s *Static) Roundup(_ context.Context) ([]Item, error) {
	return s.BySection["news_roundup"], nil
}

func (s *Static) AgentTips(_ context.Context, _ string) ([]Item, error) {
	return s.BySection["agent_advantage"], nil
}
