package cron

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/briteco/brief/internal/persist"
	"github.com/briteco/brief/internal/research"
)

func TestNormalizeCron(t *testing.T) {
	cases := map[string]string{
		"0 6 1 * *":   "0 0 6 1 * *",
		"0 0 6 1 * *": "0 0 6 1 * *",
		"@monthly":    "@monthly",
		"*/5 * * * *": "0 */5 * * * *",
	}
	for in, want := range cases {
		if got := normalizeCron(in); got != want {
			t.Fatalf("normalizeCron(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAddListRemoveJobs(t *testing.T) {
	s := NewScheduler(nil, nil)

	job, err := s.AddJob("nightly", "0 2 * * *", func() {})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if job.ID == "" {
		t.Fatal("job has no id")
	}

	jobs := s.ListJobs()
	if len(jobs) != 1 || jobs[0].Name != "nightly" {
		t.Fatalf("jobs = %v", jobs)
	}

	if err := s.RemoveJob(job.ID); err != nil {
		t.Fatalf("RemoveJob failed: %v", err)
	}
	if len(s.ListJobs()) != 0 {
		t.Fatal("job not removed")
	}
	if err := s.RemoveJob(job.ID); err == nil {
		t.Fatal("removing a missing job should fail")
	}
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(nil, nil)
	if _, err := s.AddJob("bad", "not a schedule", func() {}); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestScheduledJobRuns(t *testing.T) {
	s := NewScheduler(nil, nil)
	var runs atomic.Int32

	if _, err := s.AddJob("tick", "* * * * * *", func() { runs.Add(1) }); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	if err := s.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Fatal("job never ran")
	}
}

func TestPrefetchFillsTopicCache(t *testing.T) {
	store, err := persist.NewStore(filepath.Join(t.TempDir(), "brief.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer store.Close()

	collaborator := &research.Static{
		TopicList: []research.Topic{{Topic: "Hurricane losses"}},
		BySection: map[string][]research.Item{
			"news_roundup": {{Headline: "Losses climb", SourceName: "Insurance Journal"}},
		},
	}
	s := NewScheduler(store, collaborator)

	s.runPrefetch()

	cache, err := store.LatestTopicCache()
	if err != nil {
		t.Fatalf("LatestTopicCache failed: %v", err)
	}
	if cache == nil {
		t.Fatal("prefetch did not fill the cache")
	}
	if len(cache.Topics) != 1 || cache.Topics[0].Topic != "Hurricane losses" {
		t.Fatalf("topics = %v", cache.Topics)
	}
	if len(cache.Roundup) != 1 {
		t.Fatalf("roundup = %v", cache.Roundup)
	}
}
