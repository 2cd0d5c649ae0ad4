package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

func setupStore(t *testing.T) (*Store, *utils.FixedClock) {
	t.Helper()
	clock := utils.NewFixedClock(time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC))
	return NewStore(storage.NewMemoryStore(), clock), clock
}

func TestAppendSeedsHeader(t *testing.T) {
	s, clock := setupStore(t)

	if err := s.Append("💬 planning the week"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	clock.Advance(30 * time.Minute)
	if err := s.Append("📋 Added task: Write report"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := s.Today()
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	want := "# Journal: 2026-10-19 (Monday)\n\n" +
		"**09:05** - 💬 planning the week\n\n" +
		"**09:35** - 📋 Added task: Write report\n\n"
	if got != want {
		t.Errorf("journal =\n%q\nwant\n%q", got, want)
	}
}

func TestAppendNeverRewritesEarlierEntries(t *testing.T) {
	s, clock := setupStore(t)

	_ = s.Append("first")
	before, _ := s.Today()
	clock.Advance(time.Minute)
	_ = s.Append("second")
	after, _ := s.Today()

	if !strings.HasPrefix(after, before) {
		t.Errorf("append changed existing content:\nbefore %q\nafter  %q", before, after)
	}
}

func TestAppendIsKeyedByDate(t *testing.T) {
	s, clock := setupStore(t)

	_ = s.Append("monday")
	clock.Advance(24 * time.Hour)
	_ = s.Append("tuesday")

	dates, err := s.Dates()
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}
	if len(dates) != 2 || dates[0] != "2026-10-19" || dates[1] != "2026-10-20" {
		t.Errorf("Dates() = %v", dates)
	}

	tue, _ := s.Read("2026-10-20")
	if !strings.HasPrefix(tue, "# Journal: 2026-10-20 (Tuesday)") {
		t.Errorf("tuesday header = %q", tue)
	}
	if strings.Contains(tue, "monday") {
		t.Errorf("tuesday journal contains monday entry: %q", tue)
	}
}

func TestReadMissingDay(t *testing.T) {
	s, _ := setupStore(t)
	got, err := s.Read("2020-01-01")
	if err != nil || got != "" {
		t.Errorf("Read() missing = %q, %v; want empty, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	content := "# Journal: 2026-10-19 (Monday)\n\n" +
		"**09:05** - 💬 hello\n\n" +
		"**09:06** - ## 📅 Week 2026-W42 Summary\n\n**Completed (1):**\n- ✅ Ship it\n\n\n" +
		"**xx:yy** - not a marker\n\n" +
		"**10:00** - 📝 Journaled\n\n"

	entries := Parse(content)
	if len(entries) != 3 {
		t.Fatalf("Parse() returned %d entries, want 3: %+v", len(entries), entries)
	}
	if entries[0].Time != "09:05" || entries[0].Text != "💬 hello" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if !strings.Contains(entries[1].Text, "- ✅ Ship it") || !strings.Contains(entries[1].Text, "**xx:yy** - not a marker") {
		t.Errorf("entries[1] should carry its continuation lines: %q", entries[1].Text)
	}
	if entries[2].Time != "10:00" {
		t.Errorf("entries[2] = %+v", entries[2])
	}
}
