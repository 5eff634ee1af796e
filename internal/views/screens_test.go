package views

import (
	"strings"
	"testing"
)

func habitRow(status string, enforced bool) HabitRowData {
	return HabitRowData{
		Name:     "Pushups",
		Period:   "Daily",
		Count:    3,
		Target:   2,
		Status:   status,
		Enforced: enforced,
		Today:    "3 / 2",
		Lately:   "10 / 14",
	}
}

func TestHabitsPanelBadgeFollowsDirection(t *testing.T) {
	cases := []struct {
		name     string
		status   string
		enforced bool
		badge    string
	}{
		{"build-up over target is a win", "over", false, "[GREEN]"},
		{"stay-under over target is a slip", "over", true, "[RED]"},
		{"on target", "on target", false, "[GREEN]"},
		{"under", "under", false, "[YELLOW]"},
	}
	for _, tc := range cases {
		out := RenderHabitsPanel(HabitsPanelData{Rows: []HabitRowData{habitRow(tc.status, tc.enforced)}})
		if !strings.Contains(out, tc.badge) {
			t.Fatalf("%s: expected badge %s in output: %q", tc.name, tc.badge, out)
		}
	}
}

func TestHabitsPanelDirectionLabel(t *testing.T) {
	out := RenderHabitsPanel(HabitsPanelData{Rows: []HabitRowData{habitRow("under", true)}})
	if !strings.Contains(out, "at most 2 per Daily") {
		t.Fatalf("expected stay-under phrasing, got %q", out)
	}
	out = RenderHabitsPanel(HabitsPanelData{Rows: []HabitRowData{habitRow("under", false)}})
	if !strings.Contains(out, "at least 2 per Daily") {
		t.Fatalf("expected build-up phrasing, got %q", out)
	}
}

func TestRenderAppFrameSections(t *testing.T) {
	out := RenderApp(AppData{
		Header:        "routined | view: Day | date: 2026-02-26",
		LeftPane:      "left content",
		RightPane:     "right content",
		StatusLine:    "status: error: boom",
		StatusIsError: true,
		Notification:  "summary: occurrences 0/1 done",
		Footer:        "keys: q quit",
	})
	for _, want := range []string{
		"view: Day",
		"left content",
		"right content",
		"status: error: boom",
		"occurrences 0/1 done",
		"keys: q quit",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in frame:\n%s", want, out)
		}
	}
}

func TestRenderAppOmitsEmptyStrips(t *testing.T) {
	out := RenderApp(AppData{Header: "h", LeftPane: "l", RightPane: "r", StatusLine: "status: ok"})
	if got := len(strings.Split(out, "\n")); got == 0 {
		t.Fatalf("unexpected empty frame: %q", out)
	}
	if strings.Contains(out, "keys:") {
		t.Fatalf("footer must be absent when empty: %q", out)
	}
}

func TestRenderMarkdownFallsBackToRawOnEmpty(t *testing.T) {
	if out := RenderMarkdown("   "); out != "" {
		t.Fatalf("blank markdown must render empty, got %q", out)
	}
	if out := RenderMarkdown("plain message"); !strings.Contains(out, "plain message") {
		t.Fatalf("expected rendered text to carry the message, got %q", out)
	}
}
