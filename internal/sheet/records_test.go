package sheet

import (
	"reflect"
	"testing"
	"time"

	"github.com/dukerupert/chorewheel/internal/model"
)

func TestParseCandidates(t *testing.T) {
	rows := [][]string{
		{"Al", "al@example.com", "9:00", "", "10:00", "", "", "Trash, Dishes", "Trash"},
		{"", "", ""},
		{"", "nobody@example.com"},
		{"Bo"},
		{"Al", "again@example.com"},
	}

	got, errs := ParseCandidates(rows)

	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	al := got[0]
	if al.Email != "al@example.com" {
		t.Errorf("email = %q, want %q", al.Email, "al@example.com")
	}
	if al.Availability != [5]string{"9:00", "", "10:00", "", ""} {
		t.Errorf("availability = %v", al.Availability)
	}
	if !reflect.DeepEqual(al.AssignedChores, []string{"Trash", "Dishes"}) {
		t.Errorf("assigned = %v, want [Trash Dishes]", al.AssignedChores)
	}
	if !reflect.DeepEqual(al.RecentlyCompleted, []string{"Trash"}) {
		t.Errorf("recently completed = %v, want [Trash]", al.RecentlyCompleted)
	}
	if got[1].Name != "Bo" || got[1].Email != "" || got[1].AssignedChores != nil {
		t.Errorf("short row parsed as %+v", got[1])
	}

	if len(errs) != 2 {
		t.Fatalf("got %d row errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Row != 4 || !errs[0].Skipped {
		t.Errorf("nameless row error = %+v, want row 4 skipped", errs[0])
	}
	if errs[1].Row != 6 || errs[1].Name != "Al" {
		t.Errorf("duplicate row error = %+v, want row 6 for Al", errs[1])
	}
}

func TestParseChoresDefaults(t *testing.T) {
	rows := [][]string{
		{"Trash"},
		{"Dishes", "daily", "Al, Bo", "2026-10-12 08:30", "TRUE"},
		{"Floors", "Fortnightly", "", "someday", "maybe"},
		{"", "Weekly"},
	}

	got, errs := ParseChores(rows)
	if len(got) != 3 {
		t.Fatalf("got %d chores, want 3", len(got))
	}

	trash := got[0]
	if trash.Frequency != model.FrequencyWeekly {
		t.Errorf("blank frequency = %q, want Weekly", trash.Frequency)
	}
	if trash.AssignmentTime != nil || trash.Completed || trash.Assignees != nil {
		t.Errorf("blank cells parsed as %+v", trash)
	}

	dishes := got[1]
	if dishes.Frequency != model.FrequencyDaily {
		t.Errorf("frequency = %q, want Daily", dishes.Frequency)
	}
	if !reflect.DeepEqual(dishes.Assignees, []string{"Al", "Bo"}) {
		t.Errorf("assignees = %v", dishes.Assignees)
	}
	want := time.Date(2026, 10, 12, 8, 30, 0, 0, time.UTC)
	if dishes.AssignmentTime == nil || !dishes.AssignmentTime.Equal(want) {
		t.Errorf("assignment time = %v, want %v", dishes.AssignmentTime, want)
	}
	if !dishes.Completed {
		t.Error("expected completed")
	}

	floors := got[2]
	if floors.Frequency != "Fortnightly" {
		t.Errorf("invalid frequency should pass through, got %q", floors.Frequency)
	}
	if floors.AssignmentTime != nil {
		t.Error("unparseable time should be treated as never assigned")
	}

	if len(errs) != 3 {
		t.Fatalf("got %d row errors, want 3: %v", len(errs), errs)
	}
	for _, e := range errs[:2] {
		if e.Skipped || e.Row != 4 || e.Name != "Floors" {
			t.Errorf("correction error = %+v", e)
		}
	}
	if !errs[2].Skipped || errs[2].Row != 5 {
		t.Errorf("nameless chore error = %+v", errs[2])
	}
}

func TestRowRoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 19, 9, 15, 0, 0, time.UTC)
	candidates := []model.Candidate{
		{Name: "Al", Email: "al@example.com", Availability: [5]string{"9", "", "", "", "5"}, AssignedChores: []string{"Trash"}, RecentlyCompleted: []string{"Trash", "Dishes"}},
		{Name: "Bo"},
	}
	chores := []model.Chore{
		{Name: "Trash", Frequency: model.FrequencyBiweekly, Assignees: []string{"Bo", "Al"}, AssignmentTime: &ts, Completed: true},
		{Name: "Dishes", Frequency: model.FrequencyMonthly},
	}

	gotCandidates, errs := ParseCandidates(CandidateRows(candidates))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(gotCandidates, candidates) {
		t.Errorf("candidates round trip:\n got %+v\nwant %+v", gotCandidates, candidates)
	}

	gotChores, errs := ParseChores(ChoreRows(chores))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(gotChores) != 2 || !gotChores[0].AssignmentTime.Equal(ts) {
		t.Fatalf("chores round trip: %+v", gotChores)
	}
	gotChores[0].AssignmentTime = &ts
	if !reflect.DeepEqual(gotChores, chores) {
		t.Errorf("chores round trip:\n got %+v\nwant %+v", gotChores, chores)
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"Trash", []string{"Trash"}},
		{"Trash,Dishes ,  Floors", []string{"Trash", "Dishes", "Floors"}},
		{`Wash\, dry, Trash`, []string{"Wash, dry", "Trash"}},
		{`C:\\tmp, x`, []string{`C:\tmp`, "x"}},
	}
	for _, tt := range tests {
		if got := SplitNames(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitNames(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJoinNamesEscapesCommas(t *testing.T) {
	names := []string{"Wash, dry", `back\slash`, "Trash"}

	cell := JoinNames(names)
	if want := `Wash\, dry, back\\slash, Trash`; cell != want {
		t.Errorf("JoinNames = %q, want %q", cell, want)
	}
	if got := SplitNames(cell); !reflect.DeepEqual(got, names) {
		t.Errorf("SplitNames(JoinNames) = %v, want %v", got, names)
	}
}

func TestRowRoundTripNamesWithCommas(t *testing.T) {
	candidates := []model.Candidate{
		{Name: "Al", AssignedChores: []string{"Wash, dry"}, RecentlyCompleted: []string{"Wash, dry", "Trash"}},
	}
	chores := []model.Chore{
		{Name: "Wash, dry", Frequency: model.FrequencyWeekly, Assignees: []string{"Smith, Al", "Bo"}},
	}

	gotCandidates, errs := ParseCandidates(CandidateRows(candidates))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(gotCandidates, candidates) {
		t.Errorf("candidates round trip:\n got %+v\nwant %+v", gotCandidates, candidates)
	}

	gotChores, errs := ParseChores(ChoreRows(chores))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(gotChores, chores) {
		t.Errorf("chores round trip:\n got %+v\nwant %+v", gotChores, chores)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"TRUE", "true", "Yes", "1", "x"} {
		if b, err := ParseBool(s); err != nil || !b {
			t.Errorf("ParseBool(%q) = %v, %v", s, b, err)
		}
	}
	for _, s := range []string{"", "FALSE", "no", "0"} {
		if b, err := ParseBool(s); err != nil || b {
			t.Errorf("ParseBool(%q) = %v, %v", s, b, err)
		}
	}
	if _, err := ParseBool("later"); err == nil {
		t.Error("expected error for unrecognized status")
	}
}

func TestRowErrorMessage(t *testing.T) {
	e := &RowError{Tab: TabChores, Row: 7, Name: "Trash", Reason: "duplicate of row 3"}
	if got := e.Error(); got != "Chores row 7 (Trash): duplicate of row 3" {
		t.Errorf("Error() = %q", got)
	}
}
