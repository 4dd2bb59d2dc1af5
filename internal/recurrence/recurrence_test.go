package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	end := date(2024, time.June, 1)

	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"daily", Rule{Type: RuleTypeDaily, Interval: 1}, false},
		{"weekly with count", Rule{Type: RuleTypeWeekly, Interval: 2, EndCount: 5}, false},
		{"monthly with end date", Rule{Type: RuleTypeMonthly, Interval: 1, EndDate: &end}, false},
		{"zero interval", Rule{Type: RuleTypeDaily, Interval: 0}, true},
		{"negative count", Rule{Type: RuleTypeDaily, Interval: 1, EndCount: -1}, true},
		{"both end conditions", Rule{Type: RuleTypeDaily, Interval: 1, EndDate: &end, EndCount: 3}, true},
		{"unknown type", Rule{Type: RuleType(42), Interval: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandSingleOccurrence(t *testing.T) {
	start := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)

	occs := Expand(nil, start, time.Hour, date(2024, time.March, 1), date(2024, time.March, 31))
	if len(occs) != 1 {
		t.Fatalf("occurrences in window = %d, want 1", len(occs))
	}
	if !occs[0].Date.Equal(date(2024, time.March, 10)) {
		t.Errorf("date = %v, want 2024-03-10", occs[0].Date)
	}
	if !occs[0].From.Equal(start) {
		t.Errorf("from = %v, want %v", occs[0].From, start)
	}
	if !occs[0].To.Equal(start.Add(time.Hour)) {
		t.Errorf("to = %v, want %v", occs[0].To, start.Add(time.Hour))
	}

	occs = Expand(nil, start, time.Hour, date(2024, time.April, 1), date(2024, time.April, 30))
	if len(occs) != 0 {
		t.Errorf("occurrences outside window = %d, want 0", len(occs))
	}
}

func TestExpandWeeklyJanuary(t *testing.T) {
	rule := &Rule{Type: RuleTypeWeekly, Interval: 1}
	start := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC) // Monday

	occs := Expand(rule, start, 30*time.Minute, date(2024, time.January, 1), date(2024, time.January, 31))

	want := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 8),
		date(2024, time.January, 15),
		date(2024, time.January, 22),
		date(2024, time.January, 29),
	}
	if len(occs) != len(want) {
		t.Fatalf("len = %d, want %d", len(occs), len(want))
	}
	for i, w := range want {
		if !occs[i].Date.Equal(w) {
			t.Errorf("occs[%d].Date = %v, want %v", i, occs[i].Date, w)
		}
		if occs[i].From.Hour() != 9 {
			t.Errorf("occs[%d].From hour = %d, want 9", i, occs[i].From.Hour())
		}
	}
}

func TestExpandEndCount(t *testing.T) {
	rule := &Rule{Type: RuleTypeDaily, Interval: 1, EndCount: 7}
	start := date(2024, time.January, 1)

	// Window far wider than the series; exactly EndCount occurrences remain.
	occs := Expand(rule, start, time.Hour, date(2023, time.January, 1), date(2030, time.January, 1))
	if len(occs) != 7 {
		t.Errorf("len = %d, want 7", len(occs))
	}
}

func TestExpandEndDate(t *testing.T) {
	end := date(2024, time.January, 15)
	rule := &Rule{Type: RuleTypeWeekly, Interval: 1, EndDate: &end}
	start := date(2024, time.January, 1)

	occs := Expand(rule, start, time.Hour, date(2024, time.January, 1), date(2024, time.December, 31))
	if len(occs) != 3 {
		t.Fatalf("len = %d, want 3 (Jan 1, 8, 15)", len(occs))
	}
	if !occs[2].Date.Equal(end) {
		t.Errorf("last = %v, want %v", occs[2].Date, end)
	}
}

func TestExpandMonthlyClamp(t *testing.T) {
	rule := &Rule{Type: RuleTypeMonthly, Interval: 1}

	// 2024 is a leap year: Jan 31 -> Feb 29.
	occs := Expand(rule, date(2024, time.January, 31), time.Hour, date(2024, time.February, 1), date(2024, time.February, 29))
	if len(occs) != 1 {
		t.Fatalf("len = %d, want 1", len(occs))
	}
	if !occs[0].Date.Equal(date(2024, time.February, 29)) {
		t.Errorf("date = %v, want 2024-02-29", occs[0].Date)
	}

	// 2023 is not: Jan 31 -> Feb 28.
	occs = Expand(rule, date(2023, time.January, 31), time.Hour, date(2023, time.February, 1), date(2023, time.February, 28))
	if len(occs) != 1 {
		t.Fatalf("len = %d, want 1", len(occs))
	}
	if !occs[0].Date.Equal(date(2023, time.February, 28)) {
		t.Errorf("date = %v, want 2023-02-28", occs[0].Date)
	}
}

func TestExpandClampKeepsAnchor(t *testing.T) {
	// After clamping to Feb 28, March must land back on the 31st.
	rule := &Rule{Type: RuleTypeMonthly, Interval: 1}
	occs := Expand(rule, date(2023, time.January, 31), time.Hour, date(2023, time.January, 1), date(2023, time.April, 30))

	want := []time.Time{
		date(2023, time.January, 31),
		date(2023, time.February, 28),
		date(2023, time.March, 31),
		date(2023, time.April, 30),
	}
	if len(occs) != len(want) {
		t.Fatalf("len = %d, want %d", len(occs), len(want))
	}
	for i, w := range want {
		if !occs[i].Date.Equal(w) {
			t.Errorf("occs[%d].Date = %v, want %v", i, occs[i].Date, w)
		}
	}
}

func TestExpandYearlyLeapDay(t *testing.T) {
	rule := &Rule{Type: RuleTypeYearly, Interval: 1}
	occs := Expand(rule, date(2024, time.February, 29), time.Hour, date(2025, time.January, 1), date(2025, time.December, 31))
	if len(occs) != 1 {
		t.Fatalf("len = %d, want 1", len(occs))
	}
	if !occs[0].Date.Equal(date(2025, time.February, 28)) {
		t.Errorf("date = %v, want 2025-02-28", occs[0].Date)
	}
}

func TestExpandInterval(t *testing.T) {
	rule := &Rule{Type: RuleTypeDaily, Interval: 3}
	occs := Expand(rule, date(2024, time.January, 1), time.Hour, date(2024, time.January, 1), date(2024, time.January, 10))

	want := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 4),
		date(2024, time.January, 7),
		date(2024, time.January, 10),
	}
	if len(occs) != len(want) {
		t.Fatalf("len = %d, want %d", len(occs), len(want))
	}
	for i, w := range want {
		if !occs[i].Date.Equal(w) {
			t.Errorf("occs[%d].Date = %v, want %v", i, occs[i].Date, w)
		}
	}
}

func TestExpandWindowStartsMidSeries(t *testing.T) {
	// Start far in the past; only the window's occurrences come back.
	rule := &Rule{Type: RuleTypeDaily, Interval: 1}
	occs := Expand(rule, date(2000, time.January, 1), time.Hour, date(2024, time.June, 1), date(2024, time.June, 3))
	if len(occs) != 3 {
		t.Errorf("len = %d, want 3", len(occs))
	}
}

func TestExpandMalformedRuleFailsClosed(t *testing.T) {
	end := date(2024, time.June, 1)
	rules := []*Rule{
		{Type: RuleTypeDaily, Interval: 0},
		{Type: RuleType(99), Interval: 1},
		{Type: RuleTypeDaily, Interval: 1, EndDate: &end, EndCount: 2},
	}

	for _, rule := range rules {
		occs := Expand(rule, date(2024, time.January, 1), time.Hour, date(2024, time.January, 1), date(2024, time.December, 31))
		if len(occs) != 1 {
			t.Errorf("rule %+v: len = %d, want 1 (single occurrence fallback)", rule, len(occs))
		}
	}
}

func TestExpandIdempotent(t *testing.T) {
	rule := &Rule{Type: RuleTypeWeekly, Interval: 2, EndCount: 10}
	start := time.Date(2024, time.January, 3, 18, 15, 0, 0, time.UTC)

	a := Expand(rule, start, 45*time.Minute, date(2024, time.January, 1), date(2024, time.June, 30))
	b := Expand(rule, start, 45*time.Minute, date(2024, time.January, 1), date(2024, time.June, 30))

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("occurrence %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
