package recurrence

import (
	"fmt"
	"time"
)

type RuleType int

const (
	RuleTypeDaily RuleType = iota
	RuleTypeWeekly
	RuleTypeMonthly
	RuleTypeYearly
)

var ruleTypeNames = map[RuleType]string{
	RuleTypeDaily:   "DAILY",
	RuleTypeWeekly:  "WEEKLY",
	RuleTypeMonthly: "MONTHLY",
	RuleTypeYearly:  "YEARLY",
}

var ruleTypeFromName = map[string]RuleType{
	"DAILY":   RuleTypeDaily,
	"WEEKLY":  RuleTypeWeekly,
	"MONTHLY": RuleTypeMonthly,
	"YEARLY":  RuleTypeYearly,
}

func (t RuleType) String() string {
	if name, ok := ruleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("RuleType(%d)", int(t))
}

func ParseRuleType(s string) (RuleType, error) {
	t, ok := ruleTypeFromName[s]
	if !ok {
		return 0, fmt.Errorf("unknown rule type: %q", s)
	}
	return t, nil
}

// Rule describes the cadence of a recurring event. A series either runs
// forever, until EndDate, or for EndCount occurrences (counting the first
// one); setting both end conditions is invalid.
type Rule struct {
	Type     RuleType
	Interval int
	EndDate  *time.Time
	EndCount int
}

func (r *Rule) Validate() error {
	if _, ok := ruleTypeNames[r.Type]; !ok {
		return fmt.Errorf("unknown rule type: %v", int(r.Type))
	}

	if r.Interval < 1 {
		return fmt.Errorf("interval must be at least 1, got %v", r.Interval)
	}

	if r.EndCount < 0 {
		return fmt.Errorf("end count must not be negative, got %v", r.EndCount)
	}

	if r.EndDate != nil && r.EndCount > 0 {
		return fmt.Errorf("end date and end count are mutually exclusive")
	}

	return nil
}
