package recurrence

import "time"

// Occurrence is one concrete instance of an event within a query window.
// Date is the occurrence day at UTC midnight; From and To carry the series'
// original time of day and duration.
type Occurrence struct {
	Date time.Time
	From time.Time
	To   time.Time
}

// Expand materializes the occurrences of a series inside the inclusive date
// window [windowStart, windowEnd]. A nil rule means a single occurrence: it is
// emitted iff the start date falls in the window. A rule that fails validation
// is treated the same way, so a malformed persisted rule can never loop.
//
// Candidate dates are stepped from the series start by the rule's cadence and
// generation stops as soon as a candidate passes the window end, the rule's
// end date, or its end count, so the cost is proportional to the window, not
// to the age of the series.
func Expand(rule *Rule, start time.Time, duration time.Duration, windowStart, windowEnd time.Time) []Occurrence {
	windowStart = DateOf(windowStart)
	windowEnd = DateOf(windowEnd)

	if rule == nil || rule.Validate() != nil {
		date := DateOf(start)
		if date.Before(windowStart) || date.After(windowEnd) {
			return nil
		}
		return []Occurrence{makeOccurrence(date, start, duration)}
	}

	var endDate *time.Time
	if rule.EndDate != nil {
		d := DateOf(*rule.EndDate)
		endDate = &d
	}

	var res []Occurrence
	for i := 0; ; i++ {
		date := step(rule, DateOf(start), i)

		if date.After(windowEnd) {
			break
		}
		if endDate != nil && date.After(*endDate) {
			break
		}
		if rule.EndCount > 0 && i >= rule.EndCount {
			break
		}

		if date.Before(windowStart) {
			continue
		}

		res = append(res, makeOccurrence(date, start, duration))
	}

	return res
}

// step returns the date of the n-th occurrence (0-based). Month and year
// steps are computed from the series anchor every time, so a clamped date
// (Jan 31 -> Feb 28) never shifts the day the following months land on.
func step(rule *Rule, anchor time.Time, n int) time.Time {
	switch rule.Type {
	case RuleTypeDaily:
		return anchor.AddDate(0, 0, n*rule.Interval)
	case RuleTypeWeekly:
		return anchor.AddDate(0, 0, 7*n*rule.Interval)
	case RuleTypeMonthly:
		return addMonthsClamped(anchor, n*rule.Interval)
	case RuleTypeYearly:
		return addMonthsClamped(anchor, 12*n*rule.Interval)
	}
	return anchor
}

// addMonthsClamped advances t by months, clamping a day of month that does
// not exist in the target month to its last day.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	m := int(month) - 1 + months
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	targetMonth := time.Month(m + 1)

	if last := daysInMonth(year, targetMonth); day > last {
		day = last
	}

	return time.Date(year, targetMonth, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOf truncates a timestamp to its date at UTC midnight. Exception and
// completion keys use this form.
func DateOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func makeOccurrence(date time.Time, seriesStart time.Time, duration time.Duration) Occurrence {
	start := seriesStart.UTC()
	from := date.Add(time.Duration(start.Hour())*time.Hour +
		time.Duration(start.Minute())*time.Minute +
		time.Duration(start.Second())*time.Second)

	return Occurrence{
		Date: date,
		From: from,
		To:   from.Add(duration),
	}
}
