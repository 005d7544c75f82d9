package finance

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	companyRe = regexp.MustCompile(`(?i)^Company:\s*(.+)$`)
	periodRe  = regexp.MustCompile(`(?i)^Period:\s*(.+)$`)

	// Apple Inc. - Q4 2023
	headerRe = regexp.MustCompile(`^(.+?)\s+[-–]\s+((?:Q[1-4]\s+)?(?:FY\s*)?\d{4}(?:\s+Q[1-4])?)$`)

	// Revenue: $391.0 billion
	metricRe = regexp.MustCompile(`(?i)^([A-Za-z][A-Za-z &/'()-]*?):\s*(\$)?\s*(-?[\d,]+(?:\.\d+)?)\s*(thousand|million|billion|trillion|[kKmMbB])?\s*$`)
)

var scales = map[string]float64{
	"thousand": 1e3,
	"k":        1e3,
	"million":  1e6,
	"m":        1e6,
	"billion":  1e9,
	"b":        1e9,
	"trillion": 1e12,
}

// ParseReport extracts a report from text. The company and period come from
// "Company:" and "Period:" lines or a "Company - Period" header line; every
// following "Name: $value scale" line becomes a line item with the scale word
// applied to the value.
func ParseReport(text string) (Report, error) {
	var rep Report

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := companyRe.FindStringSubmatch(line); m != nil {
			rep.Company = strings.TrimSpace(m[1])
			continue
		}
		if m := periodRe.FindStringSubmatch(line); m != nil {
			rep.Period = strings.TrimSpace(m[1])
			continue
		}
		if rep.Company == "" {
			if m := headerRe.FindStringSubmatch(line); m != nil {
				rep.Company = strings.TrimSpace(m[1])
				rep.Period = strings.TrimSpace(m[2])
				continue
			}
		}

		if m := metricRe.FindStringSubmatch(line); m != nil {
			value, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", ""), 64)
			if err != nil {
				continue
			}
			if scale, ok := scales[strings.ToLower(m[4])]; ok {
				value *= scale
			}
			rep.Items = append(rep.Items, LineItem{
				Name:  strings.TrimSpace(m[1]),
				Value: value,
				Unit:  m[2],
			})
		}
	}

	if rep.Company == "" || len(rep.Items) == 0 {
		return Report{}, ErrEmptyReport
	}
	return rep, nil
}

// normalizeMetric canonicalizes a metric name for lookup.
func normalizeMetric(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// periodKey orders periods chronologically: "Q4 2022" < "Q1 2023" < "2023".
// Periods with no quarter sort after all quarters of the same year.
func periodKey(period string) int {
	year, quarter := 0, 5
	for _, f := range strings.Fields(strings.ToUpper(period)) {
		f = strings.TrimPrefix(f, "FY")
		if f == "" {
			continue
		}
		if f[0] == 'Q' && len(f) == 2 {
			if q, err := strconv.Atoi(f[1:]); err == nil {
				quarter = q
			}
			continue
		}
		if y, err := strconv.Atoi(f); err == nil && y > 1000 {
			year = y
		}
	}
	return year*10 + quarter
}
