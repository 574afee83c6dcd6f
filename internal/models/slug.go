package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// SlugTopic is the fixed suffix appended to every digest slug.
const SlugTopic = "ai-daily-digest"

var slugDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// GenerateSlug builds the article identity string for a publication date:
// YYYY-MM-DD.HHmmTZ-ai-daily-digest. Minute granularity means two runs inside
// the same clock minute collide and the later one wins via upsert.
func GenerateSlug(date time.Time) string {
	return fmt.Sprintf("%s-%s", date.Format("2006-01-02.1504MST"), SlugTopic)
}

// ParseDateFromSlug recovers the calendar date encoded in a slug's leading
// YYYY-MM-DD prefix. The timezone suffix text after the time component is
// deliberately ignored; only the date matters to callers.
func ParseDateFromSlug(slug string) (time.Time, bool) {
	m := slugDateRe.FindStringSubmatch(slug)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
