package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var dayPrefix = regexp.MustCompile(`^(\d+)d`)

// ParseAge parses a GC age: Go duration syntax extended with a "d" unit,
// or an integer number of seconds.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	in := s
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs > int64(time.Duration(1<<63-1)/time.Second) {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		return time.Duration(secs) * time.Second, nil
	}

	var total time.Duration
	if m := dayPrefix.FindStringSubmatch(s); m != nil {
		days, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || days > int64(time.Duration(1<<63-1)/day) {
			return 0, fmt.Errorf("duration %q out of range", s)
		}
		total = time.Duration(days) * day
		s = s[len(m[0]):]
		if s == "" {
			return total, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: use e.g. 30d, 12h or 90m", s)
	}
	if d > 0 && d > time.Duration(math.MaxInt64)-total {
		return 0, fmt.Errorf("duration %q out of range", in)
	}
	return total + d, nil
}

// FormatAge renders d the way ParseAge reads it, preferring whole days.
func FormatAge(d time.Duration) string {
	if d > 0 && d%day == 0 {
		return fmt.Sprintf("%dd", d/day)
	}
	return d.String()
}
