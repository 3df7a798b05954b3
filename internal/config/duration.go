package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses Go duration strings plus day ("d") and week ("w") units,
// e.g. "30s", "2m", "1d12h". An empty or "0" value means no timeout.
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	if !strings.ContainsAny(raw, "dw") {
		return time.ParseDuration(raw)
	}

	sign := ""
	s := raw
	if s[0] == '+' || s[0] == '-' {
		sign, s = s[:1], s[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for s != "" {
		i := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
		if i <= 0 {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		num, rest := s[:i], s[i:]
		j := strings.IndexFunc(rest, func(r rune) bool { return (r >= '0' && r <= '9') || r == '.' })
		if j < 0 {
			j = len(rest)
		}
		unit := rest[:j]
		s = rest[j:]

		var hoursPerUnit float64
		switch unit {
		case "d":
			hoursPerUnit = 24
		case "w":
			hoursPerUnit = 7 * 24
		default:
			b.WriteString(num)
			b.WriteString(unit)
			continue
		}
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		b.WriteString(strconv.FormatFloat(n*hoursPerUnit, 'f', -1, 64))
		b.WriteByte('h')
	}

	d, err := time.ParseDuration(b.String())
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}
