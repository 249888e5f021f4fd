package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/swarmwatch/internal/api"
)

func formatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// formatRate renders bytes/sec. Negative rates follow a counter reset and
// are shown as such.
func formatRate(bps float64) string {
	switch {
	case math.IsNaN(bps) || math.IsInf(bps, 0):
		return "-"
	case bps < 0:
		return "-" + humanize.IBytes(rateBytes(-bps)) + "/s"
	default:
		return humanize.IBytes(rateBytes(bps)) + "/s"
	}
}

// rateBytes converts a finite, non-negative rate, saturating at the uint64
// range. float64(math.MaxUint64) rounds up to 2^64, hence >=.
func rateBytes(v float64) uint64 {
	if v >= float64(math.MaxUint64) {
		return math.MaxUint64
	}
	return uint64(v)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func formatSpeed(s *api.Speed) string {
	if s == nil {
		return "-"
	}
	if h := strings.TrimSpace(s.HumanReadable); h != "" {
		return h
	}
	return fmt.Sprintf("%.2f MiB/s", s.Mbps)
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd%02dh", int(d.Hours())/24, int(d.Hours())%24)
	}
}

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
