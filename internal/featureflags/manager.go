// Package featureflags evaluates rollout flags configured through the
// FEATURE_FLAGS environment variable.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type flagKind int

const (
	kindOff flagKind = iota
	kindOn
	kindPercent
)

type flag struct {
	kind    flagKind
	percent int
	raw     string
}

// Manager evaluates feature flags defined in a comma-separated key=value list,
// e.g. "live_events=on,new_composer=25%,open_signup=off".
type Manager struct {
	flags map[string]flag
}

// NewManager parses a comma-separated flag list. Malformed entries are skipped.
func NewManager(raw string) *Manager {
	flags := make(map[string]flag)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key = normalize(key)
		value = normalize(value)
		if key == "" || value == "" {
			continue
		}
		if f, ok := parseValue(value); ok {
			flags[key] = f
		}
	}

	return &Manager{flags: flags}
}

func parseValue(value string) (flag, bool) {
	switch value {
	case "on", "true", "1":
		return flag{kind: kindOn, raw: value}, true
	case "off", "false", "0":
		return flag{kind: kindOff, raw: value}, true
	}
	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return flag{}, false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct < 0 || pct > 100 {
		return flag{}, false
	}
	return flag{kind: kindPercent, percent: pct, raw: value}, true
}

// Enabled reports whether a flag is on for the given user. Percentage flags
// bucket deterministically per flag name and user ID; anonymous users
// (userID 0) never fall inside a partial rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	f, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}
	switch f.kind {
	case kindOn:
		return true
	case kindPercent:
		if f.percent >= 100 {
			return true
		}
		if f.percent <= 0 || userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < f.percent
	default:
		return false
	}
}

// Raw returns the configured flag values as parsed.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, f := range m.flags {
		out[name] = f.raw
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
