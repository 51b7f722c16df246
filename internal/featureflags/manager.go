// Package featureflags evaluates the FEATURE_FLAGS setting.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flags understood by the services. Both default to off.
const (
	// StrictOrderStatus limits order status writes to forward transitions.
	StrictOrderStatus = "strict_order_status"
	// CascadeSoftDelete removes a user's favorites when the account is soft-deleted.
	CascadeSoftDelete = "cascade_soft_delete"
)

var known = []string{StrictOrderStatus, CascadeSoftDelete}

// rule is one parsed flag value: fully on, fully off, or a percentage rollout.
type rule struct {
	raw     string
	percent int // 0..100
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "strict_order_status=on,cascade_soft_delete=25%"
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed pairs and unknown values are skipped.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[key] = r
		}
	}

	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{raw: value, percent: 100}, true
	case "off", "false", "0":
		return rule{raw: value, percent: 0}, true
	}
	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return rule{}, false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil {
		return rule{}, false
	}
	return rule{raw: value, percent: min(max(pct, 0), 100)}, true
}

// Enabled returns whether a flag is enabled for a given user. Partial rollouts
// are deterministic per user and never enabled for userID 0.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch {
	case r.percent <= 0:
		return false
	case r.percent >= 100:
		return true
	case userID == 0:
		return false
	}
	return rolloutBucket(name, userID) < r.percent
}

// Raw returns the configured value of every parsed flag.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot evaluates every configured and known flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules)+len(known))
	for _, name := range known {
		out[name] = m.Enabled(name, userID)
	}
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// String renders the snapshot for userID 0 in key order, for startup logs.
func (m *Manager) String() string {
	snap := m.Snapshot(0)
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%t", name, snap[name]))
	}
	return strings.Join(parts, ",")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
