// Package threatdetect runs rule-based detectors over batches of security
// events: brute force, impossible travel, privilege escalation, and data
// exfiltration volume.
package threatdetect

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/model"
)

// Event types understood by the detectors.
const (
	EventFailedLogin   = "failed_login"
	EventLogin         = "login"
	EventRoleChange    = "role_change"
	EventAdminApproval = "admin_approval"
	EventEgress        = "egress"
)

// Threat types.
const (
	ThreatBruteForce          = "brute_force"
	ThreatImpossibleTravel    = "impossible_travel"
	ThreatPrivilegeEscalation = "privilege_escalation"
	ThreatExfiltration        = "data_exfiltration"
)

const (
	bruteForceThreshold = 5
	bruteForceWindow    = 10 * time.Minute
	travelWindow        = time.Hour
	exfilThresholdBytes = int64(5) << 30 // 5 GiB
)

// Detection is one threat surfaced from an event batch, before persistence.
type Detection struct {
	Type     string
	Severity string
	SourceIP string
	User     string
	Detail   string
	Evidence json.RawMessage
}

// Analyze runs all detectors over the batch and returns the detections in a
// stable order.
func Analyze(events []model.SecurityEvent) []Detection {
	sorted := make([]model.SecurityEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	var detections []Detection
	detections = append(detections, detectBruteForce(sorted)...)
	detections = append(detections, detectImpossibleTravel(sorted)...)
	detections = append(detections, detectPrivilegeEscalation(sorted)...)
	detections = append(detections, detectExfiltration(sorted)...)
	return detections
}

func detectBruteForce(events []model.SecurityEvent) []Detection {
	bySource := make(map[string][]model.SecurityEvent)
	var sources []string
	for _, e := range events {
		if e.Type != EventFailedLogin || e.SourceIP == "" {
			continue
		}
		if _, seen := bySource[e.SourceIP]; !seen {
			sources = append(sources, e.SourceIP)
		}
		bySource[e.SourceIP] = append(bySource[e.SourceIP], e)
	}

	var detections []Detection
	for _, ip := range sources {
		attempts := bySource[ip]
		// Sliding window over the sorted attempts.
		for lo, hi := 0, 0; hi < len(attempts); hi++ {
			for attempts[hi].Timestamp.Sub(attempts[lo].Timestamp) > bruteForceWindow {
				lo++
			}
			if hi-lo+1 >= bruteForceThreshold {
				severity := model.SeverityHigh
				if hi-lo+1 >= 4*bruteForceThreshold {
					severity = model.SeverityCritical
				}
				detections = append(detections, Detection{
					Type:     ThreatBruteForce,
					Severity: severity,
					SourceIP: ip,
					User:     attempts[hi].User,
					Detail:   fmt.Sprintf("%d failed logins from %s within %s", hi-lo+1, ip, bruteForceWindow),
					Evidence: evidence(attempts[lo : hi+1]),
				})
				break
			}
		}
	}
	return detections
}

func detectImpossibleTravel(events []model.SecurityEvent) []Detection {
	byUser := make(map[string][]model.SecurityEvent)
	var users []string
	for _, e := range events {
		if e.Type != EventLogin || e.User == "" || e.SourceIP == "" {
			continue
		}
		if _, seen := byUser[e.User]; !seen {
			users = append(users, e.User)
		}
		byUser[e.User] = append(byUser[e.User], e)
	}

	var detections []Detection
	for _, user := range users {
		logins := byUser[user]
		for i := 1; i < len(logins); i++ {
			prev, cur := logins[i-1], logins[i]
			if cur.Timestamp.Sub(prev.Timestamp) > travelWindow {
				continue
			}
			a, b := countryFor(prev.SourceIP), countryFor(cur.SourceIP)
			if a == "" || b == "" || a == b {
				continue
			}
			detections = append(detections, Detection{
				Type:     ThreatImpossibleTravel,
				Severity: model.SeverityHigh,
				SourceIP: cur.SourceIP,
				User:     user,
				Detail:   fmt.Sprintf("user %s logged in from %s and %s within %s", user, a, b, travelWindow),
				Evidence: evidence([]model.SecurityEvent{prev, cur}),
			})
			break
		}
	}
	return detections
}

func detectPrivilegeEscalation(events []model.SecurityEvent) []Detection {
	approved := make(map[string]bool)
	var detections []Detection
	for _, e := range events {
		switch e.Type {
		case EventAdminApproval:
			if target := e.Metadata["target_user"]; target != "" {
				approved[target] = true
			}
		case EventRoleChange:
			if e.User == "" || approved[e.User] {
				continue
			}
			detections = append(detections, Detection{
				Type:     ThreatPrivilegeEscalation,
				Severity: model.SeverityCritical,
				SourceIP: e.SourceIP,
				User:     e.User,
				Detail:   fmt.Sprintf("role change for %s without admin approval", e.User),
				Evidence: evidence([]model.SecurityEvent{e}),
			})
		}
	}
	return detections
}

func detectExfiltration(events []model.SecurityEvent) []Detection {
	totals := make(map[string]int64)
	samples := make(map[string][]model.SecurityEvent)
	var sources []string
	for _, e := range events {
		if e.Type != EventEgress || e.SourceIP == "" {
			continue
		}
		bytes, err := strconv.ParseInt(e.Metadata["bytes"], 10, 64)
		if err != nil || bytes <= 0 {
			continue
		}
		if _, seen := totals[e.SourceIP]; !seen {
			sources = append(sources, e.SourceIP)
		}
		totals[e.SourceIP] += bytes
		samples[e.SourceIP] = append(samples[e.SourceIP], e)
	}

	var detections []Detection
	for _, ip := range sources {
		if totals[ip] < exfilThresholdBytes {
			continue
		}
		detections = append(detections, Detection{
			Type:     ThreatExfiltration,
			Severity: model.SeverityCritical,
			SourceIP: ip,
			User:     samples[ip][0].User,
			Detail:   fmt.Sprintf("%d bytes egressed from %s in one batch", totals[ip], ip),
			Evidence: evidence(samples[ip]),
		})
	}
	return detections
}

// countryFor resolves a source IP to a country code from a static prefix
// table. Unknown prefixes resolve to empty, which skips travel comparison.
var countryPrefixes = map[string]string{
	"198.51.100.": "US",
	"203.0.113.":  "AU",
	"192.0.2.":    "DE",
	"100.64.":     "US",
	"10.":         "US",
}

func countryFor(ip string) string {
	for prefix, country := range countryPrefixes {
		if strings.HasPrefix(ip, prefix) {
			return country
		}
	}
	return ""
}

func evidence(events []model.SecurityEvent) json.RawMessage {
	b, err := json.Marshal(events)
	if err != nil {
		return nil
	}
	return b
}
