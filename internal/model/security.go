package model

import (
	"encoding/json"
	"time"
)

// Severities, ordered from most to least urgent.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Severities lists all valid severity values in rank order.
var Severities = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Scan statuses.
const (
	ScanRunning   = "running"
	ScanCompleted = "completed"
	ScanFailed    = "failed"
)

// Vulnerability statuses.
const (
	VulnOpen          = "open"
	VulnAcknowledged  = "acknowledged"
	VulnInProgress    = "in_progress"
	VulnResolved      = "resolved"
	VulnFalsePositive = "false_positive"
)

// Threat statuses.
const (
	ThreatActive   = "active"
	ThreatResolved = "resolved"
)

// Scan is one vulnerability scan run against a target.
type Scan struct {
	ID          string         `json:"id" db:"id"`
	Target      string         `json:"target" db:"target"`
	ScanType    string         `json:"scan_type" db:"scan_type"`
	Status      string         `json:"status" db:"status"`
	Findings    int            `json:"findings" db:"findings"`
	BySeverity  map[string]int `json:"by_severity" db:"by_severity"`
	StartedAt   time.Time      `json:"started_at" db:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

// Vulnerability is a single finding produced by a scan.
type Vulnerability struct {
	ID          string     `json:"id" db:"id"`
	ScanID      string     `json:"scan_id" db:"scan_id"`
	RuleID      string     `json:"rule_id" db:"rule_id"`
	Title       string     `json:"title" db:"title"`
	Severity    string     `json:"severity" db:"severity"`
	Category    string     `json:"category" db:"category"`
	Description string     `json:"description" db:"description"`
	Remediation string     `json:"remediation" db:"remediation"`
	Target      string     `json:"target" db:"target"`
	Status      string     `json:"status" db:"status"`
	Resolution  *string    `json:"resolution,omitempty" db:"resolution"`
	DetectedAt  time.Time  `json:"detected_at" db:"detected_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ComplianceReport is the stored result of one compliance check.
type ComplianceReport struct {
	ID        string          `json:"id" db:"id"`
	Standard  string          `json:"standard" db:"standard"`
	Target    string          `json:"target" db:"target"`
	Passed    int             `json:"passed" db:"passed"`
	Failed    int             `json:"failed" db:"failed"`
	Score     float64         `json:"score" db:"score"`
	Controls  json.RawMessage `json:"controls" db:"controls"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ControlResult is one evaluated control inside a compliance report.
type ControlResult struct {
	ControlID   string `json:"control_id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Passed      bool   `json:"passed"`
	Detail      string `json:"detail,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// Threat is a detected security threat.
type Threat struct {
	ID         string          `json:"id" db:"id"`
	Type       string          `json:"type" db:"type"`
	Severity   string          `json:"severity" db:"severity"`
	Status     string          `json:"status" db:"status"`
	Source     string          `json:"source" db:"source"`
	SourceIP   string          `json:"source_ip,omitempty" db:"source_ip"`
	User       string          `json:"user,omitempty" db:"user_name"`
	Detail     string          `json:"detail" db:"detail"`
	Evidence   json.RawMessage `json:"evidence,omitempty" db:"evidence"`
	Resolution *string         `json:"resolution,omitempty" db:"resolution"`
	DetectedAt time.Time       `json:"detected_at" db:"detected_at"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
}

// SecurityEvent is one raw event submitted to threat detection.
type SecurityEvent struct {
	Type      string            `json:"type"`
	SourceIP  string            `json:"sourceIP"`
	User      string            `json:"user"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
