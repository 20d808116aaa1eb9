package runner

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name     string     `json:"name"`
	Language string     `json:"language,omitempty"` // Session language for regular tests
	Steps    []TestStep `json:"steps,omitempty"`    // Used for regular tests
	Cases    []string   `json:"cases,omitempty"`    // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one API call against the suite's session.
type TestStep struct {
	Name   string          `json:"name,omitempty"`
	Method string          `json:"method,omitempty"` // Defaults to POST
	Action string          `json:"action,omitempty"` // Path under /v1/games/{id}/; empty targets the session itself
	Body   json.RawMessage `json:"body,omitempty"`
	Repeat int             `json:"repeat,omitempty"` // Sends the same request this many times

	// WaitForScene polls the session after the request until the scene
	// is active. Used for scheduled scene changes.
	WaitForScene string `json:"wait_for_scene,omitempty"`

	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Status          *int     `json:"status,omitempty"` // HTTP status of the last request, 200 when unset
	Scene           *string  `json:"scene,omitempty"`
	Language        *string  `json:"language,omitempty"`
	Completed       []string `json:"completed,omitempty"` // Mission flags that must be set
	BodyContains    []string `json:"body_contains,omitempty"`
	BodyNotContains []string `json:"body_not_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName     string
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	GameID   uuid.UUID // ID of the session used for this test
}
