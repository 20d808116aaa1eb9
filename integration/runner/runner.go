package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apu-inti/guardian/pkg/scene"
	"github.com/apu-inti/guardian/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes scripted playthroughs against a running API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration // Max wait for a scheduled scene change
	PollInterval      time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           SceneTimeout,
		PollInterval:      PollInterval,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// Healthy reports whether the API answers its health check.
func (r *Runner) Healthy() bool {
	resp, err := r.Client.Get(r.BaseURL + "/health")
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite on a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	gameID, err := r.createGame(ctx, suite.Language)
	if err != nil {
		result.Error = fmt.Errorf("failed to create game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.GameID = gameID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(ctx, gameID, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) createGame(ctx context.Context, language string) (uuid.UUID, error) {
	body, err := json.Marshal(map[string]string{"language": language})
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to marshal create request: %w", err)
	}

	status, respBody, err := r.do(ctx, http.MethodPost, r.BaseURL+"/v1/games", body)
	if err != nil {
		return uuid.UUID{}, err
	}
	if status != http.StatusCreated {
		return uuid.UUID{}, fmt.Errorf("create game returned %d: %s", status, string(respBody))
	}

	var gs state.GameState
	if err := json.Unmarshal(respBody, &gs); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to decode created game: %w", err)
	}
	return gs.ID, nil
}

func (r *Runner) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute %s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// executeStep sends the step's request, waits for a scene change when
// asked to, and checks expectations against the last response and the
// stored session.
func (r *Runner) executeStep(ctx context.Context, gameID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}
	fail := func(err error) TestResult {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	method := step.Method
	if method == "" {
		method = http.MethodPost
	}
	url := fmt.Sprintf("%s/v1/games/%s", r.BaseURL, gameID)
	if step.Action != "" {
		url += "/" + strings.TrimPrefix(step.Action, "/")
	}
	body := []byte(step.Body)
	if method == http.MethodPost && len(body) == 0 {
		body = []byte("{}")
	}

	var (
		status   int
		respBody []byte
	)
	for range max(step.Repeat, 1) {
		var err error
		status, respBody, err = r.do(ctx, method, url, body)
		if err != nil {
			return fail(err)
		}
	}
	result.ResponseText = string(respBody)

	wantStatus := http.StatusOK
	if step.Expectations.Status != nil {
		wantStatus = *step.Expectations.Status
	}
	if status != wantStatus {
		return fail(fmt.Errorf("expected status %d, got %d: %s", wantStatus, status, string(respBody)))
	}

	var gs *state.GameState
	if step.WaitForScene != "" {
		var err error
		gs, err = PollForScene(ctx, r.Client, r.BaseURL, gameID, step.WaitForScene, r.PollInterval, r.Timeout)
		if err != nil {
			return fail(err)
		}
	}

	if err := r.checkExpectations(ctx, gameID, step.Expectations, gs, string(respBody)); err != nil {
		return fail(err)
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// checkExpectations validates the expectations. gs is fetched when a
// state expectation needs it and nil was passed.
func (r *Runner) checkExpectations(ctx context.Context, gameID uuid.UUID, exp Expectations, gs *state.GameState, response string) error {
	var errors []string

	for _, s := range exp.BodyContains {
		if !strings.Contains(response, s) {
			errors = append(errors, fmt.Sprintf("response does not contain %q", s))
		}
	}
	for _, s := range exp.BodyNotContains {
		if strings.Contains(response, s) {
			errors = append(errors, fmt.Sprintf("response should not contain %q", s))
		}
	}

	if exp.Scene != nil || exp.Language != nil || len(exp.Completed) > 0 {
		if gs == nil {
			var err error
			gs, err = GetGameState(ctx, r.Client, r.BaseURL, gameID)
			if err != nil {
				return err
			}
		}
		if exp.Scene != nil && string(gs.Scene) != *exp.Scene {
			errors = append(errors, fmt.Sprintf("expected scene %q, got %q", *exp.Scene, gs.Scene))
		}
		if exp.Language != nil && gs.Language != *exp.Language {
			errors = append(errors, fmt.Sprintf("expected language %q, got %q", *exp.Language, gs.Language))
		}
		for _, m := range exp.Completed {
			if !gs.IsCompleted(scene.Mission(m)) {
				errors = append(errors, fmt.Sprintf("expected mission %q to be completed", m))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("expectations failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}
