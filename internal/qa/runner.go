package qa

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rutero-ai/rutero/internal/agent/core"
)

// Planner is the system under test. *core.Dispatcher satisfies it.
type Planner interface {
	Invoke(ctx context.Context, req core.Request) (core.Result, error)
}

// Result is one case's outcome.
type Result struct {
	Case          Case
	Passed        bool
	WorkersUsed   []string
	MissingWorker string
	ContentFound  int
	ExecutionTime time.Duration
	Err           error
}

// Summary aggregates a run.
type Summary struct {
	Results []Result
	Passed  int
	Failed  int
}

// Runner executes scenario cases against a planner and reports pass/fail.
type Runner struct {
	planner Planner
	out     io.Writer
}

func NewRunner(planner Planner, out io.Writer) *Runner {
	return &Runner{planner: planner, out: out}
}

// Run executes the given cases in order. A case passes when every expected
// worker appears among the workers used and at least 60% of the expected
// content keywords (minimum one) appear in the final answer.
func (r *Runner) Run(ctx context.Context, cases []Case) Summary {
	var sum Summary
	fmt.Fprintf(r.out, "Running %d scenario cases\n", len(cases))
	for i, c := range cases {
		fmt.Fprintf(r.out, "\n[%d/%d] %s: %s\n", i+1, len(cases), c.ID, c.Description)
		res := r.runCase(ctx, c)
		sum.Results = append(sum.Results, res)
		if res.Passed {
			sum.Passed++
			fmt.Fprintf(r.out, "  PASS (%.2fs, workers: %s)\n",
				res.ExecutionTime.Seconds(), strings.Join(res.WorkersUsed, ", "))
			continue
		}
		sum.Failed++
		switch {
		case res.Err != nil:
			fmt.Fprintf(r.out, "  FAIL: %v\n", res.Err)
		case res.MissingWorker != "":
			fmt.Fprintf(r.out, "  FAIL: expected worker %q was not used (used: %s)\n",
				res.MissingWorker, strings.Join(res.WorkersUsed, ", "))
		default:
			fmt.Fprintf(r.out, "  FAIL: only %d/%d expected keywords in answer\n",
				res.ContentFound, len(c.ExpectedContent))
		}
	}
	fmt.Fprintf(r.out, "\nSummary: %d/%d passed\n", sum.Passed, len(cases))
	return sum
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	res := Result{Case: c}
	start := time.Now()
	out, err := r.planner.Invoke(ctx, core.Request{Query: c.Query})
	res.ExecutionTime = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	res.WorkersUsed = out.WorkersUsed

	for _, expected := range c.ExpectedWorkers {
		if !workerUsed(out.WorkersUsed, expected) {
			res.MissingWorker = expected
			return res
		}
	}

	answer := strings.ToLower(out.Answer)
	for _, kw := range c.ExpectedContent {
		if strings.Contains(answer, strings.ToLower(kw)) {
			res.ContentFound++
		}
	}
	threshold := (len(c.ExpectedContent)*6 + 9) / 10
	if threshold < 1 {
		threshold = 1
	}
	res.Passed = res.ContentFound >= threshold
	return res
}

func workerUsed(used []string, expected string) bool {
	expected = strings.ToLower(expected)
	for _, u := range used {
		if strings.Contains(strings.ToLower(u), expected) {
			return true
		}
	}
	return false
}
