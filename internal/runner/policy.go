package runner

// CaseResult is the classified outcome of one test case.
type CaseResult struct {
	Index         int
	Passed        bool
	Status        string
	Stdout        *string
	Stderr        *string
	CompileOutput *string
	Time          *string
	Memory        *string
	Err           error
}

// Outcome is the aggregate of one run.
type Outcome struct {
	Status          string  `json:"status"`
	Stdout          *string `json:"stdout"`
	Stderr          *string `json:"stderr"`
	CompileOutput   *string `json:"compile_output"`
	Time            *string `json:"time"`
	Memory          *string `json:"memory"`
	PassedTestCases int     `json:"passed_test_cases"`
	TotalTestCases  int     `json:"total_test_cases"`
}

// AggregationPolicy reduces per-case results, given in test case order, to
// one outcome.
type AggregationPolicy interface {
	Aggregate(results []CaseResult) Outcome
}

// FirstFailureWins reports the diagnostics of the earliest failing case only.
type FirstFailureWins struct{}

func (FirstFailureWins) Aggregate(results []CaseResult) Outcome {
	out := Outcome{
		Status:         StatusAccepted,
		TotalTestCases: len(results),
	}

	var firstFailure *CaseResult
	for i := range results {
		if results[i].Passed {
			out.PassedTestCases++
			continue
		}
		if firstFailure == nil {
			firstFailure = &results[i]
		}
	}

	if firstFailure != nil {
		out.Status = firstFailure.Status
		out.Stdout = firstFailure.Stdout
		out.Stderr = firstFailure.Stderr
		out.CompileOutput = firstFailure.CompileOutput
		out.Time = firstFailure.Time
		out.Memory = firstFailure.Memory
	}
	return out
}
