package session

import (
	"testing"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/SAP-F-2025/coding-assessment/internal/languages"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id uint, title string, cases int) models.CodingQuestion {
	q := models.CodingQuestion{ID: id, Title: title, Difficulty: models.DifficultyEasy}
	for i := 0; i < cases; i++ {
		q.TestCases = append(q.TestCases, models.TestCase{Input: "in", Output: "out", IsHidden: i == cases-1 && cases > 1})
	}
	return q
}

func assessment(duration string, questions ...models.CodingQuestion) models.Assessment {
	a := models.Assessment{ID: 42, Name: "Backend", TimeDuration: duration, IsActive: true}
	for _, q := range questions {
		a.Questions = append(a.Questions, q.ID)
	}
	a.SyncQuestionCount()
	return a
}

var ada = Candidate{Name: "Ada", Email: "ada@example.com"}

// mustApply fails the test on a transition error.
func mustApply(t *testing.T, s State, ev Event) (State, []Effect) {
	t.Helper()
	next, effects, err := Apply(s, ev)
	require.NoError(t, err)
	return next, effects
}

func startedState(t *testing.T, duration string, questions ...models.CodingQuestion) State {
	t.Helper()
	s := NewState("sess-1", "iv-1", 42, ada)
	s, effects := mustApply(t, s, Loaded{
		Assessment: assessment(duration, questions...),
		Questions:  questions,
		Language:   languages.Python,
	})
	require.Equal(t, PhaseInProgress, s.Phase)
	require.Equal(t, []Effect{Started{}}, effects)
	return s
}

func TestApply_LoadedSeedsSession(t *testing.T) {
	q1, q2 := question(1, "Sum", 2), question(2, "Reverse", 3)
	s := NewState("sess-1", "iv-1", 42, Candidate{})

	s, effects := mustApply(t, s, Loaded{
		Assessment: assessment("1", q1, q2),
		Questions:  []models.CodingQuestion{q1, q2},
		Unresolved: []uint{3},
		Language:   languages.JavaScript,
	})

	assert.Empty(t, effects)
	assert.Equal(t, PhaseAwaitingCandidate, s.Phase)
	assert.Equal(t, 60, s.TimeRemaining)
	assert.Equal(t, []uint{3}, s.Unresolved)
	require.Len(t, s.Responses, 2)
	assert.Equal(t, languages.StarterCode(languages.JavaScript), s.Responses[0].Code)
	assert.Equal(t, "", s.Responses[1].Code, "later questions get starter code on first visit")
	assert.Equal(t, 2, s.Responses[0].Result.TotalTestCases)
	assert.Equal(t, 3, s.Responses[1].Result.TotalTestCases)
	assert.Equal(t, s.Responses[0].Code, s.CurrentCode)
}

func TestApply_LoadedDefaults(t *testing.T) {
	q := question(1, "Sum", 1)
	s := NewState("sess-1", "iv-1", 42, ada)

	s, _ = mustApply(t, s, Loaded{Assessment: assessment("soon", q), Questions: []models.CodingQuestion{q}})

	assert.Equal(t, 60*60, s.TimeRemaining)
	assert.Equal(t, languages.JavaScript, s.CurrentLanguage)
	assert.Equal(t, "01:00:00", FormatTime(s.TimeRemaining))
}

func TestApply_LoadedWithoutQuestionsIsUnavailable(t *testing.T) {
	s := NewState("sess-1", "iv-1", 42, ada)

	s, effects := mustApply(t, s, Loaded{Assessment: assessment("30"), Unresolved: []uint{7, 8}})

	assert.Empty(t, effects)
	assert.Equal(t, PhaseUnavailable, s.Phase)
	assert.Equal(t, []uint{7, 8}, s.Unresolved)

	_, _, err := Apply(s, SubmitRequested{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestApply_LoadFailed(t *testing.T) {
	s := NewState("sess-1", "iv-1", 0, ada)

	s, _ = mustApply(t, s, LoadFailed{Reason: "assessment not found"})

	assert.Equal(t, PhaseUnavailable, s.Phase)
	assert.Equal(t, "assessment not found", s.UnavailableReason)

	_, _, err := Apply(s, LoadFailed{Reason: "again"})
	assert.ErrorIs(t, err, ErrNotLoading)
}

func TestApply_CandidateCapture(t *testing.T) {
	q := question(1, "Sum", 1)
	s := NewState("sess-1", "iv-1", 42, Candidate{})
	s, _ = mustApply(t, s, Loaded{Assessment: assessment("10", q), Questions: []models.CodingQuestion{q}})

	_, _, err := Apply(s, CandidateSubmitted{Name: "  ", Email: "x@y.z"})
	assert.ErrorIs(t, err, ErrCandidateRequired)

	_, _, err = Apply(s, Ticked{})
	require.NoError(t, err)

	s, effects := mustApply(t, s, CandidateSubmitted{Name: " Ada ", Email: "ada@example.com"})
	assert.Equal(t, PhaseInProgress, s.Phase)
	assert.Equal(t, "Ada", s.Candidate.Name)
	assert.Equal(t, []Effect{Started{}}, effects)

	_, _, err = Apply(s, CandidateSubmitted{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrNotAwaitingInfo)
}

func TestApply_TicksIgnoredBeforeStart(t *testing.T) {
	q := question(1, "Sum", 1)
	s := NewState("sess-1", "iv-1", 42, Candidate{})
	s, _ = mustApply(t, s, Loaded{Assessment: assessment("1", q), Questions: []models.CodingQuestion{q}})

	next, effects := mustApply(t, s, Ticked{})

	assert.Equal(t, s.TimeRemaining, next.TimeRemaining)
	assert.Empty(t, effects)
}

func TestApply_LanguageSwitchDropsCode(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1))
	s, _ = mustApply(t, s, CodeEdited{Code: "print(int(input()) * 2)"})

	s, _ = mustApply(t, s, LanguageChanged{Language: languages.JavaScript})
	assert.Equal(t, languages.StarterCode(languages.JavaScript), s.CurrentCode)
	assert.Equal(t, languages.JavaScript, s.Responses[0].Language)

	s, _ = mustApply(t, s, LanguageChanged{Language: languages.Python})
	assert.Equal(t, languages.StarterCode(languages.Python), s.CurrentCode)
	assert.Equal(t, languages.StarterCode(languages.Python), s.Responses[0].Code)
	assert.NotContains(t, s.Responses[0].Code, "int(input())")
}

func TestApply_LanguageSwitchToSameLanguageKeepsCode(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1))
	s, _ = mustApply(t, s, CodeEdited{Code: "print(1)"})

	s, _ = mustApply(t, s, LanguageChanged{Language: languages.Python})

	assert.Equal(t, "print(1)", s.CurrentCode)
}

func TestApply_UnsupportedLanguage(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1))

	next, effects, err := Apply(s, LanguageChanged{Language: "cobol"})

	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestApply_CodeEditBeforeLoadIsNoop(t *testing.T) {
	s := NewState("sess-1", "iv-1", 42, ada)

	next, effects, err := Apply(s, CodeEdited{Code: "x"})

	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestApply_NavigateStaysInBounds(t *testing.T) {
	s := startedState(t, "30", question(1, "A", 1), question(2, "B", 1), question(3, "C", 1))
	deltas := []int{-1, -1, 1, 1, 1, 1, 1, -1, 1, -1, -1, -1, -1, 1}

	for _, d := range deltas {
		s, _ = mustApply(t, s, Navigated{Delta: d})
		require.GreaterOrEqual(t, s.CurrentIndex, 0)
		require.Less(t, s.CurrentIndex, len(s.Questions))
	}
}

func TestApply_NavigateAtBoundaryIsNoop(t *testing.T) {
	s := startedState(t, "30", question(1, "A", 1), question(2, "B", 1))

	next, _ := mustApply(t, s, Navigated{Delta: -1})
	assert.Equal(t, s, next)

	s, _ = mustApply(t, s, Navigated{Delta: 1})
	next, _ = mustApply(t, s, Navigated{Delta: 1})
	assert.Equal(t, s, next)
}

func TestApply_NavigateSavesAndRestoresCode(t *testing.T) {
	s := startedState(t, "30", question(1, "A", 1), question(2, "B", 1))
	s, _ = mustApply(t, s, CodeEdited{Code: "first"})

	s, _ = mustApply(t, s, Navigated{Delta: 1})
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, "first", s.Responses[0].Code)
	assert.Equal(t, languages.StarterCode(languages.Python), s.CurrentCode)
	assert.Equal(t, s.CurrentCode, s.Responses[1].Code)

	s, _ = mustApply(t, s, LanguageChanged{Language: languages.Go})
	s, _ = mustApply(t, s, CodeEdited{Code: "package main"})
	s, _ = mustApply(t, s, Navigated{Delta: -1})

	assert.Equal(t, "first", s.CurrentCode)
	assert.Equal(t, languages.Python, s.CurrentLanguage, "language follows the question's stored code")

	s, _ = mustApply(t, s, Navigated{Delta: 1})
	assert.Equal(t, "package main", s.CurrentCode)
	assert.Equal(t, languages.Go, s.CurrentLanguage)
}

func TestApply_RunRequested(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 3))

	next, effects := mustApply(t, s, RunRequested{})

	require.Len(t, effects, 1)
	run := effects[0].(RunTests)
	assert.Equal(t, 1, run.RunID)
	assert.Equal(t, 0, run.QuestionIndex)
	assert.Equal(t, 71, run.LanguageID)
	assert.Equal(t, next.CurrentCode, run.Code)
	assert.Len(t, run.TestCases, 3, "hidden cases run too")

	idx := 1
	_, effects = mustApply(t, next, RunRequested{TestIndex: &idx})
	require.Len(t, effects, 1)
	assert.Len(t, effects[0].(RunTests).TestCases, 1)
	assert.False(t, effects[0].(RunTests).TestCases[0].IsHidden)
}

func TestApply_RunRequestedIndexesVisibleCases(t *testing.T) {
	q := question(1, "Sum", 0)
	q.TestCases = []models.TestCase{
		{Input: "secret", Output: "x", IsHidden: true},
		{Input: "1", Output: "1"},
		{Input: "2", Output: "2"},
	}
	s := startedState(t, "30", q)

	idx := 0
	_, effects := mustApply(t, s, RunRequested{TestIndex: &idx})
	require.Len(t, effects, 1)
	assert.Equal(t, "1", effects[0].(RunTests).TestCases[0].Input)

	idx = 1
	_, effects = mustApply(t, s, RunRequested{TestIndex: &idx})
	assert.Equal(t, "2", effects[0].(RunTests).TestCases[0].Input)

	// only two cases are visible; the hidden one is not addressable
	idx = 2
	_, _, err := Apply(s, RunRequested{TestIndex: &idx})
	assert.ErrorIs(t, err, ErrTestIndexOutOfRange)
}

func TestApply_RunRequestedRejections(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 2))

	bad := 5
	_, _, err := Apply(s, RunRequested{TestIndex: &bad})
	assert.ErrorIs(t, err, ErrTestIndexOutOfRange)

	s, _ = mustApply(t, s, CodeEdited{Code: "   "})
	next, effects, err := Apply(s, RunRequested{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyCode)
	assert.Empty(t, effects)
	assert.Equal(t, s, next)
	assert.Equal(t, s.Responses[0].Result, next.Responses[0].Result)
}

func outcome(passed, total int, status string) *runner.Outcome {
	return &runner.Outcome{Status: status, PassedTestCases: passed, TotalTestCases: total}
}

func TestApply_RunFinishedScoresAgainstAllCases(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 4))
	idx := 0
	s, effects := mustApply(t, s, RunRequested{TestIndex: &idx})
	run := effects[0].(RunTests)

	s, _ = mustApply(t, s, RunFinished{RunID: run.RunID, QuestionIndex: 0, Outcome: outcome(1, 1, "Accepted")})

	result := s.CurrentResult()
	require.NotNil(t, result)
	assert.Equal(t, 1, result.PassedTestCases)
	assert.Equal(t, 4, result.TotalTestCases)
	assert.Equal(t, 25, result.Score)
	assert.Equal(t, "Accepted", result.Status)
}

func TestApply_RunFinishedDropsSupersededRun(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 2))
	s, first := mustApply(t, s, RunRequested{})
	s, second := mustApply(t, s, RunRequested{})

	s, _ = mustApply(t, s, RunFinished{RunID: second[0].(RunTests).RunID, QuestionIndex: 0, Outcome: outcome(2, 2, "Accepted")})
	s, _ = mustApply(t, s, RunFinished{RunID: first[0].(RunTests).RunID, QuestionIndex: 0, Outcome: outcome(0, 2, "Wrong Answer")})

	assert.Equal(t, 2, s.CurrentResult().PassedTestCases)
}

func TestApply_RunFinishedAfterCompletionIsDropped(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 2))
	s, effects := mustApply(t, s, RunRequested{})
	s, _ = mustApply(t, s, SubmitRequested{})

	next, _ := mustApply(t, s, RunFinished{RunID: effects[0].(RunTests).RunID, QuestionIndex: 0, Outcome: outcome(2, 2, "Accepted")})

	assert.Equal(t, s, next)
	assert.Equal(t, 0, next.Submission.Score)
}

func TestApply_RunFinishedWithErrorKeepsResult(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 2))
	s, effects := mustApply(t, s, RunRequested{})

	next, _ := mustApply(t, s, RunFinished{RunID: effects[0].(RunTests).RunID, Err: assert.AnError})

	assert.Equal(t, s.Responses, next.Responses)
}

func TestApply_TimerExpiryBuildsOneSubmission(t *testing.T) {
	s := startedState(t, "1", question(1, "Sum", 1))
	T := s.TimeRemaining
	persists := 0

	for i := 0; i < T+1; i++ {
		var effects []Effect
		s, effects = mustApply(t, s, Ticked{})
		for _, eff := range effects {
			if _, ok := eff.(Persist); ok {
				persists++
			}
		}
		if i < T-1 {
			require.Equal(t, PhaseInProgress, s.Phase)
			require.Equal(t, T-i-1, s.TimeRemaining)
		}
	}

	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.Equal(t, 0, s.TimeRemaining)
	assert.Equal(t, 1, persists)
	assert.Equal(t, StatusPending, s.SubmissionStatus)
}

func TestApply_ManualSubmitOnce(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1))

	s, effects := mustApply(t, s, SubmitRequested{})
	require.Len(t, effects, 1)

	_, effects, err := Apply(s, SubmitRequested{})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Empty(t, effects)

	_, _, err = Apply(s, CodeEdited{Code: "late"})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	_, _, err = Apply(s, Navigated{Delta: 1})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestApply_TwoQuestionScenario(t *testing.T) {
	s := startedState(t, "1", question(1, "Sum", 2), question(2, "Reverse", 2))

	s, effects := mustApply(t, s, RunRequested{})
	s, _ = mustApply(t, s, RunFinished{RunID: effects[0].(RunTests).RunID, QuestionIndex: 0, Outcome: outcome(2, 2, "Accepted")})
	s, _ = mustApply(t, s, Navigated{Delta: 1})
	s, effects = mustApply(t, s, RunRequested{})
	s, _ = mustApply(t, s, RunFinished{RunID: effects[0].(RunTests).RunID, QuestionIndex: 1, Outcome: outcome(1, 2, "Accepted")})
	s, effects = mustApply(t, s, SubmitRequested{})

	require.Len(t, effects, 1)
	record := effects[0].(Persist).Record
	assert.Equal(t, 75, record.Score)
	assert.Equal(t, 100, record.TotalScore)
	assert.True(t, record.IsCompleted)
	assert.Equal(t, "Sum", record.Responses[0].QuestionTitle)
	assert.Equal(t, "Reverse", record.Responses[1].QuestionTitle)
	assert.Equal(t, "iv-1", record.InterviewID)
	assert.Equal(t, "Ada", *record.Name)
	assert.Same(t, record, s.Submission)
}

func TestApply_UnvisitedQuestionsCountAgainstScore(t *testing.T) {
	s := startedState(t, "1", question(1, "Sum", 2), question(2, "Reverse", 2))
	s, effects := mustApply(t, s, RunRequested{})
	s, _ = mustApply(t, s, RunFinished{RunID: effects[0].(RunTests).RunID, QuestionIndex: 0, Outcome: outcome(2, 2, "Accepted")})

	_, effects = mustApply(t, s, SubmitRequested{})

	assert.Equal(t, 50, effects[0].(Persist).Record.Score)
}

func TestApply_VisibilityCountsTransitions(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1))
	s, _ = mustApply(t, s, Ticked{})

	s, effects := mustApply(t, s, VisibilityChanged{Hidden: true})
	require.Len(t, effects, 1)
	assert.Equal(t, TabSwitched{Count: 1, QuestionIndex: 0, TimeOffset: 1}, effects[0])

	s, effects = mustApply(t, s, VisibilityChanged{Hidden: true})
	assert.Empty(t, effects, "still hidden")
	s, _ = mustApply(t, s, VisibilityChanged{Hidden: false})
	s, _ = mustApply(t, s, VisibilityChanged{Hidden: true})
	assert.Equal(t, 2, s.TabSwitchCount)

	s, _ = mustApply(t, s, VisibilityChanged{Hidden: false})
	s, _ = mustApply(t, s, SubmitRequested{})
	assert.Equal(t, 2, s.Submission.TabSwitchCount)

	s, effects = mustApply(t, s, VisibilityChanged{Hidden: true})
	assert.Empty(t, effects)
	assert.Equal(t, 2, s.TabSwitchCount)
}

func TestApply_RetryAfterFailedSave(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1))

	_, _, err := Apply(s, RetryRequested{})
	assert.ErrorIs(t, err, ErrNothingToRetry)

	s, effects := mustApply(t, s, SubmitRequested{})
	record := effects[0].(Persist).Record
	s, _ = mustApply(t, s, SubmissionErrored{Err: assert.AnError})
	assert.Equal(t, StatusFailed, s.SubmissionStatus)
	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.NotEmpty(t, s.SubmissionError)

	s, effects = mustApply(t, s, RetryRequested{})
	require.Len(t, effects, 1)
	assert.Same(t, record, effects[0].(Persist).Record)
	assert.Equal(t, StatusPending, s.SubmissionStatus)

	saved := *record
	saved.ID = 9
	s, _ = mustApply(t, s, SubmissionSaved{Record: &saved})
	assert.Equal(t, StatusSaved, s.SubmissionStatus)
	assert.Equal(t, uint(9), s.Submission.ID)

	_, _, err = Apply(s, RetryRequested{})
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := startedState(t, "30", question(1, "Sum", 1), question(2, "B", 1))
	before := s.clone()

	_, _ = mustApply(t, s, CodeEdited{Code: "changed"})
	_, _ = mustApply(t, s, Navigated{Delta: 1})
	_, _ = mustApply(t, s, LanguageChanged{Language: languages.Rust})

	assert.Equal(t, before, s)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTime(0))
	assert.Equal(t, "00:01:05", FormatTime(65))
	assert.Equal(t, "01:30:00", FormatTime(5400))
	assert.Equal(t, "00:00:00", FormatTime(-3))
}
