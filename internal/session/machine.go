package session

import (
	"errors"
	"strings"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/SAP-F-2025/coding-assessment/internal/languages"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/scoring"
)

var (
	ErrNotLoading          = errors.New("session is not loading")
	ErrNotInProgress       = errors.New("session is not in progress")
	ErrNotAwaitingInfo     = errors.New("candidate details were already captured")
	ErrAlreadySubmitted    = errors.New("assessment has already been submitted")
	ErrUnavailable         = errors.New("assessment is unavailable")
	ErrCandidateRequired   = errors.New("please enter your name and email")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrTestIndexOutOfRange = errors.New("test case index out of range")
	ErrNothingToRetry      = errors.New("there is no failed submission to retry")
	ErrUnknownEvent        = errors.New("unknown session event")
)

// Apply is the transition function. It never mutates s. On error the returned
// state is s unchanged and no effects are requested.
func Apply(s State, ev Event) (State, []Effect, error) {
	switch e := ev.(type) {
	case Loaded:
		return applyLoaded(s, e)
	case LoadFailed:
		if s.Phase != PhaseLoading {
			return s, nil, ErrNotLoading
		}
		next := s.clone()
		next.Phase = PhaseUnavailable
		next.UnavailableReason = e.Reason
		return next, nil, nil
	case CandidateSubmitted:
		return applyCandidate(s, e)
	case LanguageChanged:
		return applyLanguage(s, e)
	case CodeEdited:
		return applyCodeEdit(s, e)
	case Navigated:
		return applyNavigate(s, e)
	case RunRequested:
		return applyRunRequested(s, e)
	case RunFinished:
		return applyRunFinished(s, e), nil, nil
	case Ticked:
		return applyTick(s)
	case SubmitRequested:
		if err := requireInProgress(s); err != nil {
			return s, nil, err
		}
		return submit(s)
	case SubmissionSaved:
		next := s.clone()
		next.Submission = e.Record
		next.SubmissionStatus = StatusSaved
		next.SubmissionError = ""
		return next, nil, nil
	case SubmissionErrored:
		next := s.clone()
		next.SubmissionStatus = StatusFailed
		if e.Err != nil {
			next.SubmissionError = e.Err.Error()
		}
		return next, nil, nil
	case RetryRequested:
		if s.Phase != PhaseCompleted || s.SubmissionStatus != StatusFailed || s.Submission == nil {
			return s, nil, ErrNothingToRetry
		}
		next := s.clone()
		next.SubmissionStatus = StatusPending
		next.SubmissionError = ""
		return next, []Effect{Persist{Record: next.Submission}}, nil
	case VisibilityChanged:
		return applyVisibility(s, e)
	}
	return s, nil, ErrUnknownEvent
}

func requireInProgress(s State) error {
	switch s.Phase {
	case PhaseInProgress:
		return nil
	case PhaseCompleted:
		return ErrAlreadySubmitted
	case PhaseUnavailable:
		return ErrUnavailable
	}
	return ErrNotInProgress
}

func applyLoaded(s State, e Loaded) (State, []Effect, error) {
	if s.Phase != PhaseLoading {
		return s, nil, ErrNotLoading
	}
	next := s.clone()
	next.AssessmentID = e.Assessment.ID
	next.Questions = append([]models.CodingQuestion(nil), e.Questions...)
	next.Unresolved = append([]uint(nil), e.Unresolved...)

	if len(next.Questions) == 0 {
		next.Phase = PhaseUnavailable
		next.UnavailableReason = "assessment has no questions"
		return next, nil, nil
	}

	lang := e.Language
	if !languages.IsSupported(lang) {
		lang = languages.Default().Value
	}
	next.CurrentLanguage = lang
	next.DurationSeconds = e.Assessment.DurationMinutes() * 60
	next.TimeRemaining = next.DurationSeconds

	next.Responses = make([]models.QuestionResponse, len(next.Questions))
	for i, q := range next.Questions {
		next.Responses[i] = models.QuestionResponse{
			QuestionID: q.ID,
			Language:   lang,
			Result:     models.QuestionResult{TotalTestCases: len(q.TestCases)},
		}
	}
	next.latestRun = make([]int, len(next.Questions))

	// Only the first question gets starter code now; others on first visit.
	next.CurrentIndex = 0
	next.CurrentCode = languages.StarterCode(lang)
	next.Responses[0].Code = next.CurrentCode

	if next.Candidate.Complete() {
		next.Phase = PhaseInProgress
		return next, []Effect{Started{}}, nil
	}
	next.Phase = PhaseAwaitingCandidate
	return next, nil, nil
}

func applyCandidate(s State, e CandidateSubmitted) (State, []Effect, error) {
	if s.Phase != PhaseAwaitingCandidate {
		if s.Phase == PhaseInProgress {
			return s, nil, ErrNotAwaitingInfo
		}
		return s, nil, requireInProgress(s)
	}
	// Details captured earlier in the interview flow win.
	candidate := s.Candidate
	if !candidate.Complete() {
		candidate = Candidate{Name: strings.TrimSpace(e.Name), Email: strings.TrimSpace(e.Email)}
	}
	if !candidate.Complete() {
		return s, nil, ErrCandidateRequired
	}
	next := s.clone()
	next.Candidate = candidate
	next.Phase = PhaseInProgress
	return next, []Effect{Started{}}, nil
}

func applyLanguage(s State, e LanguageChanged) (State, []Effect, error) {
	if err := requireInProgress(s); err != nil {
		return s, nil, err
	}
	if !languages.IsSupported(e.Language) {
		return s, nil, ErrUnsupportedLanguage
	}
	next := s.clone()
	next.CurrentLanguage = e.Language
	resp := &next.Responses[next.CurrentIndex]
	if resp.Language == e.Language && resp.Code != "" {
		next.CurrentCode = resp.Code
		return next, nil, nil
	}
	// One code buffer per question: the previous language's code is dropped.
	next.CurrentCode = languages.StarterCode(e.Language)
	resp.Code = next.CurrentCode
	resp.Language = e.Language
	return next, nil, nil
}

func applyCodeEdit(s State, e CodeEdited) (State, []Effect, error) {
	if s.Phase == PhaseLoading || len(s.Responses) == 0 {
		return s, nil, nil
	}
	if err := requireInProgress(s); err != nil {
		return s, nil, err
	}
	next := s.clone()
	next.CurrentCode = e.Code
	next.Responses[next.CurrentIndex].Code = e.Code
	next.Responses[next.CurrentIndex].Language = next.CurrentLanguage
	return next, nil, nil
}

func applyNavigate(s State, e Navigated) (State, []Effect, error) {
	if err := requireInProgress(s); err != nil {
		return s, nil, err
	}
	target := s.CurrentIndex + e.Delta
	if e.Delta == 0 || target < 0 || target >= len(s.Questions) {
		return s, nil, nil
	}
	next := s.clone()
	next.Responses[next.CurrentIndex].Code = next.CurrentCode
	next.Responses[next.CurrentIndex].Language = next.CurrentLanguage

	next.CurrentIndex = target
	resp := &next.Responses[target]
	if resp.Code != "" {
		next.CurrentCode = resp.Code
		next.CurrentLanguage = resp.Language
		return next, nil, nil
	}
	next.CurrentCode = languages.StarterCode(next.CurrentLanguage)
	resp.Code = next.CurrentCode
	resp.Language = next.CurrentLanguage
	return next, nil, nil
}

func applyRunRequested(s State, e RunRequested) (State, []Effect, error) {
	if err := requireInProgress(s); err != nil {
		return s, nil, err
	}
	q := s.Questions[s.CurrentIndex]
	testCases := q.TestCases
	if e.TestIndex != nil {
		visible := q.VisibleTestCases()
		i := *e.TestIndex
		if i < 0 || i >= len(visible) {
			return s, nil, ErrTestIndexOutOfRange
		}
		testCases = visible[i : i+1]
	}
	if strings.TrimSpace(s.CurrentCode) == "" {
		return s, nil, apperrors.ErrEmptyCode
	}
	lang, ok := languages.ByValue(s.CurrentLanguage)
	if !ok {
		return s, nil, ErrUnsupportedLanguage
	}

	next := s.clone()
	next.runSeq++
	next.latestRun[next.CurrentIndex] = next.runSeq
	return next, []Effect{RunTests{
		RunID:         next.runSeq,
		QuestionIndex: next.CurrentIndex,
		Code:          next.CurrentCode,
		LanguageID:    lang.ID,
		TestCases:     append([]models.TestCase(nil), testCases...),
	}}, nil
}

// applyRunFinished drops results that arrive after completion or that belong
// to a run superseded by a newer one for the same question.
func applyRunFinished(s State, e RunFinished) State {
	if s.Phase != PhaseInProgress || e.Err != nil || e.Outcome == nil {
		return s
	}
	if e.QuestionIndex < 0 || e.QuestionIndex >= len(s.Responses) || s.latestRun[e.QuestionIndex] != e.RunID {
		return s
	}
	next := s.clone()
	total := len(next.Questions[e.QuestionIndex].TestCases)
	o := e.Outcome
	next.Responses[e.QuestionIndex].Result = models.QuestionResult{
		Status:          o.Status,
		Stdout:          o.Stdout,
		Stderr:          o.Stderr,
		CompileOutput:   o.CompileOutput,
		Time:            o.Time,
		Memory:          o.Memory,
		PassedTestCases: o.PassedTestCases,
		TotalTestCases:  total,
		Score:           scoring.Percentage(o.PassedTestCases, total),
	}
	return next
}

func applyTick(s State) (State, []Effect, error) {
	if s.Phase != PhaseInProgress {
		return s, nil, nil
	}
	if s.TimeRemaining <= 1 {
		expired := s.clone()
		expired.TimeRemaining = 0
		return submit(expired)
	}
	next := s.clone()
	next.TimeRemaining--
	return next, nil, nil
}

// submit is the only transition into PhaseCompleted.
func submit(s State) (State, []Effect, error) {
	next := s.clone()
	record := scoring.Build(scoring.Input{
		AssessmentID:    next.AssessmentID,
		InterviewID:     next.InterviewID,
		SessionID:       next.ID,
		Name:            next.Candidate.Name,
		Email:           next.Candidate.Email,
		Questions:       next.Questions,
		Responses:       next.Responses,
		CurrentIndex:    next.CurrentIndex,
		CurrentCode:     next.CurrentCode,
		CurrentLanguage: next.CurrentLanguage,
		TabSwitchCount:  next.TabSwitchCount,
	})
	next.Responses = append([]models.QuestionResponse(nil), record.Responses...)
	next.Phase = PhaseCompleted
	next.Submission = record
	next.SubmissionStatus = StatusPending
	return next, []Effect{Persist{Record: record}}, nil
}

// applyVisibility counts transitions to hidden, not time spent hidden.
func applyVisibility(s State, e VisibilityChanged) (State, []Effect, error) {
	next := s.clone()
	next.Hidden = e.Hidden
	active := s.Phase == PhaseAwaitingCandidate || s.Phase == PhaseInProgress
	if !e.Hidden || s.Hidden || !active {
		return next, nil, nil
	}
	next.TabSwitchCount++
	return next, []Effect{TabSwitched{
		Count:         next.TabSwitchCount,
		QuestionIndex: next.CurrentIndex,
		TimeOffset:    next.Elapsed(),
	}}, nil
}
