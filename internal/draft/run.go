// Package draft provides the high-level orchestration that turns an outline
// into a multi-section draft: context gathering, one fan-out submit to the
// generation backend, one collect, then per-section validation with bounded
// quality retries and terminal status assignment.
package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bordenet/bloginator-sub001/internal/backend"
	"github.com/bordenet/bloginator-sub001/internal/batch"
	"github.com/bordenet/bloginator-sub001/internal/observability"
	"github.com/bordenet/bloginator-sub001/internal/prompts"
	"github.com/bordenet/bloginator-sub001/internal/quality"
	"github.com/bordenet/bloginator-sub001/internal/relevance"
	"github.com/bordenet/bloginator-sub001/internal/search"
	"github.com/bordenet/bloginator-sub001/internal/types"
)

const promptFile = "generation.json"

// ProgressEvent represents a progress update during draft generation.
type ProgressEvent struct {
	Step    string `json:"step"`
	Section string `json:"section,omitempty"`
	Message string `json:"message"`
}

// ProgressCallback is called when draft generation progress occurs.
type ProgressCallback func(event ProgressEvent)

// Progress step names.
const (
	StepContext  = "context"
	StepSubmit   = "submit"
	StepCollect  = "collect"
	StepSection  = "section"
	StepAssemble = "assemble"
)

// RunOptions holds configuration for running draft generation.
type RunOptions struct {
	// Generator is the backend all section prompts are dispatched through.
	Generator backend.Generator
	// Searcher supplies corpus context per section. Nil disables retrieval.
	Searcher search.Searcher

	// Context filtering policy.
	ContextResults  int
	SimilarityFloor float64
	MinKeywordHits  int

	// Quality policy for generated sections.
	MinSectionWords int
	MaxSectionWords int
	PassThreshold   float64
	BannedPatterns  []*regexp.Regexp
	// MaxAttempts bounds generation attempts per section, the first included.
	MaxAttempts int

	// Collect is passed through to the backend's collect phase.
	Collect backend.CollectOptions

	Verbose    bool
	OnProgress ProgressCallback
}

// emitProgress calls the progress callback if configured.
func emitProgress(opts *RunOptions, step, section, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Section: section, Message: message})
	}
}

// sectionPlan carries everything prepared for one section before submit.
type sectionPlan struct {
	section  *types.Section
	handle   string
	prompt   string
	variants []string
}

// runner threads the shared state through the generation steps.
type runner struct {
	opts    RunOptions
	printer *observability.Printer
	seq     int
}

// nextRequestID allocates the next monotonically increasing request id.
func (r *runner) nextRequestID() string {
	r.seq++
	return batch.RequestID(r.seq)
}

// Run generates content for every section of the outline and assembles the
// draft. Sections are mutated in place: each one ends in a terminal status
// (completed, failed, or placeholder) and the returned draft aggregates them.
//
// A batch-level failure (below-threshold timeout, cancellation) returns an
// error after marking the unresolved sections failed; per-section failures
// never abort their siblings.
func Run(ctx context.Context, outline *types.Outline, opts RunOptions) (*types.Draft, error) {
	if outline == nil || len(outline.Sections) == 0 {
		return nil, fmt.Errorf("outline has no sections to generate")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("no generation backend configured")
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	r := &runner{opts: opts, printer: observability.NewPrinter(os.Stdout)}

	fmt.Printf("Step 1/4: Gathering corpus context for %d sections...\n", len(outline.Sections))
	plans, err := r.prepareSections(ctx, outline)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Step 2/4: Submitting %d generation requests...\n", len(plans))
	if err := r.submit(ctx, plans); err != nil {
		return nil, err
	}

	fmt.Printf("Step 3/4: Collecting responses...\n")
	results, err := r.collect(ctx, plans)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Step 4/4: Validating sections...\n")
	return r.finish(ctx, outline, plans, results)
}

// Resume re-attaches to an already-submitted batch and takes the outline's
// sections to terminal statuses without re-issuing the original requests. The
// requests slice is the batch's existing request set; sections are matched to
// their first-attempt request by section title. Quality retries still work:
// they append fresh requests numbered after the existing ones.
func Resume(ctx context.Context, outline *types.Outline, requests []types.GenerationRequest, opts RunOptions) (*types.Draft, error) {
	if outline == nil || len(outline.Sections) == 0 {
		return nil, fmt.Errorf("outline has no sections to generate")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("no generation backend configured")
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	r := &runner{opts: opts, printer: observability.NewPrinter(os.Stdout)}

	plans, err := r.prepareSections(ctx, outline)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]string)
	maxSeq := 0
	for _, req := range requests {
		if req.Attempt <= 1 {
			if _, ok := byTitle[req.SectionTitle]; !ok {
				byTitle[req.SectionTitle] = req.ID
			}
		}
		if n := requestSeq(req.ID); n > maxSeq {
			maxSeq = n
		}
	}
	r.seq = maxSeq

	for _, plan := range plans {
		handle, ok := byTitle[plan.section.Title]
		if !ok {
			return nil, fmt.Errorf("batch has no request for section %q", plan.section.Title)
		}
		plan.handle = handle
		if err := plan.section.Transition(types.StatusRequested); err != nil {
			return nil, err
		}
	}

	fmt.Printf("Resuming collection of %d requests...\n", len(plans))
	results, err := r.collect(ctx, plans)
	if err != nil {
		return nil, err
	}

	return r.finish(ctx, outline, plans, results)
}

// finish validates every collected result and assembles the draft.
func (r *runner) finish(ctx context.Context, outline *types.Outline, plans []*sectionPlan, results map[string]backend.Result) (*types.Draft, error) {
	for _, plan := range plans {
		if err := r.resolveSection(ctx, plan, results[plan.handle]); err != nil {
			// Cancellation mid-validation: every section still awaiting a
			// response fails; assembly is abandoned.
			markUnresolvedFailed(outline, "generation canceled")
			return nil, err
		}
	}

	if !outline.AllTerminal() {
		return nil, fmt.Errorf("draft assembly requires every section in a terminal status")
	}

	stats := types.ComputeDraftStats(outline.Sections)
	emitProgress(&r.opts, StepAssemble, "",
		fmt.Sprintf("Assembled draft: %d completed, %d placeholder, %d failed",
			stats.CompletedCount, stats.PlaceholderCount, stats.FailedCount))
	if r.opts.Verbose {
		r.printer.PrintDraftStats(stats)
	}

	return &types.Draft{
		Outline:  outline,
		Sections: outline.Sections,
		Stats:    stats,
	}, nil
}

// requestSeq extracts the sequence number from a request id, or 0 if the id
// does not follow the standard format.
func requestSeq(id string) int {
	var n int
	if _, err := fmt.Sscanf(id, "req-%d", &n); err != nil {
		return 0
	}
	return n
}

// prepareSections gathers and filters corpus context per section and renders
// the default prompt plus its retry variants. Only validated context ever
// reaches a prompt.
func (r *runner) prepareSections(ctx context.Context, outline *types.Outline) ([]*sectionPlan, error) {
	template, err := prompts.Get(promptFile, "section")
	if err != nil {
		return nil, err
	}
	rawVariants, err := prompts.Variants(promptFile, "section")
	if err != nil {
		return nil, err
	}

	plans := make([]*sectionPlan, 0, len(outline.Sections))
	for i := range outline.Sections {
		section := &outline.Sections[i]

		survivors, warnings, err := r.sectionContext(ctx, outline, section)
		if err != nil {
			return nil, err
		}
		if len(warnings) > 0 {
			emitProgress(&r.opts, StepContext, section.Title,
				fmt.Sprintf("dropped %d context result(s)", len(warnings)))
			if r.opts.Verbose {
				r.printer.PrintDroppedContext(section.Title, warnings)
			}
		}

		data := map[string]string{
			"Title":              outline.Title,
			"Thesis":             outline.Thesis,
			"SectionTitle":       section.Title,
			"SectionDescription": section.Description,
			"Keywords":           strings.Join(section.RequiredKeywords, ", "),
			"Context":            contextBlock(survivors),
		}

		plan := &sectionPlan{
			section: section,
			prompt:  prompts.Format(template, data),
		}
		for _, v := range rawVariants {
			plan.variants = append(plan.variants, prompts.Format(v, data))
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// sectionContext retrieves corpus results for one section and applies the
// relevance filters.
func (r *runner) sectionContext(ctx context.Context, outline *types.Outline, section *types.Section) ([]types.SearchResult, []string, error) {
	if r.opts.Searcher == nil || r.opts.ContextResults <= 0 {
		return nil, nil, nil
	}

	query := outline.Title + " " + section.Title + " " + section.Description
	if len(section.RequiredKeywords) > 0 {
		query += " " + strings.Join(section.RequiredKeywords, " ")
	}
	results, err := r.opts.Searcher.Search(ctx, query, r.opts.ContextResults)
	if err != nil {
		return nil, nil, fmt.Errorf("corpus search for section %q failed: %w", section.Title, err)
	}

	survivors, warnings := relevance.ValidateInputs(results, section.RequiredKeywords, relevance.InputOptions{
		MinSimilarity:  r.opts.SimilarityFloor,
		MinKeywordHits: r.opts.MinKeywordHits,
	})
	return survivors, warnings, nil
}

// submit transitions every section to requested and dispatches the whole
// batch in one fan-out call.
func (r *runner) submit(ctx context.Context, plans []*sectionPlan) error {
	requests := make([]types.GenerationRequest, 0, len(plans))
	for _, plan := range plans {
		plan.handle = r.nextRequestID()
		requests = append(requests, types.GenerationRequest{
			ID:           plan.handle,
			SectionTitle: plan.section.Title,
			Prompt:       plan.prompt,
			Attempt:      1,
			CreatedAt:    time.Now().UTC(),
		})
		if err := plan.section.Transition(types.StatusRequested); err != nil {
			return err
		}
	}

	if _, err := r.opts.Generator.Submit(ctx, requests); err != nil {
		return fmt.Errorf("failed to submit generation batch: %w", err)
	}

	if dir := r.opts.Generator.BatchDir(); dir != "" {
		fmt.Printf("Batch directory: %s\n", dir)
	}
	emitProgress(&r.opts, StepSubmit, "", fmt.Sprintf("Submitted %d requests", len(requests)))
	return nil
}

// collect transitions sections to awaiting_response and runs the backend's
// collect phase. On a batch-level failure every non-terminal section is
// marked failed before the error is returned.
func (r *runner) collect(ctx context.Context, plans []*sectionPlan) (map[string]backend.Result, error) {
	handles := make([]string, 0, len(plans))
	for _, plan := range plans {
		if err := plan.section.Transition(types.StatusAwaitingResponse); err != nil {
			return nil, err
		}
		handles = append(handles, plan.handle)
	}

	results, err := r.opts.Generator.Collect(ctx, handles, r.opts.Collect)
	if err != nil {
		var timeoutErr *batch.TimeoutError
		switch {
		case errors.As(err, &timeoutErr):
			for _, plan := range plans {
				if !plan.section.Status.IsTerminal() {
					plan.section.Status = types.StatusFailed
					plan.section.FailureReason = timeoutErr.Error()
				}
			}
		case ctx.Err() != nil:
			for _, plan := range plans {
				if !plan.section.Status.IsTerminal() {
					plan.section.Status = types.StatusFailed
					plan.section.FailureReason = "generation canceled"
				}
			}
		}
		return nil, fmt.Errorf("failed to collect generation batch: %w", err)
	}

	emitProgress(&r.opts, StepCollect, "", fmt.Sprintf("Collected %d results", len(results)))
	return results, nil
}

// resolveSection takes one section's first collected result to a terminal
// status, running the bounded quality retry loop when the content needs work.
// Only a context error is propagated; every other failure is recorded on the
// section and the siblings continue.
func (r *runner) resolveSection(ctx context.Context, plan *sectionPlan, result backend.Result) error {
	section := plan.section

	switch {
	case result.Placeholder:
		section.Status = types.StatusPlaceholder
		section.Content = placeholderText(section.Title)
		emitProgress(&r.opts, StepSection, section.Title, "no response received, placeholder inserted")
		return nil

	case result.Err != nil:
		section.Status = types.StatusFailed
		section.FailureReason = result.Err.Error()
		emitProgress(&r.opts, StepSection, section.Title, "generation failed: "+section.FailureReason)
		return ctx.Err()

	case result.Response == nil:
		section.Status = types.StatusFailed
		section.FailureReason = "backend returned no response"
		return nil

	case result.Response.Failed():
		section.Status = types.StatusFailed
		section.FailureReason = result.Response.Error
		emitProgress(&r.opts, StepSection, section.Title, "backend error: "+section.FailureReason)
		return nil
	}

	assess := r.assessorFor(section)

	// The already-collected content counts as attempt 1; the generate func
	// serves it first and only goes back to the backend for retries.
	primed := result.Response.Content
	served := false
	attempt := 1
	generate := func(ctx context.Context, prompt string) (string, error) {
		if !served {
			served = true
			return primed, nil
		}
		attempt++
		return r.retryRoundTrip(ctx, section, prompt, attempt)
	}

	retryResult, err := quality.GenerateWithRetry(
		ctx, section.Title, plan.prompt, plan.variants, r.opts.MaxAttempts, assess, generate)
	if r.opts.Verbose && retryResult != nil {
		r.printer.PrintSectionAttempts(section.Title, retryResult.Attempts)
	}
	if err != nil {
		var exhausted *quality.RetryExhaustedError
		if errors.As(err, &exhausted) {
			section.Status = types.StatusFailed
			section.Content = retryResult.Content
			section.QualityScore = retryResult.Assessment.Score
			section.FailureReason = exhausted.Error()
			emitProgress(&r.opts, StepSection, section.Title, section.FailureReason)
			return nil
		}
		section.Status = types.StatusFailed
		section.FailureReason = err.Error()
		return err
	}

	section.Status = types.StatusCompleted
	section.Content = retryResult.Content
	section.QualityScore = retryResult.Assessment.Score
	emitProgress(&r.opts, StepSection, section.Title,
		fmt.Sprintf("completed after %d attempt(s), score %.2f", len(retryResult.Attempts), retryResult.Assessment.Score))
	return nil
}

// assessorFor combines the structural quality policy with the keyword
// relevance gate: content that drifts off the section's required keywords
// never passes, whatever its structural score.
func (r *runner) assessorFor(section *types.Section) quality.AssessFunc {
	structural := quality.Assessor(quality.Criteria{
		MinWords:         r.opts.MinSectionWords,
		MaxWords:         r.opts.MaxSectionWords,
		RequiredKeywords: section.RequiredKeywords,
		BannedPatterns:   r.opts.BannedPatterns,
		PassThreshold:    r.opts.PassThreshold,
	})
	keywords := section.RequiredKeywords
	return func(text string) types.QualityAssessment {
		assessment := structural(text)
		if !relevance.ValidateOutput(text, keywords) {
			missing := relevance.MissingKeywords(text, keywords)
			assessment.Issues = append(assessment.Issues,
				fmt.Sprintf("content does not reference required keywords (missing: %s)", strings.Join(missing, ", ")))
			assessment.Passed = false
		}
		return assessment
	}
}

// retryRoundTrip pushes a single retry prompt through the backend and waits
// for its response. Deferred backends append a fresh immutable request and
// wait on that id alone.
func (r *runner) retryRoundTrip(ctx context.Context, section *types.Section, prompt string, attempt int) (string, error) {
	req := types.GenerationRequest{
		ID:           r.nextRequestID(),
		SectionTitle: section.Title,
		Prompt:       prompt,
		Attempt:      attempt,
		CreatedAt:    time.Now().UTC(),
	}

	handles, err := r.opts.Generator.Submit(ctx, []types.GenerationRequest{req})
	if err != nil {
		return "", fmt.Errorf("failed to submit retry for section %q: %w", section.Title, err)
	}

	results, err := r.opts.Generator.Collect(ctx, handles, r.opts.Collect)
	if err != nil {
		return "", err
	}

	result := results[handles[0]]
	switch {
	case result.Err != nil:
		return "", result.Err
	case result.Placeholder || result.Response == nil:
		return "", fmt.Errorf("no response received for retry request %s", req.ID)
	case result.Response.Failed():
		return "", errors.New(result.Response.Error)
	}
	return result.Response.Content, nil
}

// markUnresolvedFailed marks every non-terminal section failed with reason.
func markUnresolvedFailed(outline *types.Outline, reason string) {
	for i := range outline.Sections {
		if !outline.Sections[i].Status.IsTerminal() {
			outline.Sections[i].Status = types.StatusFailed
			outline.Sections[i].FailureReason = reason
		}
	}
}

// placeholderText is the content inserted for sections the backend never
// answered within the collection window.
func placeholderText(title string) string {
	return fmt.Sprintf("[placeholder: no content was generated for %q before the batch window closed]", title)
}

// contextBlock formats validated search results as a citable prompt block.
// Each result is tagged [doc-N] so generated prose can reference its source.
func contextBlock(results []types.SearchResult) string {
	if len(results) == 0 {
		return "(no corpus context available)"
	}
	var b strings.Builder
	for i, result := range results {
		fmt.Fprintf(&b, "[doc-%d] (source: %s)\n%s\n\n", i+1, result.SourceID, result.Content)
	}
	return strings.TrimSpace(b.String())
}
