package quality

import (
	"context"
	"fmt"

	"github.com/bordenet/bloginator-sub001/internal/types"
)

// GenerateFunc produces content for a prompt. It is the single seam between
// the retry orchestrator and whatever backend actually generates text.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// RetryExhaustedError reports that every attempt for a unit failed quality.
type RetryExhaustedError struct {
	Unit     string
	Attempts int
	Issues   []string
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("unit %q failed quality after %d attempts: %d issues recorded", e.Unit, e.Attempts, len(e.Issues))
}

// Result is the outcome of GenerateWithRetry.
type Result struct {
	// Content is the text of the final attempt, whether or not it passed.
	Content string
	// Assessment is the final attempt's quality assessment.
	Assessment types.QualityAssessment
	// Attempts logs every attempt in order.
	Attempts []types.Attempt
	// Passed reports whether any attempt satisfied the quality policy.
	Passed bool
}

// GenerateWithRetry wraps one generation unit with bounded quality-driven
// retries. Attempt 1 uses the default prompt; each failed attempt selects the
// next prompt variant. When all attempts fail, the last result is returned
// with Passed=false and a *RetryExhaustedError, never a panic and never an
// error that should abort sibling units.
//
// variants holds the alternate prompts for attempts 2..n; when exhausted, the
// last variant (or the default prompt if none exist) is reused.
func GenerateWithRetry(ctx context.Context, unit string, defaultPrompt string, variants []string, maxAttempts int, assess AssessFunc, generate GenerateFunc) (*Result, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	result := &Result{}
	var allIssues []string

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		prompt := promptForAttempt(defaultPrompt, variants, attempt)

		entry := types.Attempt{Number: attempt, PromptUsed: prompt}

		content, err := generate(ctx, prompt)
		if err != nil {
			entry.Err = err.Error()
			entry.Assessment = types.QualityAssessment{
				Issues: []string{fmt.Sprintf("generation failed: %v", err)},
			}
			result.Attempts = append(result.Attempts, entry)
			allIssues = append(allIssues, entry.Assessment.Issues...)

			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			continue
		}

		assessment := assess(content)
		entry.Content = content
		entry.Assessment = assessment
		result.Attempts = append(result.Attempts, entry)
		allIssues = append(allIssues, assessment.Issues...)

		result.Content = content
		result.Assessment = assessment

		if assessment.Passed {
			result.Passed = true
			return result, nil
		}
	}

	return result, &RetryExhaustedError{
		Unit:     unit,
		Attempts: len(result.Attempts),
		Issues:   allIssues,
	}
}

// promptForAttempt selects the prompt for a given attempt number. Attempt 1
// always uses the default; later attempts walk the variant list and stick on
// the last variant once exhausted.
func promptForAttempt(defaultPrompt string, variants []string, attempt int) string {
	if attempt <= 1 || len(variants) == 0 {
		return defaultPrompt
	}
	idx := attempt - 2
	if idx >= len(variants) {
		idx = len(variants) - 1
	}
	return variants[idx]
}
