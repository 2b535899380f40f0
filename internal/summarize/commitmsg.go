package summarize

import (
	"context"
	"errors"
	"fmt"
)

const messageSystemPrompt = "You are an expert at writing clear, concise commit messages. " +
	"Generate only the commit message, no extra commentary."

// maxMessageDiffBytes caps the diff text embedded in a commit-message
// prompt. Larger than the changelog cap: the diff is the only input here.
const maxMessageDiffBytes = 4000

const messageMaxTokens = 500

// styleInstructions maps a message style to its prompt section. Each
// template takes the maximum subject line length.
var styleInstructions = map[string]string{
	"conventional": `Follow Conventional Commits format:
<type>(<scope>): <subject>

<body>

<footer>

Types: feat, fix, docs, style, refactor, test, chore
Subject: imperative mood, no period, max %d chars
Body: explain what and why (optional)
Footer: breaking changes, issue references (optional)`,
	"concise": `Generate a single-line commit message that:
- Is concise and under %d characters
- Uses imperative mood (e.g., "Add feature" not "Added feature")
- Clearly describes what changed`,
	"detailed": `Generate a detailed commit message with:
- Subject line (max %d chars, imperative mood)
- Blank line
- Detailed body explaining what changed and why
- Any relevant technical details`,
}

// MessageRequest describes one commit message generation.
type MessageRequest struct {
	Diff            string
	OriginalMessage string // prior message shown for reference, may be empty
	Style           string // conventional, concise, or detailed
	MaxLength       int    // maximum subject line length
}

// BuildMessagePrompt constructs the user prompt for commit message
// generation. Unknown styles are an error.
func BuildMessagePrompt(req MessageRequest) (string, error) {
	template, ok := styleInstructions[req.Style]
	if !ok {
		return "", fmt.Errorf("unknown style: %s (choose from conventional, concise, detailed)", req.Style)
	}

	diff := req.Diff
	if len(diff) > maxMessageDiffBytes {
		diff = diff[:maxMessageDiffBytes]
	}

	prompt := fmt.Sprintf(`Generate a commit message for the following code changes.

%s

Code Changes:
%s
`, fmt.Sprintf(template, req.MaxLength), diff)

	if req.OriginalMessage != "" {
		prompt += fmt.Sprintf("\nOriginal commit message (for reference):\n%s\n", req.OriginalMessage)
	}
	return prompt, nil
}

// CommitMessage generates a commit message for a diff. Unlike changelog
// summaries there is no degraded result: a provider failure is logged and
// surfaces to the caller.
func (s *Summarizer) CommitMessage(ctx context.Context, req MessageRequest) (string, error) {
	prompt, err := BuildMessagePrompt(req)
	if err != nil {
		return "", err
	}

	cacheKey := "message:" + req.Style
	if s.cache != nil {
		if response, ok := s.cache.Get(prompt, s.model, cacheKey); ok {
			return response, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.WaitIfNeeded(ctx); err != nil {
			return "", err
		}
	}

	resp, err := s.gen.Generate(ctx, Request{
		SystemPrompt: messageSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    messageMaxTokens,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.errLog.Printf("Error generating commit message: %v", err)
		}
		return "", err
	}

	if s.cache != nil {
		s.cache.Set(prompt, s.model, resp.Content, cacheKey)
	}
	return resp.Content, nil
}
