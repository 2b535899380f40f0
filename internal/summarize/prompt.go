package summarize

import "fmt"

// systemPrompt frames every summarization request.
const systemPrompt = "Summarize code changes for changelogs."

// maxDiffBytes caps the diff text embedded in a prompt. Large diffs are
// truncated for efficiency; the commit message carries the intent anyway.
const maxDiffBytes = 3000

// BuildPrompt constructs the user prompt for a commit.
func BuildPrompt(message, diff string) string {
	if len(diff) > maxDiffBytes {
		diff = diff[:maxDiffBytes]
	}
	return fmt.Sprintf(`You are an AI assistant creating a human-readable changelog.
Analyze the following commit details:

Commit Message:
%s

Code Changes:
%s

Provide a concise summary of the significant changes in plain language.`, message, diff)
}
