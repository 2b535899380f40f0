package git

import (
	"strings"
	"time"
)

// CommitRecord holds the information a changelog entry is built from.
type CommitRecord struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string // full commit message, trimmed
	Diff    string // unified patch text against the first parent
}

// ShortSHA returns the abbreviated commit hash.
func (c CommitRecord) ShortSHA() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// Subject returns the first line of the commit message.
func (c CommitRecord) Subject() string {
	if idx := strings.IndexByte(c.Message, '\n'); idx != -1 {
		return strings.TrimSpace(c.Message[:idx])
	}
	return c.Message
}

// Date returns the commit date formatted for changelog grouping.
func (c CommitRecord) Date() string {
	return c.When.Format("2006-01-02")
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContributorKey returns a normalized identifier for grouping contributors.
func (a AuthorInfo) ContributorKey() string {
	return strings.ToLower(a.Email)
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath   string
	Branch     string
	MaxCommits int
	Since      *time.Time
	Until      *time.Time
	Include    []string // Glob patterns to include
	Exclude    []string // Glob patterns to exclude
}
