package git

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// HistoryReader reads commit history from a Git repository.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	return &HistoryReader{repo: repo, opts: opts}, nil
}

// ReadCommits reads commits from the repository, newest first, capped at
// MaxCommits when set. A commit whose diff cannot be extracted still
// appears in the result with empty patch text; one bad commit must not
// abort the walk.
func (r *HistoryReader) ReadCommits() ([]CommitRecord, error) {
	from, err := r.startHash()
	if err != nil {
		return nil, err
	}

	logOpts := &git.LogOptions{From: from}
	if r.opts.Since != nil {
		logOpts.Since = r.opts.Since
	}
	if r.opts.Until != nil {
		logOpts.Until = r.opts.Until
	}

	cIter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, err
	}

	var results []CommitRecord

	err = cIter.ForEach(func(c *object.Commit) error {
		if r.opts.MaxCommits > 0 && len(results) >= r.opts.MaxCommits {
			return storer.ErrStop
		}

		diff, err := r.commitDiff(c)
		if err != nil {
			diff = ""
		}

		results = append(results, CommitRecord{
			SHA:     c.Hash.String(),
			When:    c.Committer.When,
			Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
			Message: strings.TrimSpace(c.Message),
			Diff:    diff,
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return results, nil
}

// CommitByHash returns the record for a single commit resolved from a
// revision (full or abbreviated hash, branch, tag).
func (r *HistoryReader) CommitByHash(rev string) (CommitRecord, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return CommitRecord{}, err
	}
	c, err := r.repo.CommitObject(*hash)
	if err != nil {
		return CommitRecord{}, err
	}

	diff, err := r.commitDiff(c)
	if err != nil {
		diff = ""
	}

	return CommitRecord{
		SHA:     c.Hash.String(),
		When:    c.Committer.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message: strings.TrimSpace(c.Message),
		Diff:    diff,
	}, nil
}

// startHash resolves the revision the walk starts from.
func (r *HistoryReader) startHash() (plumbing.Hash, error) {
	if r.opts.Branch != "" {
		hash, err := r.repo.ResolveRevision(plumbing.Revision(r.opts.Branch))
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return *hash, nil
	}
	ref, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ref.Hash(), nil
}

// commitDiff produces the unified patch text for a commit against its
// first parent. The root commit is diffed against the empty tree.
func (r *HistoryReader) commitDiff(c *object.Commit) (string, error) {
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return "", err
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
	}

	tree, err := c.Tree()
	if err != nil {
		return "", err
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return "", err
	}

	filtered := make(object.Changes, 0, len(changes))
	for _, change := range changes {
		path := change.To.Name
		if path == "" {
			path = change.From.Name
		}
		if r.matchesFilters(path) {
			filtered = append(filtered, change)
		}
	}

	if len(filtered) == 0 {
		return "", nil
	}

	patch, err := filtered.Patch()
	if err != nil {
		return "", err
	}

	return patch.String(), nil
}

// matchesFilters checks if a path matches the include/exclude filters.
func (r *HistoryReader) matchesFilters(path string) bool {
	// Normalize path separators
	path = strings.ReplaceAll(path, "\\", "/")

	// Check exclude patterns first
	for _, pattern := range r.opts.Exclude {
		matched, _ := doublestar.Match(pattern, path)
		if matched {
			return false
		}
	}

	// If no include patterns, accept all
	if len(r.opts.Include) == 0 {
		return true
	}

	// Check include patterns
	for _, pattern := range r.opts.Include {
		matched, _ := doublestar.Match(pattern, path)
		if matched {
			return true
		}
	}

	return false
}
