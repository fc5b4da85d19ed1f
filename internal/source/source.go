// File: internal/source/source.go

// Package source resolves an analysis target into a local directory. A
// target is either a path that already exists on disk or a remote repository
// URL, which gets cloned into a temporary directory for the lifetime of one
// analysis run.
package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Options selects the analysis target. Exactly one of RepoURL or LocalPath
// must be set; RepoURL wins when both are.
type Options struct {
	RepoURL   string
	LocalPath string
}

// ErrNoTarget is returned when neither a repository URL nor a local path was
// provided.
var ErrNoTarget = fmt.Errorf("either a repository URL or a local path must be provided")

// Repository is a resolved analysis target rooted at Path. Close removes the
// temporary clone directory, if any; cleanup is best-effort and a killed
// process leaks the directory.
type Repository struct {
	Path    string
	tempDir string
}

// IsRemote reports whether the target string looks like a cloneable URL.
func IsRemote(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// Resolve materializes the target directory. Remote URLs are shallow-cloned
// into a fresh temp directory; local paths are used in place and never
// removed by Close.
func Resolve(ctx context.Context, opts Options, logger *zap.Logger) (*Repository, error) {
	switch {
	case opts.RepoURL != "":
		tempDir, err := os.MkdirTemp("", "archlens-clone-")
		if err != nil {
			return nil, fmt.Errorf("failed to create clone directory: %w", err)
		}

		logger.Info("Cloning repository",
			zap.String("url", opts.RepoURL),
			zap.String("dir", tempDir),
		)
		_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
			URL:   opts.RepoURL,
			Depth: 1,
		})
		if err != nil {
			os.RemoveAll(tempDir)
			return nil, fmt.Errorf("failed to clone %s: %w", opts.RepoURL, err)
		}
		return &Repository{Path: tempDir, tempDir: tempDir}, nil

	case opts.LocalPath != "":
		info, err := os.Stat(opts.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to access local path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("local path %s is not a directory", opts.LocalPath)
		}
		return &Repository{Path: opts.LocalPath}, nil

	default:
		return nil, ErrNoTarget
	}
}

// Close removes the temporary clone directory. It is a no-op for local
// targets.
func (r *Repository) Close() error {
	if r.tempDir == "" {
		return nil
	}
	return os.RemoveAll(r.tempDir)
}
