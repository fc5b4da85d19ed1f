// File: internal/analysis/container/container.go

// Package container builds the repository's image and inspects its layer
// history through the Docker daemon. The daemon is an optional collaborator:
// when it is unreachable at startup the inspector is recorded as unavailable
// and only fails if a container-dependent operation is actually invoked.
package container

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/config"
)

// ErrUnavailable is returned when a container operation is invoked but no
// daemon connection could be established at startup.
var ErrUnavailable = errors.New("container engine unavailable")

var (
	pipInstallRe = regexp.MustCompile(`pip install\s+([\w\-=<>\.]+)`)
	aptInstallRe = regexp.MustCompile(`apt-get install\s+([\w\-]+)`)
)

// Inspector builds and inspects repository images.
type Inspector struct {
	cli    *client.Client // nil when the daemon was unreachable
	cfg    config.ContainerConfig
	logger *zap.Logger
}

// NewInspector connects to the Docker daemon from the environment. A failed
// connection is not fatal here: it is recorded and surfaces as
// ErrUnavailable from Analyze.
func NewInspector(ctx context.Context, cfg config.ContainerConfig, logger *zap.Logger) *Inspector {
	i := &Inspector{cfg: cfg, logger: logger.Named("container")}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		i.logger.Warn("Container engine unavailable", zap.Error(err))
		return i
	}
	if _, err := cli.Ping(ctx); err != nil {
		i.logger.Warn("Container engine unreachable", zap.Error(err))
		cli.Close()
		return i
	}
	i.cli = cli
	return i
}

// Available reports whether a daemon connection exists.
func (i *Inspector) Available() bool {
	return i.cli != nil
}

// Close releases the daemon connection.
func (i *Inspector) Close() error {
	if i.cli == nil {
		return nil
	}
	return i.cli.Close()
}

// Analyze builds the repository image and returns one ContainerLayer per
// history entry. A missing Dockerfile yields an empty list and no error. A
// build failure is fatal: there is no retry. The built image is removed on
// every exit path after a successful build.
func (i *Inspector) Analyze(ctx context.Context, repoPath string) ([]schemas.ContainerLayer, error) {
	dockerfile := filepath.Join(repoPath, i.cfg.Dockerfile)
	if _, err := os.Stat(dockerfile); err != nil {
		return []schemas.ContainerLayer{}, nil
	}

	if i.cli == nil {
		return nil, ErrUnavailable
	}

	if i.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.BuildTimeout)
		defer cancel()
	}

	tag := "archlens-build:" + uuid.New().String()
	if err := i.buildImage(ctx, repoPath, tag); err != nil {
		return nil, fmt.Errorf("image build failed: %w", err)
	}
	defer func() {
		if _, err := i.cli.ImageRemove(ctx, tag, image.RemoveOptions{Force: true, PruneChildren: true}); err != nil {
			i.logger.Warn("Failed to remove built image", zap.String("tag", tag), zap.Error(err))
		}
	}()

	history, err := i.cli.ImageHistory(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to read image history: %w", err)
	}

	layers := make([]schemas.ContainerLayer, 0, len(history))
	for _, entry := range history {
		layers = append(layers, schemas.ContainerLayer{
			Command:      entry.CreatedBy,
			Size:         entry.Size,
			Dependencies: ExtractCommandDeps(entry.CreatedBy),
		})
	}
	return layers, nil
}

// buildImage streams a tar of the repository to the daemon and waits for the
// build to finish, surfacing any in-stream build error.
func (i *Inspector) buildImage(ctx context.Context, repoPath, tag string) error {
	buildContext, err := tarDirectory(repoPath)
	if err != nil {
		return fmt.Errorf("failed to assemble build context: %w", err)
	}

	resp, err := i.cli.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:        []string{tag},
		Dockerfile:  i.cfg.Dockerfile,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The daemon reports build progress (and failures) as a JSON message
	// stream; the build is not done until the stream ends.
	decoder := json.NewDecoder(resp.Body)
	for {
		var msg struct {
			Stream      string `json:"stream"`
			Error       string `json:"error"`
			ErrorDetail struct {
				Message string `json:"message"`
			} `json:"errorDetail"`
		}
		if err := decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read build output: %w", err)
		}
		if msg.Error != "" {
			if msg.ErrorDetail.Message != "" {
				return errors.New(msg.ErrorDetail.Message)
			}
			return errors.New(msg.Error)
		}
	}
}

// ExtractCommandDeps regex-extracts package names from the pip install and
// apt-get install fragments of a layer command. Only the first package after
// each install keyword is captured.
func ExtractCommandDeps(command string) []string {
	seen := map[string]struct{}{}
	if strings.Contains(command, "pip install") {
		for _, match := range pipInstallRe.FindAllStringSubmatch(command, -1) {
			seen[match[1]] = struct{}{}
		}
	}
	if strings.Contains(command, "apt-get install") {
		for _, match := range aptInstallRe.FindAllStringSubmatch(command, -1) {
			seen[match[1]] = struct{}{}
		}
	}

	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// tarDirectory packs a directory into an in-memory tar archive for use as a
// build context. The .git directory is skipped.
func tarDirectory(root string) (io.Reader, error) {
	buf := &bytes.Buffer{}
	tw := tar.NewWriter(buf)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if d.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}
