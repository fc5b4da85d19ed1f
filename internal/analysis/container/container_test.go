// File: internal/analysis/container/container_test.go
package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/archlens-cli/internal/config"
)

func TestExtractCommandDeps(t *testing.T) {
	cases := []struct {
		name    string
		command string
		want    []string
	}{
		{
			name:    "pip install",
			command: "/bin/sh -c pip install flask",
			want:    []string{"flask"},
		},
		{
			name:    "pip install with version pin",
			command: "RUN pip install flask==2.0.1 gunicorn",
			// Only the first token after the install keyword is captured.
			want: []string{"flask==2.0.1"},
		},
		{
			name:    "apt-get install",
			command: "RUN apt-get update && apt-get install curl",
			want:    []string{"curl"},
		},
		{
			name:    "apt-get install with flag",
			command: "RUN apt-get install -y curl",
			// Flags match the package pattern; that imprecision is part of
			// the heuristic.
			want: []string{"-y"},
		},
		{
			name:    "pip and apt in one command",
			command: "apt-get install gcc && pip install numpy",
			want:    []string{"gcc", "numpy"},
		},
		{
			name:    "no install commands",
			command: "COPY . /app",
			want:    []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractCommandDeps(tc.command))
		})
	}
}

func FuzzExtractCommandDeps(f *testing.F) {
	f.Add([]byte("RUN pip install flask && apt-get install -y curl"))
	f.Add([]byte("pip install"))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, data []byte) {
		fuzzConsumer := fuzz.NewConsumer(data)
		command, err := fuzzConsumer.GetString()
		if err != nil {
			return
		}
		// The goal is survival without panicking on arbitrary commands.
		_ = ExtractCommandDeps(command)
	})
}

func TestAnalyze_NoDockerfile(t *testing.T) {
	// A repository without a container descriptor is not an error, even
	// when no daemon connection exists.
	i := &Inspector{cfg: config.Get().Container, logger: zap.NewNop()}

	layers, err := i.Analyze(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestAnalyze_UnavailableDaemon(t *testing.T) {
	dir := t.TempDir()
	dockerfile := filepath.Join(dir, "Dockerfile")
	require.NoError(t, os.WriteFile(dockerfile, []byte("FROM scratch\n"), 0o644))

	i := &Inspector{cfg: config.Get().Container, logger: zap.NewNop()}

	_, err := i.Analyze(context.Background(), dir)
	assert.ErrorIs(t, err, ErrUnavailable)
}
