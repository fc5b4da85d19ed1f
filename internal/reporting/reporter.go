// File: internal/reporting/reporter.go

// Package reporting writes analysis results to stdout or a file in one of
// the supported output formats.
package reporting

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
)

// Reporter defines the interface for writing analysis results.
type Reporter interface {
	// Write emits one result envelope.
	Write(result *schemas.ResultEnvelope) error
	// Close finalizes the report and releases the underlying writer.
	Close() error
}

// nopWriteCloser wraps an io.Writer with a no-op Close, used for stdout.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// New creates a reporter for the given format, writing to outputPath or
// stdout when outputPath is empty.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "mermaid":
		return &mermaidReporter{writer: writer}, nil
	case "json":
		return &jsonReporter{writer: writer}, nil
	default:
		writer.Close()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// mermaidReporter writes the pre-rendered diagram text.
type mermaidReporter struct {
	writer io.WriteCloser
}

func (r *mermaidReporter) Write(result *schemas.ResultEnvelope) error {
	if _, err := io.WriteString(r.writer, result.Diagram); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}
	_, err := io.WriteString(r.writer, "\n")
	return err
}

func (r *mermaidReporter) Close() error { return r.writer.Close() }

// jsonReporter writes the structured component dump as
// {"components": {name: {...}}}.
type jsonReporter struct {
	writer io.WriteCloser
}

func (r *jsonReporter) Write(result *schemas.ResultEnvelope) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode components: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error { return r.writer.Close() }
