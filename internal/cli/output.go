package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/matzehuels/callsurface/pkg/pipeline"
)

// stdoutPath asks for an artifact on standard output.
const stdoutPath = "-"

// artifactWriteParams describes one batch of rendered artifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // path stem when no output is given
	output    string // explicit -o value
	cacheHit  bool
	frames    int
	color     bool
}

// writeArtifacts writes each format to its own file, or a single format to
// stdout when output is "-".
func writeArtifacts(w io.Writer, p artifactWriteParams) error {
	if p.output == stdoutPath {
		if len(p.formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
		}
		format := p.formats[0]
		if format == pipeline.FormatJSON {
			return printJSON(w, p.artifacts[format], p.color)
		}
		_, err := w.Write(p.artifacts[format])
		return err
	}

	paths := outputPaths(p.output, p.base, p.formats)
	for _, format := range p.formats {
		path := paths[format]
		if err := os.WriteFile(path, p.artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Rendered %s", strings.Join(p.formats, ", "))
	for _, format := range p.formats {
		printFile(paths[format])
	}
	printStats(p.frames, p.cacheHit)
	return nil
}

// outputPaths names the file of each format. A single format takes output
// verbatim; several formats share output (or base) as a stem.
func outputPaths(output, base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	stem := base
	if output != "" {
		stem = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = stem + "." + f
	}
	return paths
}

// printJSON writes data, syntax-highlighted when color is set.
func printJSON(w io.Writer, data []byte, color bool) error {
	if !color {
		_, err := w.Write(data)
		return err
	}
	if err := quick.Highlight(w, string(data), "json", "terminal256", "monokai"); err != nil {
		return fmt.Errorf("highlight json: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
