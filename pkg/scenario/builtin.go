package scenario

import (
	"embed"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/callsurface/pkg/errors"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Builtins returns the names of the bundled scenarios, sorted.
func Builtins() []string {
	entries, _ := builtinFS.ReadDir("builtin")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	slices.Sort(names)
	return names
}

// Builtin parses a bundled scenario by name.
func Builtin(name string) (*Scenario, error) {
	if err := errors.ValidateScenarioName(name); err != nil {
		return nil, err
	}
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".toml"))
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound,
			"no built-in scenario %q (available: %s)", name, strings.Join(Builtins(), ", "))
	}
	return Parse(data)
}

// Resolve loads a scenario from a file path, or from the bundled set when
// ref names a built-in scenario and is not an existing file.
func Resolve(ref string) (*Scenario, error) {
	if _, err := os.Stat(ref); err != nil && slices.Contains(Builtins(), ref) {
		return Builtin(ref)
	}
	return Load(ref)
}
