package fieldgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options defines the inputs of one generation run.
type Options struct {
	// Dir is the package directory holding the object types.
	Dir string
	// Types lists the struct types that receive accessor tables.
	Types []string
	// OutputPath is the generated file, relative to Dir unless absolute.
	OutputPath string
}

// Run loads the package, renders the accessor tables and writes them out.
func Run(opts Options) error {
	if err := validateOptions(opts); err != nil {
		return err
	}

	file, err := Load(opts.Dir, opts.Types)
	if err != nil {
		return err
	}
	src, err := Render(file)
	if err != nil {
		return err
	}

	output := opts.OutputPath
	if !filepath.IsAbs(output) {
		output = filepath.Join(opts.Dir, output)
	}
	tmp := output + ".tmp"
	if err := os.WriteFile(tmp, src, 0o644); err != nil {
		return fmt.Errorf("fieldgen: failed writing output %s: %w", output, err)
	}
	if err := os.Rename(tmp, output); err != nil {
		return fmt.Errorf("fieldgen: failed replacing output %s: %w", output, err)
	}
	return nil
}

func validateOptions(opts Options) error {
	if strings.TrimSpace(opts.Dir) == "" {
		return fmt.Errorf("fieldgen: package directory is required")
	}
	if len(opts.Types) == 0 {
		return fmt.Errorf("fieldgen: at least one type is required")
	}
	if strings.TrimSpace(opts.OutputPath) == "" {
		return fmt.Errorf("fieldgen: output path is required")
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return fmt.Errorf("fieldgen: unable to stat package directory %s: %w", opts.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fieldgen: package path %s is not a directory", opts.Dir)
	}
	return nil
}

// SplitTypes parses a comma separated -type flag value.
func SplitTypes(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
