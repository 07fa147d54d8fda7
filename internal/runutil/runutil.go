// internal/runutil/runutil.go
package runutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Stdin is the path that means "read standard input".
const Stdin = "-"

// DefaultWorkers is half the CPUs, at least 1.
func DefaultWorkers() int {
	if n := runtime.NumCPU() / 2; n > 1 {
		return n
	}
	return 1
}

// IsFASTA reports whether name looks like an input file: *.fa, optionally
// gzip-compressed.
func IsFASTA(name string) bool {
	name = strings.ToLower(filepath.Base(name))
	name = strings.TrimSuffix(name, ".gz")
	return strings.HasSuffix(name, ".fa") && len(name) > len(".fa")
}

// CollectInputs expands path into the files to process: stdin, one file
// (any name), or every FASTA file directly inside a directory, sorted.
func CollectInputs(path string) ([]string, error) {
	if path == Stdin {
		return []string{Stdin}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsFASTA(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(path, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no .fa files in %s", path)
	}
	sort.Strings(out)
	return out, nil
}

// Stem strips the directory and the .fa/.gz suffixes; stdin becomes "stdin".
func Stem(input string) string {
	if input == Stdin {
		return "stdin"
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, ".gz")
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// OutputPath is <outDir>/<stem><ext>. An outDir of "-" means stdout and is
// returned unchanged.
func OutputPath(outDir, input, ext string) string {
	if outDir == Stdin {
		return Stdin
	}
	return filepath.Join(outDir, Stem(input)+ext)
}
