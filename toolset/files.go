package toolset

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spetersoncode/thinkact/tool"
)

// Tool names of the file tools.
const (
	ReadFileName  = "read_file"
	WriteFileName = "write_file"
	ListDirName   = "list_directory"
)

const defaultMaxFileSize = 10 << 20

// ErrOutsideRoot is returned for paths that escape the configured root.
var ErrOutsideRoot = errors.New("path is outside the workspace")

// FileOption configures the file tools.
type FileOption func(*fileConfig)

type fileConfig struct {
	root        string
	extensions  []string
	maxFileSize int64
	readOnly    bool
}

// WithRoot confines every path to dir. Relative paths resolve against it.
func WithRoot(dir string) FileOption {
	return func(c *fileConfig) {
		c.root = dir
	}
}

// WithExtensions limits the tools to files with the given extensions.
func WithExtensions(exts ...string) FileOption {
	return func(c *fileConfig) {
		c.extensions = exts
	}
}

// WithMaxFileSize caps the bytes read or written per call. Default 10MB.
func WithMaxFileSize(n int64) FileOption {
	return func(c *fileConfig) {
		c.maxFileSize = n
	}
}

// ReadOnly leaves write_file out of Files.
func ReadOnly() FileOption {
	return func(c *fileConfig) {
		c.readOnly = true
	}
}

func newFileConfig(opts []FileOption) *fileConfig {
	cfg := &fileConfig{maxFileSize: defaultMaxFileSize}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// resolve maps a tool-supplied path onto the filesystem.
func (c *fileConfig) resolve(path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	path = filepath.Clean(path)
	if c.root == "" {
		return path, nil
	}

	root := filepath.Clean(c.root)
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(root, path)
	}
	if !within(root, full) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	// Symlinks inside the root must not lead out of it.
	realRoot, err := evalExisting(root)
	if err != nil {
		return "", err
	}
	realFull, err := evalExisting(full)
	if err != nil {
		return "", err
	}
	if !within(realRoot, realFull) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return full, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalExisting resolves symlinks in the longest existing prefix of path and
// appends the remaining, not yet created, elements unchanged.
func evalExisting(path string) (string, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		// A dangling link would let a write create its target anywhere.
		if _, lerr := os.Lstat(path); lerr == nil {
			return "", fmt.Errorf("%w: dangling link %s", ErrOutsideRoot, path)
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", err
		}
		rest = append(rest, filepath.Base(path))
		path = parent
	}
}

func (c *fileConfig) checkExtension(path string) error {
	if len(c.extensions) == 0 {
		return nil
	}
	ext := filepath.Ext(path)
	for _, allowed := range c.extensions {
		if ext == allowed || ext == "."+allowed {
			return nil
		}
	}
	return fmt.Errorf("extension %q not allowed", ext)
}

// display renders path relative to the root when one is set.
func (c *fileConfig) display(path string) string {
	if c.root == "" {
		return path
	}
	if rel, err := filepath.Rel(filepath.Clean(c.root), path); err == nil {
		return rel
	}
	return path
}

// ReadFileArgs are the arguments of read_file.
type ReadFileArgs struct {
	Path      string `json:"path" desc:"Path of the file to read" required:"true"`
	StartLine int    `json:"start_line,omitempty" desc:"First line to return, 1-based"`
	EndLine   int    `json:"end_line,omitempty" desc:"Last line to return, inclusive"`
}

// WriteFileArgs are the arguments of write_file.
type WriteFileArgs struct {
	Path    string `json:"path" desc:"Path of the file to write" required:"true"`
	Content string `json:"content" desc:"Text to write" required:"true"`
	Append  bool   `json:"append,omitempty" desc:"Append instead of overwriting"`
}

// ListDirArgs are the arguments of list_directory.
type ListDirArgs struct {
	Path      string `json:"path" desc:"Directory to list" required:"true"`
	Recursive bool   `json:"recursive,omitempty" desc:"Include subdirectories"`
}

// Files returns read_file, list_directory and, unless ReadOnly is given,
// write_file.
func Files(opts ...FileOption) []tool.Registration {
	cfg := newFileConfig(opts)
	regs := []tool.Registration{
		tool.Func(ReadFileName, "Read a text file, optionally a range of lines", cfg.readFile),
		tool.Func(ListDirName, "List the entries of a directory", cfg.listDir),
	}
	if !cfg.readOnly {
		regs = append(regs, tool.Func(WriteFileName, "Write text to a file, creating parent directories", cfg.writeFile))
	}
	return regs
}

func (c *fileConfig) readFile(ctx context.Context, args ReadFileArgs) (string, error) {
	path, err := c.resolve(args.Path)
	if err != nil {
		return "", err
	}
	if err := c.checkExtension(path); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", args.Path)
	}
	if info.Size() > c.maxFileSize {
		return "", fmt.Errorf("file size %d exceeds maximum %d", info.Size(), c.maxFileSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if args.StartLine == 0 && args.EndLine == 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return lineRange(f, args.StartLine, args.EndLine)
}

// lineRange returns lines start..end (1-based, inclusive). Zero start means
// the first line; zero end means the last.
func lineRange(r io.Reader, start, end int) (string, error) {
	if start == 0 {
		start = 1
	}
	if start < 1 {
		return "", fmt.Errorf("start_line must be >= 1, got %d", start)
	}
	if end != 0 && end < start {
		return "", fmt.Errorf("end_line (%d) must be >= start_line (%d)", end, start)
	}

	scanner := bufio.NewScanner(r)
	var lines []string
	n := 0
	for scanner.Scan() {
		n++
		if n < start {
			continue
		}
		if end != 0 && n > end {
			break
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if n < start {
		return "", fmt.Errorf("start_line %d is beyond file length (%d lines)", start, n)
	}
	return strings.Join(lines, "\n"), nil
}

func (c *fileConfig) writeFile(ctx context.Context, args WriteFileArgs) (string, error) {
	path, err := c.resolve(args.Path)
	if err != nil {
		return "", err
	}
	if err := c.checkExtension(path); err != nil {
		return "", err
	}
	if int64(len(args.Content)) > c.maxFileSize {
		return "", fmt.Errorf("content size %d exceeds maximum %d", len(args.Content), c.maxFileSize)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if args.Append {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return "", err
	}
	n, err := f.WriteString(args.Content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	verb := "wrote"
	if args.Append {
		verb = "appended"
	}
	return fmt.Sprintf("%s %d bytes to %s", verb, n, c.display(path)), nil
}

type dirEntry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size,omitempty"`
}

func (c *fileConfig) listDir(ctx context.Context, args ListDirArgs) (string, error) {
	dir, err := c.resolve(args.Path)
	if err != nil {
		return "", err
	}

	entries := []dirEntry{}
	if args.Recursive {
		err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if p == dir {
				return nil
			}
			rel, _ := filepath.Rel(dir, p)
			entries = append(entries, newDirEntry(rel, d))
			return nil
		})
	} else {
		var des []os.DirEntry
		des, err = os.ReadDir(dir)
		for _, d := range des {
			entries = append(entries, newDirEntry(d.Name(), d))
		}
	}
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(struct {
		Path    string     `json:"path"`
		Entries []dirEntry `json:"entries"`
	}{Path: c.display(dir), Entries: entries})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func newDirEntry(path string, d fs.DirEntry) dirEntry {
	e := dirEntry{Path: filepath.ToSlash(path), IsDir: d.IsDir()}
	if !e.IsDir {
		if info, err := d.Info(); err == nil {
			e.Size = info.Size()
		}
	}
	return e
}
