// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package climodule provides command line modules: executables that
// describe their parameters as XML when run with --xml, and that are run
// as separate processes with parameters taken from a scene node.
package climodule

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	cerrors "cogentcore.org/core/base/errors"
	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the default time an executable is given
// to print its XML description.
const DefaultTimeout = 5 * time.Second

// LoadError records why an executable could not be loaded as a module,
// along with the warnings found while loading it.
type LoadError struct {
	Path     string
	Warnings []string
	Errors   []string
}

func (le *LoadError) Error() string {
	return fmt.Sprintf("command line module %s: %s", le.Path, strings.Join(le.Errors, "; "))
}

// Factory finds the command line modules in a list of directories.
type Factory struct {

	// SearchPaths are the directories searched for module executables.
	SearchPaths []string

	// Timeout is the time an executable is given to print its
	// description. It defaults to [DefaultTimeout].
	Timeout time.Duration

	// TempDir is the directory in which modules are run.
	// It defaults to [os.TempDir].
	TempDir string

	// Cache, if set, stores the descriptions of the executables.
	Cache *Cache
}

// NewFactory returns a new factory for the given search paths.
func NewFactory(paths ...string) *Factory {
	return &Factory{SearchPaths: paths, Timeout: DefaultTimeout, TempDir: os.TempDir()}
}

// Candidates returns the paths of the module executables found in the
// search paths, in order. Directories that can not be read are skipped.
func (f *Factory) Candidates() []string {
	var res []string
	for _, dir := range f.SearchPaths {
		ents, err := os.ReadDir(dir)
		if err != nil {
			slog.Warn("climodule: skipping search path", "path", dir, "err", err)
			continue
		}
		for _, e := range ents {
			p := filepath.Join(dir, e.Name())
			if !slices.Contains(res, p) && IsExecutable(p) {
				res = append(res, p)
			}
		}
	}
	return res
}

// Scan runs every candidate executable with --xml in parallel and
// returns the modules that described themselves correctly, in the order
// of [Factory.Candidates], and the errors of the other executables.
// A failing executable never stops the scan of the others.
func (f *Factory) Scan(ctx context.Context) ([]*Module, []*LoadError) {
	paths := f.Candidates()
	mods := make([]*Module, len(paths))
	errs := make([]*LoadError, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		g.Go(func() error {
			mods[i], errs[i] = f.Load(gctx, p)
			return nil
		})
	}
	g.Wait()
	var loaded []*Module
	var failed []*LoadError
	for i := range paths {
		if errs[i] != nil {
			cerrors.Log(errs[i])
			failed = append(failed, errs[i])
			continue
		}
		loaded = append(loaded, mods[i])
	}
	slog.Info("climodule: scanned modules", "loaded", len(loaded), "failed", len(failed))
	return loaded, failed
}

// Load loads the module executable at the given path.
func (f *Factory) Load(ctx context.Context, path string) (*Module, *LoadError) {
	le := &LoadError{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		le.Errors = append(le.Errors, err.Error())
		return nil, le
	}
	var desc []byte
	cached := false
	if f.Cache != nil {
		desc, cached = f.Cache.Get(path, info)
	}
	if !cached {
		desc, le.Warnings, err = f.describe(ctx, path)
		if err != nil {
			le.Errors = append(le.Errors, err.Error())
			return nil, le
		}
	}
	d, warnings, err := ParseDescription(desc)
	le.Warnings = append(le.Warnings, warnings...)
	if err != nil {
		le.Errors = append(le.Errors, err.Error())
		return nil, le
	}
	if f.Cache != nil && !cached {
		cerrors.Log(f.Cache.Put(path, info, desc))
	}
	for _, w := range le.Warnings {
		slog.Warn("climodule: loading module", "path", path, "warning", w)
	}
	m := NewModule(ModuleName(path), path, d)
	m.TempDir = f.TempDir
	m.Warnings = le.Warnings
	return m, nil
}

// describe runs the executable with --xml and returns its description,
// with any output before the XML declaration stripped.
func (f *Factory) describe(ctx context.Context, path string) ([]byte, []string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, path, "--xml")
	cmd.Dir = filepath.Dir(path)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if ctx.Err() != nil {
		return nil, nil, fmt.Errorf("no XML description within %v", timeout)
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, nil, fmt.Errorf("running with --xml: %w", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil, errors.New("failed to retrieve XML description")
	}
	var warnings []string
	i := bytes.Index(out, []byte("<?xml"))
	switch {
	case i < 0:
		return nil, nil, errors.New("output is not an XML description")
	case i > 0:
		warnings = append(warnings, fmt.Sprintf("XML description does not start right away; output before '<?xml' is [%s]", out[:i]))
		out = out[i:]
	}
	return out, warnings, nil
}

// IsExecutable returns whether the file at the given path can be a
// module: a regular file with an executable mode that is a binary
// executable or a script starting with a shebang line.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return false
	}
	fh, err := os.Open(path)
	if err != nil {
		return false
	}
	defer fh.Close()
	head := make([]byte, 262)
	n, err := io.ReadFull(fh, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	head = head[:n]
	if bytes.HasPrefix(head, []byte("#!")) {
		return true
	}
	kind, _ := filetype.Match(head)
	switch kind.Extension {
	case "elf", "exe", "macho":
		return true
	}
	return false
}

// ModuleName returns the module name for the executable at the given
// path: its lowercase base name without extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
