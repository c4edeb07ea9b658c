// Package retention runs one drm task: list the directory, select entries
// with the task's rule, then print or delete them.
package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/fs"
	"github.com/ipChrisLee/drm/internal/fsprobe"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/output"
	"github.com/ipChrisLee/drm/internal/rule"
	"github.com/ipChrisLee/drm/internal/selection"
)

// Task is everything needed for one run against one directory.
type Task struct {
	Name    string
	Dir     string
	Rule    rule.Rule
	Reverse bool
	DryRun  bool
}

// Report describes a finished run.
type Report struct {
	RunID   string
	Result  selection.Result
	Removed []string
	DryRun  bool
}

type Engine struct {
	fs      fs.FS
	log     logging.Logger
	printer *output.Printer
	now     func() time.Time
}

// New creates an engine. A nil printer silences dry-run listings.
func New(filesystem fs.FS, log logging.Logger, printer *output.Printer) *Engine {
	if filesystem == nil {
		filesystem = fs.NewOS()
	}
	return &Engine{
		fs:      filesystem,
		log:     log,
		printer: printer,
		now:     time.Now,
	}
}

// WithClock replaces the time source used as "now".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Apply runs task once. Any listing or deletion failure aborts the run;
// entries removed before the failure are reported.
func (e *Engine) Apply(ctx context.Context, task Task) (Report, error) {
	rep := Report{RunID: uuid.NewString(), DryRun: task.DryRun}
	log := logging.With(e.log, "run", rep.RunID, "task", task.Name, "dir", task.Dir)
	log.Debug("applying rule", "rule", task.Rule.String(), "reverse", task.Reverse, "dryRun", task.DryRun)

	entries, err := e.scan(task.Dir)
	if err != nil {
		return rep, err
	}

	now := e.now()
	rep.Result = selection.Select(task.Rule, now, entries, task.Reverse)
	log.Debug("selection resolved",
		"entries", len(entries),
		"filtered", len(rep.Result.Filtered),
		"start", rep.Result.Start,
		"end", rep.Result.End,
		"delete", len(rep.Result.Delete),
		"keep", len(rep.Result.Keep))

	if task.DryRun {
		if e.printer != nil {
			e.printer.DryRun(rep.Result, task.Reverse)
		}
		return rep, nil
	}

	for _, ent := range rep.Result.Delete {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := e.fs.RemoveAll(ctx, ent.Path); err != nil {
			return rep, errs.IO(err, "removing %s", ent.Path)
		}
		rep.Removed = append(rep.Removed, ent.Path)
		log.Info("removed", "path", ent.Path, "modTime", ent.ModTime)
	}

	log.Info("run complete", "removed", len(rep.Removed), "kept", len(rep.Result.Keep))
	return rep, nil
}

// scan lists the immediate children of dir.
func (e *Engine) scan(dir string) ([]selection.Entry, error) {
	st, err := e.fs.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Path("Path %s not exists.", dir)
		}
		return nil, errs.IO(err, "reading %s", dir)
	}
	if !st.IsDir() {
		return nil, errs.Path("Path %s is not a directory.", dir)
	}

	infos, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, errs.IO(err, "reading folder %s", dir)
	}

	entries := make([]selection.Entry, 0, len(infos))
	for _, fi := range infos {
		// A watcher may be probing the same directory.
		if fsprobe.IsProbeFile(fi.Name()) {
			continue
		}
		entries = append(entries, selection.FromFileInfo(filepath.Join(dir, fi.Name()), fi))
	}
	return entries, nil
}
