package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"irx/internal/host/memhost"
	"irx/internal/trace"
)

// SnapshotExt marks session snapshot files.
const SnapshotExt = ".irxs"

// ListSnapshots expands directories in paths into the *.irxs files below
// them. Plain files are kept as given.
func ListSnapshots(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == p && !d.IsDir() {
				files = append(files, path)
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(path, SnapshotExt) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// LoadSessions decodes snapshot files concurrently. Sessions come back in
// the order of paths; the first failure cancels the rest.
func LoadSessions(ctx context.Context, paths []string, jobs int, sink ProgressSink) ([]*memhost.Session, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeSession, "load", trace.CurrentSpan(ctx).SpanID)
	defer sp.End("")

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range paths {
		emit(sink, Event{Unit: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	sessions := make([]*memhost.Session, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			emit(sink, Event{Unit: path, Stage: StageLoad, Status: StatusWorking})
			s, err := memhost.LoadFile(path)
			if err != nil {
				emit(sink, Event{Unit: path, Stage: StageLoad, Status: StatusError, Err: err})
				return fmt.Errorf("load %s: %w", path, err)
			}
			sessions[i] = s
			emit(sink, Event{Unit: path, Stage: StageLoad, Status: StatusDone})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sp.WithExtra("sessions", fmt.Sprint(len(sessions)))
	return sessions, nil
}
