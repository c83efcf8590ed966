package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/tabdex/file"
	"github.com/jsphweid/tabdex/model"
)

// Summary describes a finished run.
type Summary struct {
	RunID       string
	FileNums    model.FileNumToScorePath
	Results     []Result
	Transcoded  int
	Failed      int
	Faults      int
	Interrupted bool
	Elapsed     time.Duration
}

// Run transcodes every document of src into sink using workers
// goroutines. A failing document is recorded in the summary and never
// stops the others. Cancelling ctx stops the run between documents.
func Run(ctx context.Context, src Source, sink Sink, workers int, log *slog.Logger) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: uuid.New().String()}
	log = log.With("run_id", summary.RunID)

	names, err := src.Names()
	if err != nil {
		return summary, fmt.Errorf("list documents: %w", err)
	}
	summary.FileNums = file.CreateFileNumMap(names)

	if workers <= 0 {
		workers = 1
	}

	jobs := make([]job, 0, len(summary.FileNums))
	owners := make(map[string]string)
	for num := uint32(0); num < uint32(len(summary.FileNums)); num++ {
		name := summary.FileNums[num]
		j := job{fileNum: num, name: name, rel: src.Rel(name)}
		out := file.OutputName(j.rel)
		if owner, taken := owners[out]; taken {
			j.conflict = owner
		} else {
			owners[out] = name
		}
		jobs = append(jobs, j)
	}

	queue := make(chan job)
	results := make(chan Result)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := NewWorker(src, sink, log)
			for j := range queue {
				results <- w.Process(ctx, j)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, j := range jobs {
			select {
			case <-ctx.Done():
				return
			case queue <- j:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	byNum := make(map[uint32]Result, len(summary.FileNums))
	for res := range results {
		byNum[res.FileNum] = res
	}

	for num := uint32(0); num < uint32(len(summary.FileNums)); num++ {
		res, ok := byNum[num]
		if !ok {
			summary.Interrupted = true
			continue
		}
		summary.Results = append(summary.Results, res)
		summary.Faults += res.Faults
		if res.Err != nil {
			summary.Failed++
		} else {
			summary.Transcoded++
		}
	}
	summary.Elapsed = time.Since(start)

	log.Info("run finished",
		"documents", len(summary.FileNums),
		"transcoded", summary.Transcoded,
		"failed", summary.Failed,
		"faults", summary.Faults,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}
