package matching

import (
	"context"
	"sort"
	"sync"

	"resumescreen/internal/types"
)

// batchConcurrency caps in-flight Match calls so a large batch doesn't flood
// the embedding backend.
const batchConcurrency = 4

// MatchBatch scores one resume against every job and returns results ordered
// best first, 1-based ranks assigned after sorting. Score ties sort by job ID
// so the ordering is stable across runs. The first error aborts the batch.
func (e *Engine) MatchBatch(ctx context.Context, resume *types.StructuredResume, jobs []*types.JobSpec) ([]types.RankedMatch, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]types.RankedMatch, len(jobs))
	sem := make(chan struct{}, batchConcurrency)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job *types.JobSpec) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			match, err := e.Match(ctx, resume, job)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
				return
			}
			results[i] = types.RankedMatch{
				JobID:       job.ID,
				JobTitle:    job.Title,
				MatchResult: *match,
			}
		}(i, job)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].OverallScore != results[j].OverallScore {
			return results[i].OverallScore > results[j].OverallScore
		}
		return results[i].JobID < results[j].JobID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}
