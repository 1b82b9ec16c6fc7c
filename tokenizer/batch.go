package tokenizer

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// numWorkers picks the batch executor's concurrency: the TIKTOKEN_NUM_THREADS
// override if set and valid, otherwise GOMAXPROCS. Mirrors the reference
// encoder's num_threads handling, where a thread pool size of 0 or fewer
// falls back to the runtime default rather than erroring.
func numWorkers() int {
	if v := os.Getenv("TIKTOKEN_NUM_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}

// EncodeOrdinaryBatch runs EncodeOrdinary over every input concurrently,
// bounded to numWorkers() in flight, and returns results in input order.
// Component C6's contract: results preserve order regardless of completion
// order. EncodeOrdinary cannot fail, so the only error returned is the
// caller's context error when ctx is cancelled before a task starts.
func (c *Core) EncodeOrdinaryBatch(ctx context.Context, texts []string) ([][]Rank, error) {
	out := make([][]Rank, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers())
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = c.EncodeOrdinary(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeBatch is EncodeOrdinaryBatch's special-token-aware counterpart. The
// first worker to hit a disallowed special token cancels the shared
// errgroup context, and that worker's error is returned; tasks that start
// after the cancellation see ctx.Err() and return without encoding, while
// tasks already encoding run to completion.
func (c *Core) EncodeBatch(ctx context.Context, texts []string, allowedSpecial, disallowedSpecial map[string]struct{}) ([][]Rank, error) {
	out := make([][]Rank, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers())
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			toks, err := c.Encode(text, allowedSpecial, disallowedSpecial)
			if err != nil {
				return err
			}
			out[i] = toks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
