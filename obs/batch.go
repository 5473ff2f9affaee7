package obs

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/advobs/gamestate"
)

// parallelThreshold is the minimum job count to fan out across goroutines.
// Below this, a single goroutine is faster.
const parallelThreshold = 16

// Job pairs an acting player with the snapshot it observes.
type Job struct {
	Player *gamestate.Player
	State  *gamestate.GameState
}

// BuildAll returns one observation per roster entry of state, in roster order.
func (b *Builder) BuildAll(state *gamestate.GameState) [][]float32 {
	jobs := make([]Job, len(state.Players))
	for i := range state.Players {
		jobs[i] = Job{Player: &state.Players[i], State: state}
	}
	return b.BuildBatch(jobs)
}

// BuildBatch builds every job and returns the observations in job order.
// States are only read; callers must not mutate them until BuildBatch returns.
func (b *Builder) BuildBatch(jobs []Job) [][]float32 {
	out := make([][]float32, len(jobs))
	n := len(jobs)
	if n < parallelThreshold {
		b.buildChunk(jobs, out, 0, n)
		return out
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}
	chunk := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			b.buildChunk(jobs, out, start, end)
		}(start, end)
	}
	wg.Wait()
	return out
}

// buildChunk fills out[start:end]. Chunks never overlap, so workers share out
// without locking.
func (b *Builder) buildChunk(jobs []Job, out [][]float32, start, end int) {
	for i := start; i < end; i++ {
		out[i] = b.Build(jobs[i].Player, jobs[i].State)
	}
}
