package arena

import (
	"sync"

	"github.com/charmbracelet/log"
)

const recorderWorkersCount = 2

// ResultRecorder drains finished rounds into the history store off the
// match goroutine.
type ResultRecorder struct {
	results chan RoundResult
	history *RoundHistory
	logger  *log.Logger
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewResultRecorder(history *RoundHistory, logger *log.Logger) *ResultRecorder {
	if logger == nil {
		logger = log.Default()
	}
	r := &ResultRecorder{
		results: make(chan RoundResult, 8),
		history: history,
		logger:  logger,
	}
	for w := 1; w <= recorderWorkersCount; w++ {
		r.wg.Add(1)
		go r.recordWorker()
	}
	return r
}

// Record queues a result; it is the callback handed to WithRoundRecorder.
// Results arriving after Close are dropped.
func (r *ResultRecorder) Record(result RoundResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn("Round recorded after shutdown, dropping", "round", result.Round)
		return
	}
	r.results <- result
}

func (r *ResultRecorder) recordWorker() {
	defer r.wg.Done()
	for result := range r.results {
		if err := r.history.SaveRound(result); err != nil {
			r.logger.Error("Round persist failed", "round", result.Round, "error", err)
		}
	}
}

// Close stops accepting results and waits for queued ones to be written.
func (r *ResultRecorder) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.results)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
