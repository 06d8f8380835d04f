package renderer

import (
	"context"
	"sync"
)

// ShardTask asks a worker to render more passes into one shard
type ShardTask struct {
	TaskID int // Shard index, for deterministic bookkeeping
	Shard  *Shard
	Passes int
}

// ShardResult reports how far a task got
type ShardResult struct {
	TaskID int
	Passes int // Passes actually completed
	Error  error
}

// WorkerPool manages parallel shard rendering
type WorkerPool struct {
	taskQueue   chan ShardTask
	resultQueue chan ShardResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders shard tasks one at a time
type Worker struct {
	ID          int
	ctx         context.Context
	renderer    *shardRenderer
	taskQueue   chan ShardTask
	resultQueue chan ShardResult
}

// NewWorkerPool creates a pool of numWorkers workers with queues large
// enough for maxTasks outstanding tasks
func NewWorkerPool(ctx context.Context, renderer *shardRenderer, numWorkers, maxTasks int) *WorkerPool {
	numWorkers = max(1, numWorkers)
	wp := &WorkerPool{
		taskQueue:   make(chan ShardTask, maxTasks),
		resultQueue: make(chan ShardResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			ctx:         ctx,
			renderer:    renderer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a shard task to the worker pool
func (wp *WorkerPool) SubmitTask(task ShardTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed shard result
func (wp *WorkerPool) GetResult() (ShardResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		passes, err := w.renderer.renderPasses(w.ctx, task.Shard, task.Passes)
		w.resultQueue <- ShardResult{
			TaskID: task.TaskID,
			Passes: passes,
			Error:  err,
		}
	}
}
