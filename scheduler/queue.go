package scheduler

import (
	"fmt"

	conq "github.com/enriquebris/goconcurrentqueue"
	"go.uber.org/zap"
)

type fifo interface {
	Enqueue(*sweepTask) error
	Dequeue() (*sweepTask, error)
	GetLen() int
}

type conqFIFO struct {
	conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: *conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(t *sweepTask) error {
	return c.FIFO.Enqueue(t)
}

func (c *conqFIFO) Dequeue() (*sweepTask, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*sweepTask), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

// SweepQueue is a bounded FIFO of pending benchmark runs shared by the
// sweep workers.
type SweepQueue struct {
	fifo    fifo
	maxSize int
}

func NewSweepQueue(maxSize int) *SweepQueue {
	return &SweepQueue{
		fifo:    newConqFIFO(),
		maxSize: maxSize,
	}
}

func (q *SweepQueue) Put(t *sweepTask) error {
	if q.maxSize > 0 && q.maxSize <= q.fifo.GetLen() {
		err := fmt.Errorf("failed to put task %d. Sweep queue is full", t.index)
		zap.L().Info(err.Error())
		return err
	}
	zap.L().Debug(fmt.Sprintf("Putting task %d to sweep queue", t.index))
	return q.fifo.Enqueue(t)
}

// Take returns the next task, or an error once the queue is empty.
func (q *SweepQueue) Take() (*sweepTask, error) {
	t, err := q.fifo.Dequeue()
	if err != nil {
		zap.L().Debug("no task in sweep queue.", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (q *SweepQueue) GetCurrentSize() int {
	return q.fifo.GetLen()
}
