// Implements the ArrivalQueue, which holds flows that have not reached their start time.
// Flows leave it for the active set once the clock reaches their StartTime.

package sim

import (
	"fmt"
	"sort"
	"strings"
)

// ArrivalQueue holds not-yet-eligible flows ordered by (StartTime, Index).
type ArrivalQueue struct {
	queue []*Flow
}

// NewArrivalQueue returns a queue holding flows in arrival order.
// Flows with equal start times keep their index order.
func NewArrivalQueue(flows []*Flow) *ArrivalQueue {
	q := &ArrivalQueue{queue: make([]*Flow, len(flows))}
	copy(q.queue, flows)
	sort.SliceStable(q.queue, func(i, j int) bool {
		if q.queue[i].StartTime != q.queue[j].StartTime {
			return q.queue[i].StartTime < q.queue[j].StartTime
		}
		return q.queue[i].Index < q.queue[j].Index
	})
	return q
}

func (aq *ArrivalQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, f := range aq.queue {
		sb.WriteString(fmt.Sprintf("%d@%g", f.Index, f.StartTime))
		if i < len(aq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of flows still waiting to arrive.
func (aq *ArrivalQueue) Len() int {
	return len(aq.queue)
}

// Peek returns the next flow to arrive without removing it.
// Returns nil if the queue is empty.
func (aq *ArrivalQueue) Peek() *Flow {
	if len(aq.queue) == 0 {
		return nil
	}
	return aq.queue[0]
}

// DequeueArrived removes and returns the next flow if it has arrived by now, else nil.
func (aq *ArrivalQueue) DequeueArrived(now float64) *Flow {
	if len(aq.queue) == 0 || aq.queue[0].StartTime > now {
		return nil
	}
	f := aq.queue[0]
	aq.queue[0] = nil
	aq.queue = aq.queue[1:]
	return f
}
