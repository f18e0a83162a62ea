// Package merge provides a k-way chronological merge over per-channel
// message streams belonging to one guild.
package merge

import (
	"container/heap"

	"github.com/vycdev/activityimport/internal/ingesttype"
)

// Stream is one already-sorted (by timestamp) sequence of messages,
// typically the contents of one channel export file.
type Stream struct {
	ChannelID uint64
	Messages  []ingesttype.Message
}

type heapItem struct {
	msg       ingesttype.Message
	channelID uint64
	streamIdx int
	pos       int
}

type messageHeap []heapItem

func (h messageHeap) Len() int { return len(h) }
func (h messageHeap) Less(i, j int) bool {
	if !h[i].msg.Timestamp.Equal(h[j].msg.Timestamp) {
		return h[i].msg.Timestamp.Before(h[j].msg.Timestamp)
	}
	return h[i].streamIdx < h[j].streamIdx
}
func (h messageHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *messageHeap) Push(x any)        { *h = append(*h, x.(heapItem)) }
func (h *messageHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Source emits messages from N sorted streams in non-decreasing
// timestamp order, breaking ties by stream (file) order, stably.
type Source struct {
	streams []Stream
	h       messageHeap
}

// NewSource builds a merge source over streams, which must each
// already be sorted by timestamp ascending. Empty streams are not
// seeded into the heap.
func NewSource(streams []Stream) *Source {
	s := &Source{streams: streams}
	s.h = make(messageHeap, 0, len(streams))
	for idx, st := range streams {
		if len(st.Messages) == 0 {
			continue
		}
		s.h = append(s.h, heapItem{msg: st.Messages[0], channelID: st.ChannelID, streamIdx: idx, pos: 0})
	}
	heap.Init(&s.h)
	return s
}

// ChannelMessage pairs a merged message with the channel it came from.
type ChannelMessage struct {
	ChannelID uint64
	Message   ingesttype.Message
}

// Next returns the next message in chronological (tie-broken) order,
// or false when every stream is drained.
func (s *Source) Next() (ChannelMessage, bool) {
	if s.h.Len() == 0 {
		return ChannelMessage{}, false
	}
	item := heap.Pop(&s.h).(heapItem)

	next := item.pos + 1
	stream := s.streams[item.streamIdx]
	if next < len(stream.Messages) {
		heap.Push(&s.h, heapItem{msg: stream.Messages[next], channelID: item.channelID, streamIdx: item.streamIdx, pos: next})
	}

	return ChannelMessage{ChannelID: item.channelID, Message: item.msg}, true
}
