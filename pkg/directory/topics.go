package directory

import (
	"sort"
	"sync"

	"github.com/aloha-chat/queryserve/internal/logger"
)

var topicLog = logger.New("topics")

// TopicEntry is one topic observed in a stream, tagged with the newest
// message id seen under it. A zero id means the topic is known to exist
// but no message of it has been seen locally.
type TopicEntry struct {
	Name  string `toml:"name"`
	MaxID int    `toml:"max_id"`
}

// TopicFetcher pulls the full topic history of a stream from the
// server. Fetches run on a background goroutine owned by TopicHistory.
type TopicFetcher interface {
	FetchTopics(streamID int) ([]TopicEntry, error)
}

// TopicHistory tracks per-stream topics ordered by recency. Server
// backfills are requested fire-and-forget: the caller never blocks on
// the fetch, it just sees richer history on a later read.
type TopicHistory struct {
	mu      sync.Mutex
	streams map[int]*streamTopics

	fetcher  TopicFetcher
	requests chan int
	done     chan struct{}
	stopOnce sync.Once
}

type streamTopics struct {
	order   []string
	maxID   map[string]int
	fetched bool
}

// NewTopicHistory starts the backfill goroutine when fetcher is
// non-nil. Call Stop to shut it down.
func NewTopicHistory(fetcher TopicFetcher) *TopicHistory {
	h := &TopicHistory{
		streams:  make(map[int]*streamTopics),
		fetcher:  fetcher,
		requests: make(chan int, 16),
		done:     make(chan struct{}),
	}
	if fetcher != nil {
		go h.fetchLoop()
	}
	return h
}

// Stop ends the backfill goroutine. Safe to call more than once.
func (h *TopicHistory) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Fetcher returns the backfill source this history was built with, so
// a rebuilt history can carry it over.
func (h *TopicHistory) Fetcher() TopicFetcher {
	return h.fetcher
}

// Add records a topic sighting. Higher message ids bump recency; a
// repeat sighting with a lower id is a no-op. Insertion order breaks
// ties between topics with equal ids.
func (h *TopicHistory) Add(streamID int, topic string, messageID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stream(streamID).add(topic, messageID)
}

func (h *TopicHistory) stream(streamID int) *streamTopics {
	st, ok := h.streams[streamID]
	if !ok {
		st = &streamTopics{maxID: make(map[string]int)}
		h.streams[streamID] = st
	}
	return st
}

func (st *streamTopics) add(topic string, messageID int) {
	if prev, seen := st.maxID[topic]; seen {
		if messageID > prev {
			st.maxID[topic] = messageID
		}
		return
	}
	st.order = append(st.order, topic)
	st.maxID[topic] = messageID
}

// Recent returns the stream's topics, most recently active first.
func (h *TopicHistory) Recent(streamID int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.streams[streamID]
	if !ok {
		return nil
	}
	out := make([]string, len(st.order))
	copy(out, st.order)
	sort.SliceStable(out, func(i, j int) bool {
		return st.maxID[out[i]] > st.maxID[out[j]]
	})
	return out
}

// RequestServerHistory queues a backfill of the stream's full topic
// list. The call never blocks: with no fetcher, a fetch already done,
// or a full queue it simply returns.
func (h *TopicHistory) RequestServerHistory(streamID int) {
	if h.fetcher == nil {
		return
	}
	h.mu.Lock()
	st := h.stream(streamID)
	if st.fetched {
		h.mu.Unlock()
		return
	}
	st.fetched = true
	h.mu.Unlock()

	select {
	case h.requests <- streamID:
	case <-h.done:
	default:
		// Queue full, drop the request. A later call retries nothing,
		// which matches treating backfill as best effort.
	}
}

func (h *TopicHistory) fetchLoop() {
	for {
		select {
		case streamID := <-h.requests:
			entries, err := h.fetcher.FetchTopics(streamID)
			if err != nil {
				topicLog.Warn("topic backfill failed", "stream_id", streamID, "error", err)
				continue
			}
			h.mu.Lock()
			st := h.stream(streamID)
			for _, e := range entries {
				st.add(e.Name, e.MaxID)
			}
			h.mu.Unlock()
			topicLog.Debug("topic backfill done", "stream_id", streamID, "topics", len(entries))
		case <-h.done:
			return
		}
	}
}
