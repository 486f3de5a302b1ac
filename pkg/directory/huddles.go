package directory

import (
	"sort"
	"strconv"
	"strings"
)

// HuddleHistory tracks which group conversations were active recently,
// keyed by the sorted ids of the participants other than the client's
// own user.
type HuddleHistory struct {
	selfID     int
	timestamps map[string]int64
}

func NewHuddleHistory(selfID int) *HuddleHistory {
	return &HuddleHistory{
		selfID:     selfID,
		timestamps: make(map[string]int64),
	}
}

// HuddleKey canonicalizes a participant id set: sorted, comma joined.
func HuddleKey(userIDs []int) string {
	ids := make([]int, len(userIDs))
	copy(ids, userIDs)
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Record notes a group conversation at the given timestamp. The
// client's own id is dropped from the key; a repeat sighting only
// moves the conversation forward in time, never back.
func (h *HuddleHistory) Record(userIDs []int, timestamp int64) {
	others := make([]int, 0, len(userIDs))
	seen := make(map[int]bool)
	for _, id := range userIDs {
		if id == h.selfID || seen[id] {
			continue
		}
		seen[id] = true
		others = append(others, id)
	}
	if len(others) < 2 {
		return
	}
	key := HuddleKey(others)
	if ts, ok := h.timestamps[key]; !ok || timestamp > ts {
		h.timestamps[key] = timestamp
	}
}

// Ranks returns each known conversation's recency rank, 1 being the
// most recent. Unknown keys are simply absent; callers treat them as
// ranking after every known one.
func (h *HuddleHistory) Ranks() map[string]int {
	keys := make([]string, 0, len(h.timestamps))
	for key := range h.timestamps {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := h.timestamps[keys[i]], h.timestamps[keys[j]]
		if ti != tj {
			return ti > tj
		}
		return keys[i] < keys[j]
	})
	ranks := make(map[string]int, len(keys))
	for i, key := range keys {
		ranks[key] = i + 1
	}
	return ranks
}

// Len reports how many conversations are on record.
func (h *HuddleHistory) Len() int {
	return len(h.timestamps)
}
