package directory

// Snapshot bundles everything a single suggestion call reads. The
// engine never mutates it; callers rebuild or update the directories
// between calls as client state changes.
type Snapshot struct {
	Users   *UserDirectory
	Streams *StreamDirectory
	Topics  *TopicHistory
	Huddles *HuddleHistory

	// Self is the client's own account, used for "sent by me" and for
	// excluding the client from group conversation keys.
	Self User

	// CurrentStream names the stream open in the surrounding view,
	// empty when the client is not narrowed to a stream.
	CurrentStream string

	// Spectator marks an unauthenticated viewer. Spectators only get
	// stream, topic and has suggestions.
	Spectator bool
}

// NewSnapshot builds an empty snapshot for the given account, with no
// topic backfill wired. Tests and the interactive shell start here.
func NewSnapshot(self User) *Snapshot {
	return NewSnapshotWithFetcher(self, nil)
}

// NewSnapshotWithFetcher is NewSnapshot with server topic backfill.
func NewSnapshotWithFetcher(self User, fetcher TopicFetcher) *Snapshot {
	users := NewUserDirectory()
	users.Add(self)
	return &Snapshot{
		Users:   users,
		Streams: NewStreamDirectory(),
		Topics:  NewTopicHistory(fetcher),
		Huddles: NewHuddleHistory(self.UserID),
		Self:    self,
	}
}
