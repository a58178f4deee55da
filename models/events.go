package models

// RemoteEventKind enumerates the typed events delivered on the remote event
// feed.
type RemoteEventKind int

const (
	// EventStateUpdate reports a change in the backend's own sync engine
	// state. Informational for this layer.
	EventStateUpdate RemoteEventKind = iota
	// EventAccountChange reports that the signed-in account changed. Share
	// visibility is account-scoped, so every cached share becomes suspect.
	EventAccountChange
	// EventFetchedZoneChanges carries records modified and deleted by other
	// participants that the backend has fetched into the local view.
	EventFetchedZoneChanges
	// EventSentChanges reports that locally made changes were accepted by the
	// backend.
	EventSentChanges
)

func (k RemoteEventKind) String() string {
	switch k {
	case EventAccountChange:
		return "accountChange"
	case EventFetchedZoneChanges:
		return "fetchedRecordZoneChanges"
	case EventSentChanges:
		return "sentRecordZoneChanges"
	default:
		return "stateUpdate"
	}
}

// RemoteEvent is one entry from the asynchronous remote change feed.
// Modifications and Deletions are populated only for EventFetchedZoneChanges.
type RemoteEvent struct {
	Kind          RemoteEventKind `json:"kind"`
	Modifications []RemoteRecord  `json:"modifications,omitempty"`
	Deletions     []RecordID      `json:"deletions,omitempty"`
}
