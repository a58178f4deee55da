package models

// ZoneID identifies a storage partition on the remote backend. The default
// zone is where the interactive write path lands records; it does not support
// sharing, which is why the sharing coordinator materializes records into a
// dedicated collaboration zone first.
type ZoneID struct {
	Name string `json:"name"`
}

// DefaultZone is the backend's write-through zone.
var DefaultZone = ZoneID{Name: "_defaultZone"}

// RecordID identifies a single record within a zone.
type RecordID struct {
	Name string `json:"name"`
	Zone ZoneID `json:"zone"`
}

// Record types known to the coordinator.
const (
	RecordTypeTrip     = "Trip"
	RecordTypeActivity = "Activity"
	RecordTypeLodging  = "Lodging"
	RecordTypeShare    = "Share"
)

// RemoteRecord is the backend's unit of storage: a typed bag of fields with a
// change tag for optimistic concurrency. The coordinator treats field values
// as opaque JSON-compatible data.
type RemoteRecord struct {
	ID        RecordID       `json:"id"`
	Type      string         `json:"type"`
	Fields    map[string]any `json:"fields"`
	ChangeTag string         `json:"change_tag,omitempty"`
}

// InZone returns a copy of the record re-addressed into zone, preserving all
// fields. Used when copying a default-zone record into the collaboration
// zone.
func (r RemoteRecord) InZone(zone ZoneID) RemoteRecord {
	cp := r
	cp.ID = RecordID{Name: r.ID.Name, Zone: zone}
	cp.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		cp.Fields[k] = v
	}
	cp.ChangeTag = ""
	return cp
}

// AccountStatus is the backend account state as reported by the
// account-status query.
type AccountStatus int

const (
	AccountStatusUnknown AccountStatus = iota
	AccountStatusNoAccount
	AccountStatusRestricted
	AccountStatusAvailable
	AccountStatusTemporarilyUnavailable
)

func (s AccountStatus) String() string {
	switch s {
	case AccountStatusNoAccount:
		return "noAccount"
	case AccountStatusRestricted:
		return "restricted"
	case AccountStatusAvailable:
		return "available"
	case AccountStatusTemporarilyUnavailable:
		return "temporarilyUnavailable"
	default:
		return "couldNotDetermine"
	}
}
