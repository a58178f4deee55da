package models

// Permission is the access level granted to a share participant.
type Permission string

const (
	PermissionNone      Permission = "none"
	PermissionReadOnly  Permission = "readOnly"
	PermissionReadWrite Permission = "readWrite"
)

// Participant is one identity attached to a share with its granted
// permission. Order matters: the first participant is the owner.
type Participant struct {
	Identity   string     `json:"identity"`
	Permission Permission `json:"permission"`
}

// Share is the remote collaboration object granting participants access to a
// root record. The remote backend owns it; the sharing coordinator only holds
// cached copies keyed by trip ID, refreshed or invalidated from the remote
// event feed.
type Share struct {
	ShareID          string        `json:"share_id"`
	RootRecordID     RecordID      `json:"root_record_id"`
	Title            string        `json:"title"`
	URL              string        `json:"url,omitempty"`
	Participants     []Participant `json:"participants"`
	PublicPermission Permission    `json:"public_permission"`
}

// ShareMetadata is what another participant receives out of band (a link or
// a push payload) and presents to AcceptShare.
type ShareMetadata struct {
	ShareID      string   `json:"share_id"`
	RootRecordID RecordID `json:"root_record_id"`
	ContainerID  string   `json:"container_id"`
}

// Valid reports whether the metadata carries enough to attempt an accept.
func (m ShareMetadata) Valid() bool {
	return m.ShareID != "" && m.RootRecordID.Name != ""
}

// SharingInfo is the answer to "is this trip shared, and with whom". The
// zero value is the canonical not-shared answer; queries that fail resolve to
// it rather than erroring.
type SharingInfo struct {
	IsShared bool  `json:"is_shared"`
	Share    Share `json:"share,omitempty"`
}

// NotShared is the canonical "no share" value.
var NotShared = SharingInfo{}
