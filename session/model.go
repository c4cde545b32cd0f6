package session

// Record defines a public type used by goRelay APIs.
//
// Record instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Record struct {
	SessionID   string
	UserID      string
	DisplayName string
	Roles       []string
	SourceIP    string

	CreatedAt  int64
	LastSeenAt int64
	ExpiresAt  int64
}
