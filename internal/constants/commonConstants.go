package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixRoles   CachePrefix = "ROLES_"
	CachePrefixSession CachePrefix = "SESSION_"
	// CachePrefixSessionRevoked marks the instant all of a user's sessions were revoked.
	CachePrefixSessionRevoked CachePrefix = "SESSION_REVOKED_"
)

const (
	// UIDPrefix starts every member uid, e.g. BSG001.
	UIDPrefix = "BSG"
	// UIDCounterName is the uid_counters row backing member uids.
	UIDCounterName = "member_uid"
	// DefaultCollegeName fills profiles created without one.
	DefaultCollegeName = "Silver Oak University"
	// DateLayout is the wire and storage format of calendar dates.
	DateLayout = "2006-01-02"
	// DefaultSignedURLTTLSeconds is applied whenever a blob reference is re-signed.
	DefaultSignedURLTTLSeconds = 3600
)

const (
	MsgInvalidJSON      = "invalid JSON"
	MsgMissingID        = "id is required"
	MsgUnauthorized     = "Unauthorized"
	MsgAdminOrCoordOnly = "admin or coordinator role required"
	MsgAdminOnly        = "admin role required"
	MsgTooManyRequests  = "Too many requests"
	MsgUnknownMember    = "Unknown"
	MsgUnknownMemberUID = "N/A"
	MsgUnknownResource  = "Unknown resource"
)
