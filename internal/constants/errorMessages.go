package constants

const (
	MsgInvalidBody        = "Invalid request body"
	MsgSearchFailed       = "Failed to search locations"
	MsgLocationSaved      = "Location saved"
	MsgLocationExists     = "Location already exists"
	MsgTripNotFound       = "Trip not found or unauthorized"
	MsgTripCreated        = "Trip created"
	MsgTripDeleted        = "Trip deleted successfully"
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailTaken         = "Email is already registered"
	MsgUnauthorized       = "Unauthorized"
	MsgGuestOnly          = "Only guest sessions can be promoted"
	MsgUserOnly           = "A registered account is required"
	MsgAdminOnly          = "Admin access required"
	MsgInternalError      = "Internal server error"
	MsgMissingToken       = "Unauthorized. Missing bearer token"
	MsgInvalidToken       = "Unauthorized. Invalid or expired token"
	MsgTooManyRequests    = "Too many requests"
	MsgNotFound           = "Not found"
)
