/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Room Registry and Content Errors
const (
	// ErrRoomTypeInvalid indicates that a channel type outside {text, voice} was provided.
	ErrRoomTypeInvalid = 2101

	// ErrRoomNotFound indicates that the referenced channel id does not exist in the registry.
	ErrRoomNotFound = 2102

	// ErrFileSizeTooLarge indicates that an attachment exceeded the maximum allowed size.
	ErrFileSizeTooLarge = 2201

	// ErrAttachmentTypeInvalid indicates that the attachment file name or MIME type is not allowed.
	ErrAttachmentTypeInvalid = 2202

	// ErrAttachmentKeyInvalid indicates that the requested attachment key is malformed or out of scope.
	ErrAttachmentKeyInvalid = 2203
)

// 3xxx: Session and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the PoW proof provided by the client is invalid or incorrect.
	ErrPowChallengeInvalid = 3002

	// ErrPowChallengeInternal indicates an internal error occurred during the PoW challenge generation or validation process.
	ErrPowChallengeInternal = 3003

	// ErrUnauthorized indicates that the request requires a valid guest session token.
	ErrUnauthorized = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrStorageDisabled indicates that attachment storage is not configured on this deployment.
	ErrStorageDisabled = 5001

	// ErrFileStorageFailed indicates a failure while talking to the attachment storage backend.
	ErrFileStorageFailed = 5002
)
