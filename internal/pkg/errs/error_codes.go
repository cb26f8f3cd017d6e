/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Message Business Logic Errors
const (
	// ErrMessageFormatInvalid indicates that an inbound chat payload was not valid JSON
	// or did not match the expected shape.
	ErrMessageFormatInvalid = 2001

	// ErrMessageContentEmpty indicates that the message content was empty after trimming.
	ErrMessageContentEmpty = 2002

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2003

	// ErrMessageNotSaved indicates that the message could not be persisted to history.
	// Delivery to connected clients still proceeds; this is a warning to the sender.
	ErrMessageNotSaved = 2004
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrInvalidUsername indicates that the username does not satisfy the registration rules.
	ErrInvalidUsername = 3001

	// ErrInvalidPassword indicates that the password does not satisfy the registration rules.
	ErrInvalidPassword = 3002

	// ErrUserAlreadyExists indicates that the requested username is already taken.
	ErrUserAlreadyExists = 3003

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = 3004

	// ErrInvalidToken indicates a missing, unknown, or revoked access token.
	ErrInvalidToken = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
