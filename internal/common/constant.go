package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// authenticated requests.
const AuthorizationHeaderName = "Authorization"

// MaxUploadSizeBytes is the client-side upload cap. The backend enforces the
// same limit; rejecting locally avoids a pointless transfer.
const MaxUploadSizeBytes = 100 * 1024 * 1024
