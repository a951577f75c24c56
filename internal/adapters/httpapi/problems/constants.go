package problems

const (
	StatusClientClosedRequest = 499

	ErrorURLRequired      = "Valid URL is required"
	ErrorInvalidURL       = "Invalid URL format"
	ErrorInvalidJSON      = "Invalid JSON body"
	ErrorCreateFailed     = "Failed to create QR code"
	ErrorNotFound         = "QR code not found"
	ErrorAnalyticsFailed  = "Failed to fetch analytics"
	ErrorListFailed       = "Failed to list QR codes"
	ErrorEndpointNotFound = "Endpoint not found"
	ErrorTooManyRequests  = "Too many requests, please try again later."
	ErrorTimeout          = "Request timed out"
	ErrorRequestCanceled  = "Request canceled"
	ErrorInternal         = "Internal server error"

	// Plain-text bodies for the redirect route.
	TextInvalidID = "Invalid QR code ID"
	TextNotFound  = "QR code not found"
	TextInternal  = "Internal server error"
)
