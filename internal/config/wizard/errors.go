package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errURLRequired      = errors.New("Langflow URL is required")
	errURLInvalid       = errors.New("URL must start with http:// or https:// and name a host")
	errUsernameRequired = errors.New("username is required")
	errPathRequired     = errors.New("path is required")
	errS3URIInvalid     = errors.New("S3 roots must look like s3://bucket/prefix")
	errNameInvalid      = errors.New("must be a lowercase RFC 1123 name")
)
