package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errTenantNameRequired = errors.New("tenant name is required")
	errBucketInvalid      = errors.New("bucket name must be 3-63 lowercase alphanumeric characters, dots or hyphens")
	errUsernameRequired   = errors.New("database username is required")
	errSecretRequired     = errors.New("value is required")
	errTagRequired        = errors.New("image tag is required")
)
