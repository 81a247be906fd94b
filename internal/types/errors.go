package types

import "errors"

// ErrJobDescriptionTooShort is returned when a job-fit request has no usable description.
var ErrJobDescriptionTooShort = errors.New("job description must be at least 10 characters")
