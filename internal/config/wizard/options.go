package wizard

import "github.com/charmbracelet/huh"

// Flow source kinds.
const (
	SourceLocal = "local"
	SourceS3    = "s3"
)

// FlowSourceOptions lists where flow roots can live.
var FlowSourceOptions = []huh.Option[string]{
	huh.NewOption("Local directories (Recommended)", SourceLocal),
	huh.NewOption("S3-compatible bucket", SourceS3),
}

// LoginAttemptOptions bounds the superuser login retries.
var LoginAttemptOptions = []huh.Option[int]{
	huh.NewOption("5 (fast failure)", 5),
	huh.NewOption("15 (Recommended)", 15),
	huh.NewOption("30 (slow cold starts)", 30),
	huh.NewOption("60", 60),
}
