package chatbot

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Artifact names one of the pre-built inputs.
type Artifact string

const (
	ArtifactVocabulary Artifact = "vocabulary"
	ArtifactLabels     Artifact = "labels"
	ArtifactClassifier Artifact = "classifier"
	ArtifactIntents    Artifact = "intents"
	ArtifactTokenizer  Artifact = "tokenizer"
)

// LoadFailure classifies why an artifact could not be loaded.
type LoadFailure int

const (
	FailureOther LoadFailure = iota
	FailureNotFound
	FailureParse
)

func (f LoadFailure) String() string {
	switch f {
	case FailureNotFound:
		return "not found"
	case FailureParse:
		return "parse error"
	default:
		return "unexpected error"
	}
}

// ArtifactError reports a failed artifact load.
type ArtifactError struct {
	Artifact Artifact
	Path     string
	Failure  LoadFailure
	Err      error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("load %s %s: %s: %v", e.Artifact, e.Path, e.Failure, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

func notFoundOr(artifact Artifact, path string, err error) *ArtifactError {
	failure := FailureOther
	if errors.Is(err, fs.ErrNotExist) {
		failure = FailureNotFound
	}
	return &ArtifactError{Artifact: artifact, Path: path, Failure: failure, Err: err}
}

func parseError(artifact Artifact, path string, err error) *ArtifactError {
	return &ArtifactError{Artifact: artifact, Path: path, Failure: FailureParse, Err: err}
}

var (
	// ErrNoCandidates is returned when selecting from an empty candidate list.
	ErrNoCandidates = errors.New("no intent cleared the confidence threshold")
	// ErrIntentTableUnavailable is returned when the intent table failed to load.
	ErrIntentTableUnavailable = errors.New("intent table unavailable")
)

// UnmatchedTagError is returned when the top label has no intent record.
type UnmatchedTagError struct {
	Tag     string
	Similar []string
}

func (e *UnmatchedTagError) Error() string {
	msg := fmt.Sprintf("no response configured for tag %q", e.Tag)
	if len(e.Similar) > 0 {
		msg += fmt.Sprintf(" (similar: %s)", strings.Join(e.Similar, ", "))
	}
	return msg
}
