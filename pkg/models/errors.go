package models

import "errors"

var (
	// ErrNotFound means a user, lesson, phrase or user word does not exist
	ErrNotFound = errors.New("not found")
	// ErrEmptyPool means there are no phrases to quiz under the current filters
	ErrEmptyPool = errors.New("no phrases to learn")
	// ErrAllWordsAdded means the vocabulary already covers every phrase
	ErrAllWordsAdded = errors.New("all phrases are already in the vocabulary")
	// ErrStaleSession means the pending card is missing or incomplete
	ErrStaleSession = errors.New("stale session")
	// ErrPersistence wraps failures of the underlying store
	ErrPersistence = errors.New("persistence failure")
)
