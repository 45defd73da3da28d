package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTargetNotFound      = errors.New("target construct not found")
	ErrBackupFailed        = errors.New("backup failed")
	ErrNoBackup            = errors.New("no backup exists for file")
	ErrUniquenessViolation = errors.New("duplicate active task for (file, line, kind)")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidKind         = errors.New("invalid task kind")
	ErrNotInitialized      = errors.New("docmark not initialized (run 'docmark init' first)")
	ErrAlreadyInitialized  = errors.New("docmark already initialized")
	ErrNoSuggestion        = errors.New("task has no suggestion")
	ErrEmptySuggestion     = errors.New("suggestion cannot be empty")
	ErrConfigExists        = errors.New("config file already exists")
)
