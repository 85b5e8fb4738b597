package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrNameConflict       = fmt.Errorf("participant name already held by a live participant")
	ErrBatchSuperseded    = fmt.Errorf("batch superseded by a newer overlapping batch")
	ErrInvalidParticipant = fmt.Errorf("invalid participant configuration")
	ErrCommitFailed       = fmt.Errorf("mutation commit failed")
)
