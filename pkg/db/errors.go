package db

import "errors"

// ErrWorkerNotFound is returned when an operation targets a worker id that does not exist
var ErrWorkerNotFound = errors.New("worker not found")
