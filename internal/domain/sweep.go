package domain

import "context"

type SweepJob struct {
	Name     string
	Schedule string
	Sweep    SweepExecutor
}

type SweepExecutor interface {
	Execute(ctx context.Context) error
}
