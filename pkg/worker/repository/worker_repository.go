package repository

import (
	"context"

	"farmwork/entities"
)

// WorkerRepository reads and seeds workers. Workers are managed elsewhere;
// scheduling only needs lookups.
type WorkerRepository interface {
	Create(ctx context.Context, w *entities.Worker) error
	FindByID(ctx context.Context, id string) (*entities.Worker, error)
	FindByEmail(ctx context.Context, email string) (*entities.Worker, error)
}
