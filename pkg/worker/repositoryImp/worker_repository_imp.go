package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"farmwork/entities"
	"farmwork/pkg/worker/repository"
)

type workerRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.WorkerRepository { return &workerRepo{db} }

func (r *workerRepo) Create(ctx context.Context, w *entities.Worker) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// FindByID returns (nil, nil) when no worker has the id.
func (r *workerRepo) FindByID(ctx context.Context, id string) (*entities.Worker, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *workerRepo) FindByEmail(ctx context.Context, email string) (*entities.Worker, error) {
	return r.find(ctx, "email = ?", email)
}

func (r *workerRepo) find(ctx context.Context, query string, arg any) (*entities.Worker, error) {
	var w entities.Worker
	if err := r.db.WithContext(ctx).Where(query, arg).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}
