package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"farmwork/entities"
	"farmwork/pkg/landplot/repository"
)

type landPlotRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.LandPlotRepository { return &landPlotRepo{db} }

func (r *landPlotRepo) CreateZone(ctx context.Context, z *entities.Zone) error {
	return r.db.WithContext(ctx).Create(z).Error
}

func (r *landPlotRepo) Create(ctx context.Context, p *entities.LandPlot) error {
	return r.db.WithContext(ctx).Omit("Zone").Create(p).Error
}

func (r *landPlotRepo) FindByID(ctx context.Context, id string) (*entities.LandPlot, error) {
	var p entities.LandPlot
	if err := r.db.WithContext(ctx).Preload("Zone").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *landPlotRepo) ListByZone(ctx context.Context, zoneID string) ([]entities.LandPlot, error) {
	var out []entities.LandPlot
	err := r.db.WithContext(ctx).Where("zone_id = ?", zoneID).Order("name").Find(&out).Error
	return out, err
}
