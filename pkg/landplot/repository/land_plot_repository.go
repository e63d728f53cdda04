package repository

import (
	"context"

	"farmwork/entities"
)

type LandPlotRepository interface {
	CreateZone(ctx context.Context, z *entities.Zone) error
	Create(ctx context.Context, p *entities.LandPlot) error
	// FindByID loads the plot with its zone, or (nil, nil) if it does not exist.
	FindByID(ctx context.Context, id string) (*entities.LandPlot, error)
	ListByZone(ctx context.Context, zoneID string) ([]entities.LandPlot, error)
}
