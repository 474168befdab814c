package in

import (
	"context"

	"fivepillars/internal/modules/insight/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ProviderInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Run(ctx context.Context, name string) (dto.RunOutput, error)
	RunAll(ctx context.Context) ([]dto.RunOutput, error)
}
