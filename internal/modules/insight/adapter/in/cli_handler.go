package in

import (
	"context"

	"fivepillars/internal/modules/insight/dto"
	insightin "fivepillars/internal/modules/insight/port/in"
)

type CLIHandler struct {
	usecase insightin.Usecase
}

func NewCLIHandler(usecase insightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Run(ctx context.Context, name string) (dto.RunOutput, error) {
	return h.usecase.Run(ctx, name)
}

func (h CLIHandler) RunAll(ctx context.Context) ([]dto.RunOutput, error) {
	return h.usecase.RunAll(ctx)
}
