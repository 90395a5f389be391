package in

import (
	"context"

	"aquaview/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (dto.SessionOutput, error)
	Municipals(ctx context.Context) ([]dto.MunicipalOutput, error)
}
