package in

import (
	"context"

	"aquaview/internal/modules/auth/dto"
	authin "aquaview/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password, mcCode string) (dto.SessionOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Username: username, Password: password, MCCode: mcCode})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Municipals(ctx context.Context) ([]dto.MunicipalOutput, error) {
	return h.usecase.Municipals(ctx)
}
