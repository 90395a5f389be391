package usecase

import (
	"context"

	"aquaview/internal/modules/auth/dto"
	authin "aquaview/internal/modules/auth/port/in"
	"aquaview/internal/modules/auth/service"
)

type Interactor struct {
	svc *service.AuthService
}

func NewInteractor(svc *service.AuthService) authin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.SessionOutput, error) {
	session, message, err := i.svc.Login(ctx, input.Username, input.Password, input.MCCode)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{
		Token:   session.Token,
		MCCode:  session.MCCode,
		MCName:  session.MCName,
		Message: message,
	}, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Current(ctx context.Context) (dto.SessionOutput, error) {
	session, err := i.svc.Current(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return dto.SessionOutput{Token: session.Token, MCCode: session.MCCode, MCName: session.MCName}, nil
}

func (i *Interactor) Municipals(ctx context.Context) ([]dto.MunicipalOutput, error) {
	municipals, err := i.svc.Municipals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MunicipalOutput, 0, len(municipals))
	for _, m := range municipals {
		out = append(out, dto.MunicipalOutput{Code: m.Code, Name: m.Name})
	}
	return out, nil
}
