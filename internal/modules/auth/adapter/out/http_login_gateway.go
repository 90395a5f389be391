package out

import (
	"context"
	"net/url"

	"aquaview/internal/modules/auth/domain"
	authout "aquaview/internal/modules/auth/port/out"
	"aquaview/internal/platform/gateway"
)

// HTTPLoginGateway maps the backend's public authentication routes onto the
// auth ports. Login is form-encoded, not JSON; that is how the backend
// consumes it.
type HTTPLoginGateway struct {
	client *gateway.Client
}

func NewHTTPLoginGateway(client *gateway.Client) *HTTPLoginGateway {
	return &HTTPLoginGateway{client: client}
}

func (g *HTTPLoginGateway) Login(ctx context.Context, username, password, mcCode string) (domain.LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("mc_code", mcCode)

	payload := struct {
		Status  string `json:"status"`
		Token   string `json:"token"`
		MCCode  string `json:"mc_code"`
		MCName  string `json:"mc_name"`
		Message string `json:"message"`
	}{}
	if err := g.client.PostForm(ctx, "/api/login", form, &payload); err != nil {
		return domain.LoginResult{}, err
	}
	return domain.LoginResult{
		Token:   payload.Token,
		MCCode:  payload.MCCode,
		MCName:  payload.MCName,
		Message: payload.Message,
	}, nil
}

func (g *HTTPLoginGateway) MunicipalList(ctx context.Context) ([]domain.Municipal, error) {
	payload := struct {
		TotalMunicipals int `json:"Total_Municipals"`
		Municipals      []struct {
			MCCode string `json:"MC_Code"`
			MCName string `json:"MC_Name"`
		} `json:"Municipals"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/municipal-list", nil, &payload); err != nil {
		return nil, err
	}
	municipals := make([]domain.Municipal, 0, len(payload.Municipals))
	for _, m := range payload.Municipals {
		municipals = append(municipals, domain.Municipal{Code: m.MCCode, Name: m.MCName})
	}
	return municipals, nil
}

var _ authout.LoginGateway = (*HTTPLoginGateway)(nil)
