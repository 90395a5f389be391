package dto

type LoginInput struct {
	Username string
	Password string
	MCCode   string
}

type SessionOutput struct {
	Token   string
	MCCode  string
	MCName  string
	Message string
}

type MunicipalOutput struct {
	Code string
	Name string
}
