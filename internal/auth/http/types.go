package http

type signUpReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	College  string `json:"college" binding:"required"`
	Domain   string `json:"domain" binding:"required"`
}

type signInReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type googleReq struct {
	Code string `json:"code" binding:"required"`
}

type resetReq struct {
	Email string `json:"email" binding:"required,email"`
}

type resendReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
