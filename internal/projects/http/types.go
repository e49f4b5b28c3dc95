package http

type createReq struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Domain       string   `json:"domain" binding:"required"`
	DurationDays int      `json:"durationDays"`
	Skills       []string `json:"skills"`
	Stage        string   `json:"stage"`
	ImageURL     string   `json:"imageUrl"`
}

type editReq struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Domain       string   `json:"domain" binding:"required"`
	DurationDays int      `json:"durationDays"`
	Skills       []string `json:"skills"`
	Stage        string   `json:"stage"`
	ImageURL     string   `json:"imageUrl"`
	Status       string   `json:"status"`
}
