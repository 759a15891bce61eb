package api

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

func (c *ChatRequest) Bind(_ *http.Request) error {
	c.Message = strings.TrimSpace(c.Message)
	return validate.Struct(c)
}
