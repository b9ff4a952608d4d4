package api

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var res LoginResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Email: email, Password: password},
		out:    &res,
	})
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, ErrMissingUser
	}
	return &res, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, call{
		op:     "signup",
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   req,
	})
}
