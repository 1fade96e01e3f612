package client

import "context"

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signupRequest is the body of POST /auth/signup.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login exchanges credentials for an access token and stores the token in
// the session, so subsequent calls on this client are authenticated.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.do(ctx, "POST", "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.session.SetToken(resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup creates a new account and stores the returned token in the session.
func (c *Client) Signup(ctx context.Context, name, email, password, role string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.do(ctx, "POST", "/auth/signup", signupRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.session.SetToken(resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout clears the session token, in memory and in the store.
func (c *Client) Logout() error {
	return c.session.ClearToken()
}
