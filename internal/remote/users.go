package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// CreateUser registers u and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var created model.User
	if err := c.do(ctx, OpCreateUser, http.MethodPost, "/users", nil, u, &created); err != nil {
		return model.User{}, err
	}
	return created, nil
}

// FindUser looks up the user with both name and email. ok is false when the
// service has no such user; it says so with a 200 and a plain text body.
func (c *Client) FindUser(ctx context.Context, name, email string) (u model.User, ok bool, err error) {
	q := url.Values{"name": []string{name}, "email": []string{email}}
	err = c.do(ctx, OpFindUser, http.MethodGet, "/users/find", q, nil, &u)

	var re *RemoteError
	if errors.As(err, &re) && re.Status == http.StatusOK && errors.Is(err, ErrMalformedResponse) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	if u.ID == 0 {
		return model.User{}, false, nil
	}
	return u, true, nil
}
