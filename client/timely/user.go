package timely

import (
	"context"
	"fmt"
)

type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GetCurrentUser returns the user the stored token belongs to.
func (c *Client) GetCurrentUser(ctx context.Context) (User, error) {
	var user User
	path := fmt.Sprintf("%d/users/current", c.AccountID)
	err := c.get(ctx, path, nil, &user)
	if err != nil {
		return user, fmt.Errorf("get(%s): %w", path, err)
	}
	return user, nil
}
