package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/josiaO/SmartDalaliTZ/internal/logger"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/repository"
)

// UserDirectory resolves the agent that will own a listing. A missing user
// is reported as repository.ErrNotFound.
type UserDirectory interface {
	Lookup(ctx context.Context, userID, authHeader string) (*model.User, error)
}

// LocalDirectory looks agents up in the local users table.
type LocalDirectory struct {
	Users UserStore
}

func (d LocalDirectory) Lookup(ctx context.Context, userID, _ string) (*model.User, error) {
	u, err := d.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleAgent && u.Role != model.RoleSuperuser {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// RemoteDirectory asks the user service over HTTP, forwarding the caller's
// Authorization header.
type RemoteDirectory struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteDirectory(baseURL string) *RemoteDirectory {
	return &RemoteDirectory{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type remoteUser struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Role     string      `json:"role"`
}

func (d *RemoteDirectory) Lookup(ctx context.Context, userID, authHeader string) (*model.User, error) {
	endpoint := fmt.Sprintf("%s/api/v1/users/%s/", d.BaseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to User Service: %w", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("User Service call error: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, repository.ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Log.Warnf("[RemoteDirectory] unexpected status %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("User Service returned status %d", resp.StatusCode)
	}

	var ru remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&ru); err != nil {
		return nil, fmt.Errorf("failed to decode User Service response: %w", err)
	}
	if ru.ID.String() == "" {
		return nil, errors.New("User Service response has no id")
	}

	name := ru.Name
	if name == "" {
		name = ru.Username
	}
	return &model.User{
		ID:    ru.ID.String(),
		Email: ru.Email,
		Name:  name,
		Phone: ru.Phone,
		Role:  model.Role(ru.Role),
	}, nil
}
