// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"time"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	"github.com/allisson/proxyadmin/internal/user/domain"
)

// PermissionsResponse is the wire form of a capability profile.
type PermissionsResponse struct {
	Visibility       string `json:"visibility"`
	ProxyHosts       string `json:"proxy_hosts"`
	RedirectionHosts string `json:"redirection_hosts"`
	DeadHosts        string `json:"dead_hosts"`
	Streams          string `json:"streams"`
	AccessLists      string `json:"access_lists"`
	Certificates     string `json:"certificates"`
}

// UserResponse represents a user in API responses. It never carries
// authentication secrets.
type UserResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Nickname    string               `json:"nickname,omitempty"`
	Email       string               `json:"email"`
	Roles       []string             `json:"roles"`
	IsDisabled  bool                 `json:"is_disabled"`
	Permissions *PermissionsResponse `json:"permissions,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *domain.User) UserResponse {
	response := UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Nickname:   user.Nickname,
		Email:      user.Email,
		Roles:      user.Roles,
		IsDisabled: user.IsDisabled,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
	if response.Roles == nil {
		response.Roles = []string{}
	}
	if user.Permissions != nil {
		response.Permissions = mapProfileToResponse(user.Permissions)
	}
	return response
}

func mapProfileToResponse(profile *accessDomain.Profile) *PermissionsResponse {
	level := func(resource accessDomain.ResourceType) string {
		return string(profile.Capability(resource))
	}
	return &PermissionsResponse{
		Visibility:       string(profile.Visibility),
		ProxyHosts:       level(accessDomain.ResourceProxyHosts),
		RedirectionHosts: level(accessDomain.ResourceRedirectionHosts),
		DeadHosts:        level(accessDomain.ResourceDeadHosts),
		Streams:          level(accessDomain.ResourceStreams),
		AccessLists:      level(accessDomain.ResourceAccessLists),
		Certificates:     level(accessDomain.ResourceCertificates),
	}
}

// ListUsersResponse represents a paginated list of users in API responses.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MapUsersToListResponse converts a slice of domain users to a list response.
func MapUsersToListResponse(users []*domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, MapUserToResponse(user))
	}
	return ListUsersResponse{
		Data: userResponses,
	}
}

// SignInAsResponse carries the token issued for another user plus that user.
type SignInAsResponse struct {
	Token   string       `json:"token"`
	Expires time.Time    `json:"expires"`
	User    UserResponse `json:"user"`
}
