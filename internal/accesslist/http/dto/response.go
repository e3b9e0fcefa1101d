package dto

import (
	"time"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"
)

// AuthItemResponse is a basic auth credential in API responses. Passwords
// are never returned.
type AuthItemResponse struct {
	Username string `json:"username"`
}

// ClientRuleResponse is a client address rule in API responses.
type ClientRuleResponse struct {
	Address   string `json:"address"`
	Directive string `json:"directive"`
}

// AccessListResponse represents an access list in API responses.
type AccessListResponse struct {
	ID          int64                `json:"id"`
	OwnerUserID int64                `json:"owner_user_id"`
	Name        string               `json:"name"`
	SatisfyAny  bool                 `json:"satisfy_any"`
	PassAuth    bool                 `json:"pass_auth"`
	AuthItems   []AuthItemResponse   `json:"auth_items"`
	ClientRules []ClientRuleResponse `json:"client_rules"`
	Meta        map[string]any       `json:"meta,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// MapAccessListToResponse converts a domain access list to an API response.
func MapAccessListToResponse(list *domain.AccessList) AccessListResponse {
	authItems := make([]AuthItemResponse, 0, len(list.AuthItems))
	for _, item := range list.AuthItems {
		authItems = append(authItems, AuthItemResponse{Username: item.Username})
	}

	clientRules := make([]ClientRuleResponse, 0, len(list.ClientRules))
	for _, rule := range list.ClientRules {
		clientRules = append(clientRules, ClientRuleResponse{
			Address:   rule.Address,
			Directive: rule.Directive,
		})
	}

	return AccessListResponse{
		ID:          list.ID,
		OwnerUserID: list.OwnerUserID,
		Name:        list.Name,
		SatisfyAny:  list.SatisfyAny,
		PassAuth:    list.PassAuth,
		AuthItems:   authItems,
		ClientRules: clientRules,
		Meta:        list.Meta,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
}

// ListAccessListsResponse represents a paginated list of access lists in API
// responses.
type ListAccessListsResponse struct {
	Data []AccessListResponse `json:"data"`
}

// MapAccessListsToListResponse converts a slice of domain access lists to a
// list response.
func MapAccessListsToListResponse(lists []*domain.AccessList) ListAccessListsResponse {
	listResponses := make([]AccessListResponse, 0, len(lists))
	for _, list := range lists {
		listResponses = append(listResponses, MapAccessListToResponse(list))
	}
	return ListAccessListsResponse{
		Data: listResponses,
	}
}
