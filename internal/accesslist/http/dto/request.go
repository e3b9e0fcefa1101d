// Package dto provides data transfer objects for the access list HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/accesslist/domain"

	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// AuthItemRequest is a basic auth credential in an access list request.
type AuthItemRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ClientRuleRequest is a client address rule in an access list request.
type ClientRuleRequest struct {
	Address   string `json:"address"`
	Directive string `json:"directive"`
}

// AccessListRequest carries the writable fields of an access list. The same
// shape serves create and update.
type AccessListRequest struct {
	OwnerUserID int64               `json:"owner_user_id,omitempty"`
	Name        string              `json:"name"`
	SatisfyAny  bool                `json:"satisfy_any"`
	PassAuth    bool                `json:"pass_auth"`
	AuthItems   []AuthItemRequest   `json:"auth_items"`
	ClientRules []ClientRuleRequest `json:"client_rules"`
	Meta        map[string]any      `json:"meta,omitempty"`
}

// Validate checks the structural shape of the request. Item-level rules live
// in the use case.
func (r *AccessListRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			appValidation.NotBlank,
			validation.Length(1, 100),
		),
	)
}

func (r *AccessListRequest) authItems() []domain.AuthItem {
	items := make([]domain.AuthItem, 0, len(r.AuthItems))
	for _, item := range r.AuthItems {
		items = append(items, domain.AuthItem{Username: item.Username, Password: item.Password})
	}
	return items
}

func (r *AccessListRequest) clientRules() []domain.ClientRule {
	rules := make([]domain.ClientRule, 0, len(r.ClientRules))
	for _, rule := range r.ClientRules {
		rules = append(rules, domain.ClientRule{Address: rule.Address, Directive: rule.Directive})
	}
	return rules
}

// ToCreateAccessListInput converts the request to a use case input.
func (r *AccessListRequest) ToCreateAccessListInput() *domain.CreateAccessListInput {
	return &domain.CreateAccessListInput{
		OwnerUserID: r.OwnerUserID,
		Name:        r.Name,
		SatisfyAny:  r.SatisfyAny,
		PassAuth:    r.PassAuth,
		AuthItems:   r.authItems(),
		ClientRules: r.clientRules(),
		Meta:        r.Meta,
	}
}

// ToUpdateAccessListInput converts the request to a use case input.
func (r *AccessListRequest) ToUpdateAccessListInput() *domain.UpdateAccessListInput {
	return &domain.UpdateAccessListInput{
		Name:        r.Name,
		SatisfyAny:  r.SatisfyAny,
		PassAuth:    r.PassAuth,
		AuthItems:   r.authItems(),
		ClientRules: r.clientRules(),
		Meta:        r.Meta,
	}
}
