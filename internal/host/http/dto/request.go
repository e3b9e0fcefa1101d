// Package dto provides data transfer objects for the host HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/host/domain"

	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// HostRequest carries the writable fields of a host. The same shape serves
// create and update; which fields matter depends on the host kind, enforced
// by the use case.
type HostRequest struct {
	OwnerUserID       int64          `json:"owner_user_id,omitempty"`
	DomainNames       []string       `json:"domain_names"`
	ForwardHost       string         `json:"forward_host,omitempty"`
	ForwardPort       int            `json:"forward_port,omitempty"`
	AccessListID      int64          `json:"access_list_id,omitempty"`
	ForwardDomainName string         `json:"forward_domain_name,omitempty"`
	ForwardHTTPCode   int            `json:"forward_http_code,omitempty"`
	PreservePath      bool           `json:"preserve_path,omitempty"`
	CertificateID     int64          `json:"certificate_id,omitempty"`
	SSLForced         bool           `json:"ssl_forced,omitempty"`
	CachingEnabled    bool           `json:"caching_enabled,omitempty"`
	BlockExploits     bool           `json:"block_exploits,omitempty"`
	AdvancedConfig    string         `json:"advanced_config,omitempty"`
	Meta              map[string]any `json:"meta,omitempty"`
}

// Validate checks the structural shape of the request. Per-kind field rules
// live in the use case.
func (r *HostRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DomainNames,
			validation.Required,
			validation.Length(1, 30),
			validation.Each(appValidation.NotBlank),
		),
	)
}

// ToCreateHostInput converts the request to a use case input.
func (r *HostRequest) ToCreateHostInput() *domain.CreateHostInput {
	return &domain.CreateHostInput{
		OwnerUserID:       r.OwnerUserID,
		DomainNames:       r.DomainNames,
		ForwardHost:       r.ForwardHost,
		ForwardPort:       r.ForwardPort,
		AccessListID:      r.AccessListID,
		ForwardDomainName: r.ForwardDomainName,
		ForwardHTTPCode:   r.ForwardHTTPCode,
		PreservePath:      r.PreservePath,
		CertificateID:     r.CertificateID,
		SSLForced:         r.SSLForced,
		CachingEnabled:    r.CachingEnabled,
		BlockExploits:     r.BlockExploits,
		AdvancedConfig:    r.AdvancedConfig,
		Meta:              r.Meta,
	}
}

// ToUpdateHostInput converts the request to a use case input.
func (r *HostRequest) ToUpdateHostInput() *domain.UpdateHostInput {
	return &domain.UpdateHostInput{
		DomainNames:       r.DomainNames,
		ForwardHost:       r.ForwardHost,
		ForwardPort:       r.ForwardPort,
		AccessListID:      r.AccessListID,
		ForwardDomainName: r.ForwardDomainName,
		ForwardHTTPCode:   r.ForwardHTTPCode,
		PreservePath:      r.PreservePath,
		CertificateID:     r.CertificateID,
		SSLForced:         r.SSLForced,
		CachingEnabled:    r.CachingEnabled,
		BlockExploits:     r.BlockExploits,
		AdvancedConfig:    r.AdvancedConfig,
		Meta:              r.Meta,
	}
}

// SetEnabledRequest toggles a host's enabled flag.
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate checks that the enabled flag is present.
func (r *SetEnabledRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Enabled, validation.NotNil),
	)
}
