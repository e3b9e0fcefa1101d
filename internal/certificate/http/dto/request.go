// Package dto provides data transfer objects for the certificate HTTP layer.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/proxyadmin/internal/certificate/domain"

	appValidation "github.com/allisson/proxyadmin/internal/validation"
)

// CertificateRequest carries the writable fields of a certificate. Provider
// only matters on create; updates keep the stored provider.
type CertificateRequest struct {
	OwnerUserID int64          `json:"owner_user_id,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	NiceName    string         `json:"nice_name,omitempty"`
	DomainNames []string       `json:"domain_names"`
	ExpiresOn   *time.Time     `json:"expires_on,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// Validate checks the structural shape of the request.
func (r *CertificateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DomainNames,
			validation.Required,
			validation.Length(1, 30),
			validation.Each(appValidation.NotBlank),
		),
	)
}

// ToCreateCertificateInput converts the request to a use case input.
func (r *CertificateRequest) ToCreateCertificateInput() *domain.CreateCertificateInput {
	return &domain.CreateCertificateInput{
		OwnerUserID: r.OwnerUserID,
		Provider:    r.Provider,
		NiceName:    r.NiceName,
		DomainNames: r.DomainNames,
		ExpiresOn:   r.ExpiresOn,
		Meta:        r.Meta,
	}
}

// ToUpdateCertificateInput converts the request to a use case input.
func (r *CertificateRequest) ToUpdateCertificateInput() *domain.UpdateCertificateInput {
	return &domain.UpdateCertificateInput{
		NiceName:    r.NiceName,
		DomainNames: r.DomainNames,
		ExpiresOn:   r.ExpiresOn,
		Meta:        r.Meta,
	}
}
