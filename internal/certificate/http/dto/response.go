package dto

import (
	"time"

	"github.com/allisson/proxyadmin/internal/certificate/domain"
)

// CertificateResponse represents a certificate in API responses.
type CertificateResponse struct {
	ID          int64          `json:"id"`
	OwnerUserID int64          `json:"owner_user_id"`
	Provider    string         `json:"provider"`
	NiceName    string         `json:"nice_name,omitempty"`
	DomainNames []string       `json:"domain_names"`
	ExpiresOn   *time.Time     `json:"expires_on,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MapCertificateToResponse converts a domain certificate to an API response.
func MapCertificateToResponse(cert *domain.Certificate) CertificateResponse {
	response := CertificateResponse{
		ID:          cert.ID,
		OwnerUserID: cert.OwnerUserID,
		Provider:    cert.Provider,
		NiceName:    cert.NiceName,
		DomainNames: cert.DomainNames,
		ExpiresOn:   cert.ExpiresOn,
		Meta:        cert.Meta,
		CreatedAt:   cert.CreatedAt,
		UpdatedAt:   cert.UpdatedAt,
	}
	if response.DomainNames == nil {
		response.DomainNames = []string{}
	}
	return response
}

// ListCertificatesResponse represents a paginated list of certificates in
// API responses.
type ListCertificatesResponse struct {
	Data []CertificateResponse `json:"data"`
}

// MapCertificatesToListResponse converts a slice of domain certificates to a
// list response.
func MapCertificatesToListResponse(certs []*domain.Certificate) ListCertificatesResponse {
	certResponses := make([]CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		certResponses = append(certResponses, MapCertificateToResponse(cert))
	}
	return ListCertificatesResponse{
		Data: certResponses,
	}
}
