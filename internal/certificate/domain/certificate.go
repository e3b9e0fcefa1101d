// Package domain defines TLS certificate record entities.
package domain

import (
	"time"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// ObjectType is the audit log object type for certificates.
const ObjectType = "certificate"

// ErrCertificateNotFound indicates the requested certificate does not exist.
var ErrCertificateNotFound = apperrors.Wrap(apperrors.ErrNotFound, "certificate not found")

// Certificate providers.
const (
	ProviderLetsEncrypt = "letsencrypt"
	ProviderOther       = "other"
)

// Certificate is a TLS certificate record that hosts can reference. The
// record tracks metadata only; issuance and renewal happen out of band.
type Certificate struct {
	ID          int64
	OwnerUserID int64
	Provider    string
	NiceName    string
	DomainNames []string
	ExpiresOn   *time.Time
	IsDeleted   bool
	Meta        map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCertificateInput contains the parameters for creating a certificate.
// OwnerUserID is only honored for internal callers.
type CreateCertificateInput struct {
	OwnerUserID int64
	Provider    string
	NiceName    string
	DomainNames []string
	ExpiresOn   *time.Time
	Meta        map[string]any
}

// UpdateCertificateInput contains the mutable fields of a certificate.
type UpdateCertificateInput struct {
	NiceName    string
	DomainNames []string
	ExpiresOn   *time.Time
	Meta        map[string]any
}
