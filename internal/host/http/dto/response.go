package dto

import (
	"time"

	"github.com/allisson/proxyadmin/internal/host/domain"
)

// HostResponse represents a host in API responses.
type HostResponse struct {
	ID                int64          `json:"id"`
	OwnerUserID       int64          `json:"owner_user_id"`
	DomainNames       []string       `json:"domain_names"`
	ForwardHost       string         `json:"forward_host,omitempty"`
	ForwardPort       int            `json:"forward_port,omitempty"`
	AccessListID      int64          `json:"access_list_id,omitempty"`
	ForwardDomainName string         `json:"forward_domain_name,omitempty"`
	ForwardHTTPCode   int            `json:"forward_http_code,omitempty"`
	PreservePath      bool           `json:"preserve_path,omitempty"`
	CertificateID     int64          `json:"certificate_id,omitempty"`
	SSLForced         bool           `json:"ssl_forced"`
	CachingEnabled    bool           `json:"caching_enabled"`
	BlockExploits     bool           `json:"block_exploits"`
	AdvancedConfig    string         `json:"advanced_config,omitempty"`
	Enabled           bool           `json:"enabled"`
	Meta              map[string]any `json:"meta,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// MapHostToResponse converts a domain host to an API response.
func MapHostToResponse(host *domain.Host) HostResponse {
	response := HostResponse{
		ID:                host.ID,
		OwnerUserID:       host.OwnerUserID,
		DomainNames:       host.DomainNames,
		ForwardHost:       host.ForwardHost,
		ForwardPort:       host.ForwardPort,
		AccessListID:      host.AccessListID,
		ForwardDomainName: host.ForwardDomainName,
		ForwardHTTPCode:   host.ForwardHTTPCode,
		PreservePath:      host.PreservePath,
		CertificateID:     host.CertificateID,
		SSLForced:         host.SSLForced,
		CachingEnabled:    host.CachingEnabled,
		BlockExploits:     host.BlockExploits,
		AdvancedConfig:    host.AdvancedConfig,
		Enabled:           host.Enabled,
		Meta:              host.Meta,
		CreatedAt:         host.CreatedAt,
		UpdatedAt:         host.UpdatedAt,
	}
	if response.DomainNames == nil {
		response.DomainNames = []string{}
	}
	return response
}

// ListHostsResponse represents a paginated list of hosts in API responses.
type ListHostsResponse struct {
	Data []HostResponse `json:"data"`
}

// MapHostsToListResponse converts a slice of domain hosts to a list response.
func MapHostsToListResponse(hosts []*domain.Host) ListHostsResponse {
	hostResponses := make([]HostResponse, 0, len(hosts))
	for _, host := range hosts {
		hostResponses = append(hostResponses, MapHostToResponse(host))
	}
	return ListHostsResponse{
		Data: hostResponses,
	}
}
