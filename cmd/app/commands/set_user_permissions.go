package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	accessDomain "github.com/allisson/proxyadmin/internal/access/domain"
	accessUsecase "github.com/allisson/proxyadmin/internal/access/usecase"
	userUsecase "github.com/allisson/proxyadmin/internal/user/usecase"
)

// RunSetUserPermissions replaces a user's capability profile from the command
// line. The command runs with internal access, so it can repair a locked-out
// installation. Capabilities are given as a JSON object mapping resource types
// to levels, e.g. {"proxy_hosts":"manage","certificates":"view"}; omitted
// types default to none.
//
// Requirements: Database must be migrated and accessible.
func RunSetUserPermissions(
	ctx context.Context,
	userUseCase userUsecase.UserUseCase,
	engine *accessUsecase.Engine,
	logger *slog.Logger,
	userID int64,
	visibility string,
	capabilitiesJSON string,
	io IOTuple,
) error {
	if userID <= 0 {
		return fmt.Errorf("user id must be a positive number, got: %d", userID)
	}

	profile, err := parseProfile(visibility, capabilitiesJSON)
	if err != nil {
		return err
	}

	logger.Info("setting user permissions",
		slog.Int64("user_id", userID),
		slog.String("visibility", visibility),
	)

	if err := userUseCase.SetPermissions(ctx, engine.NewInternalContext(), userID, profile); err != nil {
		return fmt.Errorf("failed to set user permissions: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Permissions updated for user %d\n", userID)

	logger.Info("user permissions updated", slog.Int64("user_id", userID))
	return nil
}

// parseProfile builds a capability profile from the CLI arguments.
func parseProfile(visibility, capabilitiesJSON string) (*accessDomain.Profile, error) {
	vis := accessDomain.Visibility(visibility)
	if !vis.Valid() {
		return nil, fmt.Errorf("visibility must be 'all' or 'own', got: %q", visibility)
	}

	capabilities := make(map[accessDomain.ResourceType]accessDomain.CapabilityLevel)
	for _, resource := range accessDomain.OwnedResourceTypes {
		capabilities[resource] = accessDomain.CapabilityNone
	}

	if capabilitiesJSON != "" {
		var raw map[string]string
		if err := json.Unmarshal([]byte(capabilitiesJSON), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse capabilities JSON: %w", err)
		}

		for name, value := range raw {
			resource := accessDomain.ResourceType(name)
			if _, ok := capabilities[resource]; !ok {
				return nil, fmt.Errorf("unknown resource type: %q", name)
			}

			level := accessDomain.CapabilityLevel(value)
			if !level.Valid() {
				return nil, fmt.Errorf("invalid capability level %q for %q", value, name)
			}
			capabilities[resource] = level
		}
	}

	return &accessDomain.Profile{
		Visibility:   vis,
		Capabilities: capabilities,
	}, nil
}
