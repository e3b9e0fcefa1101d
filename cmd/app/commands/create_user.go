package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	accessUsecase "github.com/allisson/proxyadmin/internal/access/usecase"
	userDomain "github.com/allisson/proxyadmin/internal/user/domain"
	userUsecase "github.com/allisson/proxyadmin/internal/user/usecase"
)

// RunCreateUser registers a new user from the command line. The command runs
// with internal access, so it works on an empty database and is the way the
// first administrator account gets created. When password is empty the command
// prompts for one interactively.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase userUsecase.UserUseCase,
	engine *accessUsecase.Engine,
	logger *slog.Logger,
	name string,
	nickname string,
	email string,
	password string,
	roles string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new user", slog.String("email", email))

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to get password: %w", err)
		}
	}

	input := &userDomain.CreateUserInput{
		Name:     name,
		Nickname: nickname,
		Email:    email,
		Password: password,
		Roles:    parseRoles(roles),
	}

	user, err := userUseCase.Create(ctx, engine.NewInternalContext(), input)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputUserJSON(user, io)
	} else {
		outputUserText(user, io)
	}

	logger.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// parseRoles splits a comma-separated role list, dropping empty entries.
func parseRoles(roles string) []string {
	var parsed []string
	for _, role := range strings.Split(roles, ",") {
		role = strings.TrimSpace(role)
		if role != "" {
			parsed = append(parsed, role)
		}
	}
	return parsed
}

// promptForPassword reads the password from the interactive reader.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password = strings.TrimSpace(password)
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// outputUserText outputs the created user in human-readable text format.
func outputUserText(user *userDomain.User, io IOTuple) {
	_, _ = fmt.Fprintln(io.Writer, "User created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "ID:    %d\n", user.ID)
	_, _ = fmt.Fprintf(io.Writer, "Name:  %s\n", user.Name)
	_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(io.Writer, "Roles: %s\n", strings.Join(user.Roles, ", "))
}

// outputUserJSON outputs the created user in JSON format for machine consumption.
func outputUserJSON(user *userDomain.User, io IOTuple) {
	result := map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"roles": user.Roles,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(io.Writer, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(io.Writer, string(jsonBytes))
}
