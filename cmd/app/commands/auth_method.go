package commands

import (
	"context"
	"fmt"
	"log/slog"

	authDomain "github.com/allisson/registry-auth/internal/auth/domain"
)

// MethodResolver resolves the authentication method selected by the configuration.
type MethodResolver interface {
	Method(ctx context.Context) (authDomain.AuthMethod, error)
}

type authMethodOutput struct {
	Method        string `json:"method"`
	Open          bool   `json:"open"`
	Description   string `json:"description"`
	AdminUsername string `json:"admin_username,omitempty"`
}

// RunAuthMethod prints which authentication method the configuration selects.
// The admin password and the token key material are never printed.
func RunAuthMethod(
	ctx context.Context,
	resolver MethodResolver,
	logger *slog.Logger,
	io IOTuple,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	method, err := resolver.Method(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve authentication method: %w", err)
	}

	output := authMethodOutput{
		Method:      string(method.Kind),
		Open:        method.IsOpen(),
		Description: method.Description(),
	}
	if method.Admin != nil {
		output.AdminUsername = method.Admin.Username
	}

	logger.Debug("authentication method resolved", slog.String("method", output.Method))

	if format == "json" {
		return writeJSON(io.Writer, output)
	}

	_, _ = fmt.Fprintf(io.Writer, "Method: %s\n", output.Method)
	_, _ = fmt.Fprintf(io.Writer, "Description: %s\n", output.Description)
	if output.AdminUsername != "" {
		_, _ = fmt.Fprintf(io.Writer, "Admin username: %s\n", output.AdminUsername)
	}
	return nil
}
