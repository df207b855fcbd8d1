package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clockify-button/internal/domain"
	"clockify-button/internal/ports"
)

// ClientFactory builds a Clockify client for an API token.
type ClientFactory func(token string) ports.Clockify

// Connect loads the token, builds a client and proves the token works with a
// test call. On any credential problem the user is pointed at the token file.
func Connect(ctx context.Context, log *slog.Logger, tokens ports.TokenStore, host ports.Host, newClient ClientFactory) (ports.Clockify, error) {
	token, err := tokens.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			host.Warn(tag + "Please put your API token into '" + tokens.Path() + "'")
			openTokenFile(ctx, log, tokens, host)
		} else {
			host.Error(err.Error())
		}
		return nil, err
	}

	client := newClient(token)
	if _, err := client.ListWorkspaces(ctx); err != nil {
		host.Error(fmt.Sprintf("%sYour API key seems to be invalid: '%s'", tag, err))
		openTokenFile(ctx, log, tokens, host)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	return client, nil
}

func openTokenFile(ctx context.Context, log *slog.Logger, tokens ports.TokenStore, host ports.Host) {
	if err := host.OpenFile(ctx, tokens.Path()); err != nil {
		log.Warn("failed to open token file", slog.String("path", tokens.Path()), slog.String("error", err.Error()))
		host.Error(err.Error())
	}
}
