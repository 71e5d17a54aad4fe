package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/fireplay/fireplay-backend/pkg/config"
	"github.com/fireplay/fireplay-backend/pkg/firestore"
	"github.com/fireplay/fireplay-backend/pkg/logger"
)

// NewAuthClient boots the Firebase app for the project and returns its auth client.
func NewAuthClient(ctx context.Context, cfg config.GCPConfig, logg *logger.Logger) (*auth.Client, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, firestore.ClientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase auth: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "firebase auth client initialized")
	}
	return client, nil
}
