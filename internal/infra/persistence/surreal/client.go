// Package surreal contains the concrete implementation of the remote
// gateway using the SurrealDB SDK over a websocket connection.
package surreal

import (
	"context"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/pkg/errors"

	"tradelink/config"
)

// Connect opens the websocket connection, selects the namespace and
// database and signs in with the configured system credentials.
func Connect(ctx context.Context, cfg *config.GatewayConfig) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", cfg.Endpoint)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, errors.Wrap(err, "select namespace and database")
	}

	if _, err := db.SignIn(ctx, surrealdb.Auth{
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}); err != nil {
		return nil, errors.Wrap(err, "gateway sign-in")
	}

	return db, nil
}
