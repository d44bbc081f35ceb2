package surreal

import (
	"context"

	"github.com/pkg/errors"
	surrealdb "github.com/surrealdb/surrealdb.go"

	"tradelink/config"
	"tradelink/internal/domain/service"
)

// signUpRequest carries the variables consumed by the SIGNUP clause of
// the record access method. Field names must match the access definition.
type signUpRequest struct {
	Namespace    string `json:"NS"`
	Database     string `json:"DB"`
	Access       string `json:"AC"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

// signInRequest carries the variables consumed by the SIGNIN clause.
type signInRequest struct {
	Namespace string `json:"NS"`
	Database  string `json:"DB"`
	Access    string `json:"AC"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// authenticator implements the Authenticator interface on the gateway's
// record access method. Credential storage and verification happen
// entirely inside SurrealDB.
type authenticator struct {
	db  *surrealdb.DB
	cfg *config.GatewayConfig
}

// NewAuthenticator builds the record-access authenticator.
func NewAuthenticator(db *surrealdb.DB, cfg *config.GatewayConfig) service.Authenticator {
	return &authenticator{db: db, cfg: cfg}
}

// SignUp registers credentials and the submitted profile with the gateway.
func (a *authenticator) SignUp(ctx context.Context, email, password string, profile service.RegistrationProfile) error {
	_, err := a.db.SignUp(ctx, signUpRequest{
		Namespace:    a.cfg.Namespace,
		Database:     a.cfg.Database,
		Access:       a.cfg.Access,
		Email:        email,
		Password:     password,
		Name:         profile.Name,
		Role:         profile.Role.String(),
		BusinessName: profile.BusinessName,
		Phone:        profile.Phone,
		Address:      profile.Address,
	})
	if err != nil {
		return errors.Wrap(err, "gateway sign-up")
	}

	return nil
}

// SignIn exchanges credentials for a gateway session token.
func (a *authenticator) SignIn(ctx context.Context, email, password string) (string, error) {
	token, err := a.db.SignIn(ctx, signInRequest{
		Namespace: a.cfg.Namespace,
		Database:  a.cfg.Database,
		Access:    a.cfg.Access,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return "", errors.Wrap(err, "gateway sign-in")
	}

	return token, nil
}
