package services

import (
	"context"
	"strings"

	"github.com/cardline/portal-rest/auth"
	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/models"
)

// UserDirectory adapts the user collection to auth.AccountDirectory.
type UserDirectory struct {
	users database.Repository[models.User]
}

func NewUserDirectory(ds *database.Datasource) (*UserDirectory, error) {
	users, err := repositoryFor[models.User](ds)
	if err != nil {
		return nil, err
	}
	return &UserDirectory{users: users}, nil
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("email", email))
	user, err := d.users.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return &auth.Account{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Roles:    []string{string(user.Role)},
		IsLocked: user.IsLocked,
	}, nil
}
