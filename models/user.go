package models

import "github.com/cardline/portal-rest/database"

const connectorName = "mongodb"

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

// User is a portal account. Role is the normalized role, not the raw claim
// set; the auth package owns claim normalization.
type User struct {
	ID       string   `bson:"_id" json:"id"`
	Name     string   `bson:"name" json:"name" normalize:"trim"`
	Email    string   `bson:"email" json:"email" normalize:"trim,lowercase"`
	Role     UserRole `bson:"role" json:"role"`
	IsLocked bool     `bson:"isLocked" json:"isLocked"`
}

func (u User) GetTableName() string     { return "users" }
func (u User) GetModelName() string     { return "User" }
func (u User) GetConnectorName() string { return connectorName }
func (u User) GetId() any               { return u.ID }

func (u User) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("email", true),
	}
}
