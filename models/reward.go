package models

import (
	"time"

	"github.com/cardline/portal-rest/database"
)

type RedemptionHistory struct {
	ID          string    `bson:"id" json:"id"`
	Date        time.Time `bson:"date" json:"date"`
	Points      int       `bson:"points" json:"points"`
	Description string    `bson:"description" json:"description"`
}

type Reward struct {
	ID                string              `bson:"_id" json:"id"`
	UserID            string              `bson:"userId" json:"userId"`
	Points            int                 `bson:"points" json:"points"`
	ExpiryDate        time.Time           `bson:"expiryDate" json:"expiryDate"`
	RedemptionHistory []RedemptionHistory `bson:"redemptionHistory" json:"redemptionHistory"`
}

func (r Reward) GetTableName() string     { return "rewards" }
func (r Reward) GetModelName() string     { return "Reward" }
func (r Reward) GetConnectorName() string { return connectorName }
func (r Reward) GetId() any               { return r.ID }

func (r Reward) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
	}
}
