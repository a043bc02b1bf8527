package models

import (
	"time"

	"github.com/cardline/portal-rest/database"
)

type Statement struct {
	ID             string    `bson:"_id" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	Period         string    `bson:"period" json:"period"`
	StartDate      time.Time `bson:"startDate" json:"startDate"`
	EndDate        time.Time `bson:"endDate" json:"endDate"`
	TotalSpent     float64   `bson:"totalSpent" json:"totalSpent"`
	MinimumPayment float64   `bson:"minimumPayment" json:"minimumPayment"`
	DueDate        time.Time `bson:"dueDate" json:"dueDate"`
	IsDownloaded   bool      `bson:"isDownloaded" json:"isDownloaded"`
}

func (s Statement) GetTableName() string     { return "statements" }
func (s Statement) GetModelName() string     { return "Statement" }
func (s Statement) GetConnectorName() string { return connectorName }
func (s Statement) GetId() any               { return s.ID }

func (s Statement) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
	}
}
