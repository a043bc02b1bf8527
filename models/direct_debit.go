package models

import (
	"time"

	"github.com/cardline/portal-rest/database"
)

type DebitFrequency string

const (
	DebitFrequencyWeekly   DebitFrequency = "weekly"
	DebitFrequencyBiweekly DebitFrequency = "biweekly"
	DebitFrequencyMonthly  DebitFrequency = "monthly"
)

type DirectDebit struct {
	ID            string         `bson:"_id" json:"id"`
	UserID        string         `bson:"userId" json:"userId"`
	AccountNumber string         `bson:"accountNumber" json:"accountNumber"`
	RoutingNumber string         `bson:"routingNumber" json:"routingNumber"`
	Frequency     DebitFrequency `bson:"frequency" json:"frequency"`
	Amount        float64        `bson:"amount" json:"amount"`
	IsActive      bool           `bson:"isActive" json:"isActive"`
	NextDebitDate time.Time      `bson:"nextDebitDate" json:"nextDebitDate"`
}

func (d DirectDebit) GetTableName() string     { return "direct_debits" }
func (d DirectDebit) GetModelName() string     { return "DirectDebit" }
func (d DirectDebit) GetConnectorName() string { return connectorName }
func (d DirectDebit) GetId() any               { return d.ID }

func (d DirectDebit) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
	}
}
