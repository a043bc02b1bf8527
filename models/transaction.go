package models

import (
	"time"

	"github.com/cardline/portal-rest/database"
)

type Transaction struct {
	ID                    string    `bson:"_id" json:"id"`
	TransactionID         string    `bson:"transactionId" json:"transactionId"`
	CardID                string    `bson:"cardId" json:"cardId"`
	Date                  time.Time `bson:"date" json:"date"`
	MerchantName          string    `bson:"merchantName" json:"merchantName"`
	Amount                float64   `bson:"amount" json:"amount"`
	Category              string    `bson:"category" json:"category"`
	IsCredit              bool      `bson:"isCredit" json:"isCredit"`
	Description           string    `bson:"description" json:"description"`
	RewardPoints          int       `bson:"rewardPoints" json:"rewardPoints"`
	IsReversed            bool      `bson:"isReversed" json:"isReversed"`
	OriginalTransactionID string    `bson:"originalTransactionId,omitempty" json:"originalTransactionId,omitempty"`
}

func (t Transaction) GetTableName() string     { return "transactions" }
func (t Transaction) GetModelName() string     { return "Transaction" }
func (t Transaction) GetConnectorName() string { return connectorName }
func (t Transaction) GetId() any               { return t.ID }

func (t Transaction) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("cardId", false),
		database.NewMongoSimpleIndex("date", false),
	}
}
