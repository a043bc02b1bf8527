package models

import (
	"time"

	"github.com/cardline/portal-rest/database"
)

type DecisionOutcome string

const (
	DecisionApproved DecisionOutcome = "approved"
	DecisionDeclined DecisionOutcome = "declined"
)

type CreditDecision struct {
	ID             string          `bson:"_id" json:"id"`
	UserID         string          `bson:"userId" json:"userId"`
	Date           time.Time       `bson:"date" json:"date"`
	Decision       DecisionOutcome `bson:"decision" json:"decision"`
	Reason         string          `bson:"reason" json:"reason" normalize:"trim"`
	SuggestedLimit float64         `bson:"suggestedLimit" json:"suggestedLimit"`
}

func (c CreditDecision) GetTableName() string     { return "credit_decisions" }
func (c CreditDecision) GetModelName() string     { return "CreditDecision" }
func (c CreditDecision) GetConnectorName() string { return connectorName }
func (c CreditDecision) GetId() any               { return c.ID }

func (c CreditDecision) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
	}
}
