package models

import (
	"time"

	"github.com/cardline/portal-rest/database"
)

type CardType string

const (
	CardTypePlatinum CardType = "platinum"
	CardTypeGold     CardType = "gold"
	CardTypeTitanium CardType = "titanium"
	CardTypeBusiness CardType = "business"
	CardTypeRewards  CardType = "rewards"
)

// CardSettings are the security toggles a customer controls per card.
type CardSettings struct {
	DomesticTransactions      bool    `bson:"domesticTransactions" json:"domesticTransactions"`
	InternationalTransactions bool    `bson:"internationalTransactions" json:"internationalTransactions"`
	TouchToPay                bool    `bson:"touchToPay" json:"touchToPay"`
	TouchToPayLimit           float64 `bson:"touchToPayLimit" json:"touchToPayLimit"`
	OnlinePayments            bool    `bson:"onlinePayments" json:"onlinePayments"`
	AtmWithdrawals            bool    `bson:"atmWithdrawals" json:"atmWithdrawals"`
	MerchantPosPayments       bool    `bson:"merchantPosPayments" json:"merchantPosPayments"`
}

type CardFees struct {
	Annual      float64 `bson:"annual" json:"annual"`
	Monthly     float64 `bson:"monthly" json:"monthly"`
	Late        float64 `bson:"late" json:"late"`
	CashAdvance float64 `bson:"cashAdvance" json:"cashAdvance"`
	Other       float64 `bson:"other" json:"other"`
}

type CreditCard struct {
	ID               string       `bson:"_id" json:"id"`
	UserID           string       `bson:"userId" json:"userId"`
	CardNumber       string       `bson:"cardNumber" json:"cardNumber"`
	ExpiryDate       string       `bson:"expiryDate" json:"expiryDate"`
	CreditLimit      float64      `bson:"creditLimit" json:"creditLimit"`
	AvailableLimit   float64      `bson:"availableLimit" json:"availableLimit"`
	TotalOutstanding float64      `bson:"totalOutstanding" json:"totalOutstanding"`
	DueDate          time.Time    `bson:"dueDate" json:"dueDate"`
	NextDueDate      time.Time    `bson:"nextDueDate" json:"nextDueDate"`
	IsBlocked        bool         `bson:"isBlocked" json:"isBlocked"`
	CardType         CardType     `bson:"cardType" json:"cardType"`
	Settings         CardSettings `bson:"settings" json:"settings"`
	Fees             CardFees     `bson:"fees" json:"fees"`
}

func (c CreditCard) GetTableName() string     { return "credit_cards" }
func (c CreditCard) GetModelName() string     { return "CreditCard" }
func (c CreditCard) GetConnectorName() string { return connectorName }
func (c CreditCard) GetId() any               { return c.ID }

func (c CreditCard) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
	}
}
