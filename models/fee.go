package models

type FeeType string

const (
	FeeTypeAnnual      FeeType = "annual"
	FeeTypeMonthly     FeeType = "monthly"
	FeeTypeLate        FeeType = "late"
	FeeTypeCashAdvance FeeType = "cashAdvance"
	FeeTypeOther       FeeType = "other"
)

type Fee struct {
	ID          string  `bson:"_id" json:"id"`
	Type        FeeType `bson:"type" json:"type"`
	Amount      float64 `bson:"amount" json:"amount"`
	Description string  `bson:"description" json:"description" normalize:"trim"`
}

func (f Fee) GetTableName() string     { return "fees" }
func (f Fee) GetModelName() string     { return "Fee" }
func (f Fee) GetConnectorName() string { return connectorName }
func (f Fee) GetId() any               { return f.ID }
