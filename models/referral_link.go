package models

import "github.com/cardline/portal-rest/database"

type ReferralLink struct {
	ID             string `bson:"_id" json:"id"`
	UserID         string `bson:"userId" json:"userId"`
	Code           string `bson:"code" json:"code"`
	URL            string `bson:"url" json:"url"`
	TotalReferrals int    `bson:"totalReferrals" json:"totalReferrals"`
	PointsEarned   int    `bson:"pointsEarned" json:"pointsEarned"`
}

func (r ReferralLink) GetTableName() string     { return "referral_links" }
func (r ReferralLink) GetModelName() string     { return "ReferralLink" }
func (r ReferralLink) GetConnectorName() string { return connectorName }
func (r ReferralLink) GetId() any               { return r.ID }

func (r ReferralLink) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
		database.NewMongoSimpleIndex("code", true),
	}
}
