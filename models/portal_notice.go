package models

import "time"

// PortalNotice is an announcement shown to customers. Content passes through
// the HTML sanitizer on write; notices are authored by admins but rendered
// into customer pages.
type PortalNotice struct {
	ID        string    `bson:"_id" json:"id"`
	Title     string    `bson:"title" json:"title" normalize:"trim"`
	Content   string    `bson:"content" json:"content" sanitize:"html"`
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
}

func (n PortalNotice) GetTableName() string     { return "portal_notices" }
func (n PortalNotice) GetModelName() string     { return "PortalNotice" }
func (n PortalNotice) GetConnectorName() string { return connectorName }
func (n PortalNotice) GetId() any               { return n.ID }
