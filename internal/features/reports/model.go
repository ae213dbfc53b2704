package reports

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a saved snapshot of weather conditions. OwnerID is a plain user id
// hex string without referential integrity.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Location    string             `bson:"location" json:"location"`
	Timestamp   int64              `bson:"timestamp" json:"timestamp"`
	Temperature float64            `bson:"temperature" json:"temperature"`
	Pressure    float64            `bson:"pressure" json:"pressure"`
	Humidity    float64            `bson:"humidity" json:"humidity"`
	CloudCover  float64            `bson:"cloudCover" json:"cloudCover"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	OwnerID     string             `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateReportRequest is the body of POST /reports. Numeric fields are
// pointers so a missing or null value is told apart from zero. Timestamps
// are epoch milliseconds within the range of a JavaScript Date.
type CreateReportRequest struct {
	Location    string   `json:"location" validate:"required,notblank" example:"London, GB"`
	Timestamp   *float64 `json:"timestamp" validate:"required,finite,gte=-8640000000000000,lte=8640000000000000" example:"1718000000000"`
	Temperature *float64 `json:"temperature" validate:"required,finite" example:"21.5"`
	Pressure    *float64 `json:"pressure" validate:"required,finite" example:"1013"`
	Humidity    *float64 `json:"humidity" validate:"required,finite" example:"64"`
	CloudCover  *float64 `json:"cloudCover" validate:"required,finite" example:"40"`
	Description string   `json:"description" validate:"required,notblank" example:"scattered clouds"`
	Icon        string   `json:"icon" validate:"required,notblank" example:"03d"`
}

// Filter narrows ListForOwner. Location is a case-insensitive substring.
type Filter struct {
	Location string
}

func (r *CreateReportRequest) toReport(ownerID string) *Report {
	return &Report{
		Location:    r.Location,
		Timestamp:   int64(*r.Timestamp),
		Temperature: *r.Temperature,
		Pressure:    *r.Pressure,
		Humidity:    *r.Humidity,
		CloudCover:  *r.CloudCover,
		Description: r.Description,
		Icon:        r.Icon,
		OwnerID:     ownerID,
	}
}
