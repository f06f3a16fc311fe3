// models/provider.go
package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// Provider represents a vendor or venue owner who publishes listings.
type Provider struct {
	ID           string    `bson:"id" json:"id"`
	BusinessName string    `bson:"businessName" json:"businessName"`
	Email        string    `bson:"email" json:"email"`
	Password     string    `bson:"-" json:"password,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	PhoneNumber  string    `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	About        string    `bson:"about,omitempty" json:"about,omitempty"`
	ProfileImage string    `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	LocationGeo  GeoPoint  `bson:"locationGeo" json:"locationGeo"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	Token        string    `bson:"-" json:"token,omitempty"`
	TokenHash    string    `bson:"tokenHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
