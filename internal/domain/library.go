package domain

import "time"

// PublicFeed is one publicly shared source in the library collection.
// Its lifecycle is independent from any personal subscription: sharing
// copies the URL, and later mutations of the personal subscription never
// propagate here.
type PublicFeed struct {
	ID          string    `bson:"_id" json:"id"`
	URL         string    `bson:"url" json:"url"`
	Description string    `bson:"description" json:"description"`
	SharedBy    string    `bson:"sharedBy" json:"sharedBy"`
	SharedAt    time.Time `bson:"sharedAt" json:"sharedAt"`
	Likes       int       `bson:"likes" json:"likes"`
}
