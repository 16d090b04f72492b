// Package model holds the CMS document shapes rendered by the site.
package model

import "time"

// Slug is a URL path segment as the CMS stores it.
type Slug struct {
	Current string `json:"current"`
}

// Image is a reference to a CMS image asset.
type Image struct {
	AssetRef string `json:"assetRef,omitempty"`
	URL      string `json:"url,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

// Address is a postal address.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// ServiceTime is one entry of the weekly worship schedule.
type ServiceTime struct {
	Name string `json:"name"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// SocialLinks are the church's social media profiles.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

// SiteSettings is the singleton holding global site details.
type SiteSettings struct {
	ChurchName   string        `json:"churchName"`
	Tagline      string        `json:"tagline,omitempty"`
	Logo         *Image        `json:"logo,omitempty"`
	Address      Address       `json:"address"`
	Phone        string        `json:"phone,omitempty"`
	Email        string        `json:"email,omitempty"`
	ServiceTimes []ServiceTime `json:"serviceTimes,omitempty"`
	Social       SocialLinks   `json:"socialLinks"`
	GivingURL    string        `json:"givingUrl,omitempty"`
	// MapEmbed is either a map URL or pasted <iframe> embed code.
	MapEmbed string `json:"mapEmbed,omitempty"`
	// MapEmbedURL is derived from MapEmbed.
	MapEmbedURL string `json:"mapEmbedUrl,omitempty"`
}

// HomePage is the singleton with the landing page copy.
type HomePage struct {
	HeroTitle          string     `json:"heroTitle"`
	HeroSubtitle       string     `json:"heroSubtitle,omitempty"`
	HeroImage          *Image     `json:"heroImage,omitempty"`
	CTAText            string     `json:"ctaText,omitempty"`
	CTALink            string     `json:"ctaLink,omitempty"`
	AboutHeading       string     `json:"aboutHeading,omitempty"`
	AboutText          string     `json:"aboutText,omitempty"`
	FeaturedMinistries []Ministry `json:"featuredMinistries,omitempty"`
}

// PastorWelcome is the singleton with the pastor's greeting.
type PastorWelcome struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Photo     *Image `json:"photo,omitempty"`
	Message   string `json:"message"`
	Signature string `json:"signature,omitempty"`
}

// Ministry is one of the church's ministries.
type Ministry struct {
	ID           string `json:"_id,omitempty"`
	Name         string `json:"name"`
	Slug         Slug   `json:"slug"`
	Summary      string `json:"summary,omitempty"`
	Description  string `json:"description,omitempty"`
	Image        *Image `json:"image,omitempty"`
	Leader       string `json:"leader,omitempty"`
	MeetingTime  string `json:"meetingTime,omitempty"`
	Location     string `json:"location,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	AgeGroup     string `json:"ageGroup,omitempty"`
	Order        int    `json:"order,omitempty"`
}

// Event is a dated church event.
type Event struct {
	ID              string     `json:"_id,omitempty"`
	Title           string     `json:"title"`
	Slug            Slug       `json:"slug"`
	Start           time.Time  `json:"startDate"`
	End             *time.Time `json:"endDate,omitempty"`
	Location        string     `json:"location,omitempty"`
	Description     string     `json:"description,omitempty"`
	Image           *Image     `json:"image,omitempty"`
	Category        string     `json:"category,omitempty"`
	Featured        bool       `json:"isFeatured,omitempty"`
	RegistrationURL string     `json:"registrationUrl,omitempty"`
}

// SermonSeries groups sermons.
type SermonSeries struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Slug        Slug     `json:"slug"`
	Description string   `json:"description,omitempty"`
	Image       *Image   `json:"image,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Sermons     []Sermon `json:"sermons,omitempty"`
}

// Sermon is a recorded message.
type Sermon struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title"`
	Slug        Slug   `json:"slug"`
	Date        string `json:"date"`
	Preacher    string `json:"preacher,omitempty"`
	Scripture   string `json:"scripture,omitempty"`
	SeriesTitle string `json:"seriesTitle,omitempty"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	AudioURL    string `json:"audioUrl,omitempty"`
	Thumbnail   *Image `json:"thumbnail,omitempty"`
}

// GalleryImage is one photo in the gallery.
type GalleryImage struct {
	ID       string `json:"_id,omitempty"`
	Title    string `json:"title"`
	Image    Image  `json:"image"`
	Caption  string `json:"caption,omitempty"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
}
