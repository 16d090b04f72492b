package content

import "time"

const imageProjection = `{"assetRef": asset._ref, "url": asset->url, alt}`

const (
	settingsQuery = `*[_type == "siteSettings"][0]{
  churchName, tagline,
  "logo": logo` + imageProjection + `,
  address, phone, email,
  serviceTimes[]{name, day, time},
  socialLinks, givingUrl, mapEmbed
}`

	homeQuery = `*[_type == "homePage"][0]{
  heroTitle, heroSubtitle,
  "heroImage": heroImage` + imageProjection + `,
  ctaText, ctaLink, aboutHeading, aboutText,
  "featuredMinistries": featuredMinistries[]->{_id, name, slug, summary, "image": image` + imageProjection + `}
}`

	pastorQuery = `*[_type == "pastorWelcome"][0]{
  name, title,
  "photo": photo` + imageProjection + `,
  message, signature
}`

	ministriesQuery = `*[_type == "ministry"] | order(order asc, name asc){
  _id, name, slug, summary,
  "image": image` + imageProjection + `,
  leader, meetingTime, location, ageGroup, order
}`

	ministryQuery = `*[_type == "ministry" && slug.current == $slug][0]{
  _id, name, slug, summary,
  "description": pt::text(description),
  "image": image` + imageProjection + `,
  leader, meetingTime, location, contactEmail, ageGroup, order
}`

	eventsQuery = `*[_type == "event" && coalesce(endDate, startDate) >= $since] | order(startDate asc){
  _id, title, slug, startDate, endDate, location, description,
  "image": image` + imageProjection + `,
  category, isFeatured, registrationUrl
}`

	sermonsQuery = `*[_type == "sermon"] | order(date desc)[0...50]{
  _id, title, slug, date, preacher, scripture,
  "seriesTitle": series->title,
  description, videoUrl, audioUrl,
  "thumbnail": thumbnail` + imageProjection + `
}`

	seriesQuery = `*[_type == "sermonSeries"] | order(startDate desc){
  _id, title, slug, description,
  "image": image` + imageProjection + `,
  startDate, endDate,
  "sermons": *[_type == "sermon" && references(^._id)] | order(date desc){_id, title, slug, date, preacher}
}`

	galleryQuery = `*[_type == "galleryImage"] | order(date desc){
  _id, title,
  "image": image` + imageProjection + `,
  caption, category, date
}`
)

// Query is a named GROQ query with its parameters.
type Query struct {
	Name   string
	GROQ   string
	Params map[string]any
}

// Names of the site queries. They double as snapshot and fallback names.
const (
	NameSettings   = "settings"
	NameHome       = "home"
	NamePastor     = "pastor"
	NameMinistries = "ministries"
	NameMinistry   = "ministry"
	NameEvents     = "events"
	NameSermons    = "sermons"
	NameSeries     = "series"
	NameGallery    = "gallery"
)

// Queries returns every parameterless page query. The per-slug ministry
// query is excluded; its data is covered by the ministries list.
func (r *Repository) Queries() []Query {
	return []Query{
		{Name: NameSettings, GROQ: settingsQuery},
		{Name: NameHome, GROQ: homeQuery},
		{Name: NamePastor, GROQ: pastorQuery},
		{Name: NameMinistries, GROQ: ministriesQuery},
		r.eventsQuery(),
		{Name: NameSermons, GROQ: sermonsQuery},
		{Name: NameSeries, GROQ: seriesQuery},
		{Name: NameGallery, GROQ: galleryQuery},
	}
}

// eventsQuery asks for events from the start of today, so the cache key
// changes once per day rather than on every request.
func (r *Repository) eventsQuery() Query {
	now := r.now()
	y, m, d := now.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).UTC().Format(time.RFC3339)
	return Query{Name: NameEvents, GROQ: eventsQuery, Params: map[string]any{"since": since}}
}

func ministryQueryFor(slug string) Query {
	return Query{Name: NameMinistry, GROQ: ministryQuery, Params: map[string]any{"slug": slug}}
}
