package schema

func init() {
	register(Document{
		Name:      "siteSettings",
		Title:     "Site Settings",
		Singleton: true,
		Preview:   []string{"churchName"},
		Fields: []Field{
			{Name: "churchName", Title: "Church Name", Type: TypeString, Required: true},
			{Name: "tagline", Title: "Tagline", Type: TypeString},
			{Name: "logo", Title: "Logo", Type: TypeImage},
			{Name: "address", Title: "Address", Type: TypeObject, Fields: []Field{
				{Name: "street", Title: "Street", Type: TypeString},
				{Name: "city", Title: "City", Type: TypeString},
				{Name: "state", Title: "State", Type: TypeString},
				{Name: "zip", Title: "ZIP Code", Type: TypeString},
			}},
			{Name: "phone", Title: "Phone", Type: TypeString, Check: ValidPhone, Rule: "must be a valid phone number"},
			{Name: "email", Title: "Email", Type: TypeString, Check: ValidEmail, Rule: "must be a valid email address"},
			{Name: "serviceTimes", Title: "Service Times", Type: TypeArray, Of: []Field{
				{Name: "name", Title: "Service Name", Type: TypeString, Required: true},
				{Name: "day", Title: "Day", Type: TypeString, Required: true,
					Options: []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}},
				{Name: "time", Title: "Time", Type: TypeString, Required: true, Check: ValidServiceTime, Rule: "must look like 9:30 AM or 09:30"},
			}},
			{Name: "socialLinks", Title: "Social Links", Type: TypeObject, Fields: []Field{
				{Name: "facebook", Title: "Facebook", Type: TypeURL},
				{Name: "instagram", Title: "Instagram", Type: TypeURL},
				{Name: "youtube", Title: "YouTube", Type: TypeURL},
				{Name: "twitter", Title: "Twitter", Type: TypeURL},
			}},
			{Name: "givingUrl", Title: "Online Giving URL", Type: TypeURL},
			{Name: "mapEmbed", Title: "Map Embed (URL or iframe code)", Type: TypeText},
			{Name: "primaryColor", Title: "Primary Color", Type: TypeString, Check: ValidColor, Rule: "must be a hex color"},
		},
	})

	register(Document{
		Name:      "homePage",
		Title:     "Home Page",
		Singleton: true,
		Preview:   []string{"heroTitle"},
		Fields: []Field{
			{Name: "heroTitle", Title: "Hero Title", Type: TypeString, Required: true},
			{Name: "heroSubtitle", Title: "Hero Subtitle", Type: TypeText},
			{Name: "heroImage", Title: "Hero Image", Type: TypeImage},
			{Name: "ctaText", Title: "Button Text", Type: TypeString},
			{Name: "ctaLink", Title: "Button Link", Type: TypeString},
			{Name: "aboutHeading", Title: "About Heading", Type: TypeString},
			{Name: "aboutText", Title: "About Text", Type: TypeText},
			{Name: "featuredMinistries", Title: "Featured Ministries", Type: TypeArray, Of: []Field{
				{Name: "_ref", Title: "Ministry", Type: TypeRef, To: "ministry"},
			}},
		},
	})

	register(Document{
		Name:      "pastorWelcome",
		Title:     "Pastor Welcome",
		Singleton: true,
		Preview:   []string{"name", "title"},
		Fields: []Field{
			{Name: "name", Title: "Pastor Name", Type: TypeString, Required: true},
			{Name: "title", Title: "Title", Type: TypeString},
			{Name: "photo", Title: "Photo", Type: TypeImage},
			{Name: "message", Title: "Welcome Message", Type: TypeText, Required: true},
			{Name: "signature", Title: "Signature", Type: TypeString},
		},
	})

	register(Document{
		Name:    "ministry",
		Title:   "Ministry",
		Preview: []string{"name", "leader", "image"},
		Fields: []Field{
			{Name: "name", Title: "Name", Type: TypeString, Required: true},
			{Name: "slug", Title: "Slug", Type: TypeSlug, Required: true},
			{Name: "summary", Title: "Summary", Type: TypeText},
			{Name: "description", Title: "Description", Type: TypeBlock},
			{Name: "image", Title: "Image", Type: TypeImage},
			{Name: "leader", Title: "Leader", Type: TypeString},
			{Name: "meetingTime", Title: "Meeting Time", Type: TypeString},
			{Name: "location", Title: "Location", Type: TypeString},
			{Name: "contactEmail", Title: "Contact Email", Type: TypeString, Check: ValidEmail, Rule: "must be a valid email address"},
			{Name: "ageGroup", Title: "Age Group", Type: TypeString,
				Options: []string{"children", "youth", "adults", "seniors", "all"}},
			{Name: "order", Title: "Display Order", Type: TypeNumber},
		},
	})

	register(Document{
		Name:    "event",
		Title:   "Event",
		Preview: []string{"title", "startDate", "image"},
		Fields: []Field{
			{Name: "title", Title: "Title", Type: TypeString, Required: true},
			{Name: "slug", Title: "Slug", Type: TypeSlug, Required: true},
			{Name: "startDate", Title: "Start", Type: TypeDatetime, Required: true},
			{Name: "endDate", Title: "End", Type: TypeDatetime},
			{Name: "location", Title: "Location", Type: TypeString},
			{Name: "description", Title: "Description", Type: TypeText},
			{Name: "image", Title: "Image", Type: TypeImage},
			{Name: "category", Title: "Category", Type: TypeString,
				Options: []string{"worship", "fellowship", "outreach", "youth", "children", "special"}},
			{Name: "isFeatured", Title: "Featured", Type: TypeBoolean},
			{Name: "registrationUrl", Title: "Registration URL", Type: TypeURL},
		},
	})

	register(Document{
		Name:    "sermonSeries",
		Title:   "Sermon Series",
		Preview: []string{"title", "image"},
		Fields: []Field{
			{Name: "title", Title: "Title", Type: TypeString, Required: true},
			{Name: "slug", Title: "Slug", Type: TypeSlug, Required: true},
			{Name: "description", Title: "Description", Type: TypeText},
			{Name: "image", Title: "Artwork", Type: TypeImage},
			{Name: "startDate", Title: "Start Date", Type: TypeDate},
			{Name: "endDate", Title: "End Date", Type: TypeDate},
		},
	})

	register(Document{
		Name:    "sermon",
		Title:   "Sermon",
		Preview: []string{"title", "preacher", "date"},
		Fields: []Field{
			{Name: "title", Title: "Title", Type: TypeString, Required: true},
			{Name: "slug", Title: "Slug", Type: TypeSlug, Required: true},
			{Name: "date", Title: "Date", Type: TypeDate, Required: true},
			{Name: "preacher", Title: "Preacher", Type: TypeString},
			{Name: "scripture", Title: "Scripture", Type: TypeString},
			{Name: "series", Title: "Series", Type: TypeRef, To: "sermonSeries"},
			{Name: "description", Title: "Description", Type: TypeText},
			{Name: "videoUrl", Title: "Video URL", Type: TypeURL},
			{Name: "audioUrl", Title: "Audio URL", Type: TypeURL},
			{Name: "thumbnail", Title: "Thumbnail", Type: TypeImage},
		},
	})

	register(Document{
		Name:    "galleryImage",
		Title:   "Gallery Image",
		Preview: []string{"title", "category", "image"},
		Fields: []Field{
			{Name: "title", Title: "Title", Type: TypeString, Required: true},
			{Name: "image", Title: "Image", Type: TypeImage, Required: true},
			{Name: "caption", Title: "Caption", Type: TypeString},
			{Name: "category", Title: "Category", Type: TypeString,
				Options: []string{"worship", "events", "ministries", "community", "facilities"}},
			{Name: "date", Title: "Date", Type: TypeDate},
		},
	})
}
