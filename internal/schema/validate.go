package schema

import (
	"net/url"
	"regexp"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugRe  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-().]{7,20}$`)
	timeRe  = regexp.MustCompile(`^(?:[1-9]|1[0-2]):[0-5]\d\s?(?:AM|PM|am|pm)$|^(?:[01]?\d|2[0-3]):[0-5]\d$`)
	colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidSlug reports whether s is lowercase words joined by single hyphens.
func ValidSlug(s string) bool { return slugRe.MatchString(s) }

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool { return phoneRe.MatchString(s) }

// ValidServiceTime accepts "9:30 AM" or "09:30".
func ValidServiceTime(s string) bool { return timeRe.MatchString(s) }

// ValidColor accepts #rgb and #rrggbb.
func ValidColor(s string) bool { return colorRe.MatchString(s) }

// ValidURL reports whether s is an absolute http(s) URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
