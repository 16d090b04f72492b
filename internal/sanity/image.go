package sanity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const imageCDN = "https://cdn.sanity.io/images"

// ImageOptions are the transformation parameters understood by the image CDN.
type ImageOptions struct {
	Width  int
	Height int
	Fit    string // clip, crop, fill, max, min, scale
	Auto   bool   // auto=format
}

// ImageURL turns an asset reference such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg" into a CDN URL.
func ImageURL(projectID, dataset, ref string, opts ImageOptions) (string, error) {
	if !strings.HasPrefix(ref, "image-") {
		return "", fmt.Errorf("not an image reference: %q", ref)
	}
	parts := strings.Split(strings.TrimPrefix(ref, "image-"), "-")
	if len(parts) < 3 {
		return "", fmt.Errorf("malformed image reference: %q", ref)
	}
	format := parts[len(parts)-1]
	dims := parts[len(parts)-2]
	id := strings.Join(parts[:len(parts)-2], "-")
	if !validDims(dims) || id == "" || format == "" {
		return "", fmt.Errorf("malformed image reference: %q", ref)
	}

	u := fmt.Sprintf("%s/%s/%s/%s-%s.%s", imageCDN, projectID, dataset, id, dims, format)

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("h", strconv.Itoa(opts.Height))
	}
	if opts.Fit != "" {
		q.Set("fit", opts.Fit)
	}
	if opts.Auto {
		q.Set("auto", "format")
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

// ImageURL builds a CDN URL for this client's project and dataset.
func (c *Client) ImageURL(ref string, opts ImageOptions) (string, error) {
	return ImageURL(c.cfg.ProjectID, c.cfg.Dataset, ref, opts)
}

func validDims(s string) bool {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return false
	}
	_, errW := strconv.Atoi(w)
	_, errH := strconv.Atoi(h)
	return errW == nil && errH == nil
}
