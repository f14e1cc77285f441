package media

import "regexp"

var deliveryURLPattern = regexp.MustCompile(`(?i)/upload(?:/[^/]+)*/v\d+/(.+?)\.(jpg|jpeg|png|gif|webp|svg|heic|heif|tif|tiff|bmp|ico)$`)

// PublicIDFromURL recovers the Cloudinary public id from a delivery URL, or
// "" when the URL does not look like one.
func PublicIDFromURL(raw string) string {
	m := deliveryURLPattern.FindStringSubmatch(raw)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
