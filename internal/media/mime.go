package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffImage detects the content type from the payload itself. The declared
// type is only a fallback for formats the detector reports generically.
func sniffImage(data []byte, declared string) (mime string, ext string, ok bool) {
	detected := mimetype.Detect(data)
	mime = strings.ToLower(detected.String())
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	ext = detected.Extension()

	if strings.HasPrefix(mime, "image/") {
		return mime, ext, true
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if mime == "application/octet-stream" && strings.HasPrefix(declared, "image/") {
		return declared, "", true
	}
	return mime, ext, false
}

// dimensions decodes only the header of formats the standard decoders know.
func dimensions(data []byte) (width, height int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
