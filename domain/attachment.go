package domain

import (
	"encoding/base64"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLength is a multiple of 4 so a prefix of valid base64 still decodes.
const sniffLength = 4096

// DetectFileType guesses the media type of a base64 attachment from its first bytes.
// It returns an empty string when the content is empty or not base64.
func DetectFileType(fileContent string) string {
	if fileContent == "" {
		return ""
	}
	prefix := fileContent
	if len(prefix) > sniffLength {
		prefix = prefix[:sniffLength]
	}
	data, err := base64.StdEncoding.DecodeString(prefix)
	if err != nil {
		return ""
	}
	return mimetype.Detect(data).String()
}
