package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

var (
	phonePattern   = regexp.MustCompile(`^01[3-9]\d{8}$`)
	pinPattern     = regexp.MustCompile(`^\d{6}$`)
	youtubePattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\s]+)`)
)

// ValidPhone reports whether s is an 11-digit Bangladeshi mobile number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidPIN reports whether s is exactly six digits.
func ValidPIN(s string) bool {
	return pinPattern.MatchString(s)
}

// ExtractYouTubeID pulls the video id out of a YouTube watch/short/embed URL.
func ExtractYouTubeID(url string) string {
	match := youtubePattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// GeneratePIN returns a random 6-digit login PIN.
func GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate PIN: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
