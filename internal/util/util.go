package util

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaskPhone obscures a phone number for logging, keeping only the last few digits.
func MaskPhone(phone string) string {
	runes := []rune(strings.TrimSpace(phone))
	n := len(runes)
	switch {
	case n > 6:
		return strings.Repeat("*", n-4) + string(runes[n-4:])
	case n > 2:
		return strings.Repeat("*", n-2) + string(runes[n-2:])
	}
	return string(runes)
}

// MaskName keeps the first rune of each word of a customer name.
func MaskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == len(w) {
			continue
		}
		words[i] = string(r) + strings.Repeat("*", utf8.RuneCountInString(w)-1)
	}
	return strings.Join(words, " ")
}

// MaskSensitiveQuery masks personal values, e.g. phone numbers, within a raw query string.
func MaskSensitiveQuery(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "&")
	changed := false
	for i, part := range parts {
		if part == "" {
			continue
		}
		keyPart, valuePart, _ := strings.Cut(part, "=")
		decodedKey, err := url.QueryUnescape(keyPart)
		if err != nil {
			decodedKey = keyPart
		}
		if !shouldMaskQueryParam(decodedKey) {
			continue
		}
		decodedValue, err := url.QueryUnescape(valuePart)
		if err != nil {
			decodedValue = valuePart
		}
		parts[i] = keyPart + "=" + url.QueryEscape(MaskPhone(decodedValue))
		changed = true
	}
	if !changed {
		return raw
	}
	return strings.Join(parts, "&")
}

func shouldMaskQueryParam(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	key = strings.TrimSuffix(key, "[]")
	return key == "q" || strings.Contains(key, "phone") || strings.Contains(key, "token")
}
