// Package sanitizer normalizes free-text listing input before validation
// so that equivalent values compare and search consistently.
package sanitizer

import (
	"strings"
	"unicode"

	"stayindia/pkg/config"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// TrimAndNormalize trims the string, collapses runs of whitespace into a
// single space, and drops control characters.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		case unicode.IsControl(r):
			continue
		default:
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}

func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

func NormalizeDescription(description string) string {
	return TrimAndNormalize(description)
}

// NormalizeLocation lowercases so "Goa" and "goa" hit the same search key.
func NormalizeLocation(location string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(location)
}

func NormalizeCountry(country string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(country)
}

// ClampNightlyPrice pins a nightly price into the configured band.
func ClampNightlyPrice(cfg *config.Config, price int64) int64 {
	if price < cfg.MinNightlyPrice {
		return cfg.MinNightlyPrice
	}
	if price > cfg.MaxNightlyPrice {
		return cfg.MaxNightlyPrice
	}
	return price
}
