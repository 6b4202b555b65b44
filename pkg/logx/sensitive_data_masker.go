package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

// MaskFunc adapts a plain function to SensitiveDataMaskerInterface.
type MaskFunc func(input []byte) []byte

func (f MaskFunc) Mask(input []byte) []byte {
	return f(input)
}

// NoMask leaves dumps untouched.
var NoMask = MaskFunc(func(input []byte) []byte { return input }) //nolint:gochecknoglobals

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// Headers.
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	regexp.MustCompile("(?s)(Cookie: ).+?(\r)"),
	// Player names in sync api paths and query strings.
	regexp.MustCompile(`(/player/)[^/\s?]+(/)`),
	regexp.MustCompile(`([?&]username=)[^&\s]+()`),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("username":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
