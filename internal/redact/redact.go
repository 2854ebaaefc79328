// Package redact implements the secret/PII redaction matching engine
// that runs ahead of compression when a scan has redaction enabled.
// The engine is in scope; the literal signature catalogue is treated
// as pluggable data so a caller can extend it without touching the
// matcher.
package redact

import "regexp"

// placeholder replaces the captured secret value while leaving
// surrounding key="..." context intact.
const placeholder = "[REDACTED]"

// emailPlaceholder replaces an email address PII match.
const emailPlaceholder = "[EMAIL_REDACTED]"

// Pattern is one entry in the redaction catalogue: a compiled regexp
// and the literal text to substitute when it matches. If the pattern
// defines a capture group named "secret", only that group's span is
// replaced so the surrounding key=value shape survives; otherwise the
// whole match is replaced.
type Pattern struct {
	Regexp      *regexp.Regexp
	Replacement string
}

// secretGroup is the capture group name patterns use to scope the
// replacement to the secret value rather than the whole match.
const secretGroup = "secret"

// DefaultCatalogue is the built-in signature set: common
// key=value/JSON secret shapes, an AWS secret access key literal, and
// PEM private-key headers. Email addresses are not in the catalogue;
// Redact masks them separately on every call. Ground truth for the
// exact expressions is the upstream redaction engine this module
// replaces; abyss treats the catalogue as data a caller may extend via
// [New].
func DefaultCatalogue() []Pattern {
	return []Pattern{
		{
			Regexp: regexp.MustCompile(
				`(?i)(api[_-]?key|password|secret|token|access[_-]?key|auth[_-]?token)["']?\s*[:=]\s*["'](?P<secret>[^"']{8,})["']`,
			),
			Replacement: placeholder,
		},
		{
			Regexp:      regexp.MustCompile(`(?i)aws_secret_access_key\s*=\s*(?P<secret>[A-Za-z0-9/+=]{40})`),
			Replacement: placeholder,
		},
		{
			Regexp:      regexp.MustCompile(`(?i)-{5}BEGIN (RSA|DSA|EC|OPENSSH) PRIVATE KEY-{5}[\s\S]*?-{5}END (RSA|DSA|EC|OPENSSH) PRIVATE KEY-{5}`),
			Replacement: placeholder,
		},
	}
}

// emailPattern matches an email address; redacted unconditionally
// rather than through the secret-group mechanism since the whole
// match is the thing to hide.
var emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Redactor applies a catalogue of patterns to file content, replacing
// matched secrets and PII with fixed placeholders.
type Redactor struct {
	catalogue []Pattern
}

// New builds a Redactor over catalogue. A nil or empty catalogue falls
// back to [DefaultCatalogue].
func New(catalogue []Pattern) *Redactor {
	if len(catalogue) == 0 {
		catalogue = DefaultCatalogue()
	}

	return &Redactor{catalogue: catalogue}
}

// Redact replaces every catalogue match in content with its
// placeholder, preserving surrounding context, then redacts email
// addresses. Private-key headers (and the body up to their footer)
// are fully masked by the catalogue entry above.
func (r *Redactor) Redact(content string) string {
	result := content

	for _, p := range r.catalogue {
		result = replaceSecretGroup(p, result)
	}

	result = emailPattern.ReplaceAllString(result, emailPlaceholder)

	return result
}

// replaceSecretGroup applies a single pattern, replacing only the
// named "secret" submatch when present so surrounding key="..." text
// is preserved, and the whole match otherwise.
func replaceSecretGroup(p Pattern, content string) string {
	groupIdx := p.Regexp.SubexpIndex(secretGroup)
	if groupIdx < 0 {
		return p.Regexp.ReplaceAllString(content, p.Replacement)
	}

	return p.Regexp.ReplaceAllStringFunc(content, func(match string) string {
		loc := p.Regexp.FindStringSubmatchIndex(match)
		if loc == nil || loc[2*groupIdx] < 0 {
			return p.Replacement
		}

		start, end := loc[2*groupIdx], loc[2*groupIdx+1]

		return match[:start] + p.Replacement + match[end:]
	})
}
