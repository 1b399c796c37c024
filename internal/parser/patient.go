package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BerylCAtieno/claim-appeal-api/internal/config"
	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
)

// Placeholders used when a field is not found.
const (
	PlaceholderName    = "[Patient Name]"
	PlaceholderAddress = "[Patient Address]"
	PlaceholderPhone   = "[Patient Phone]"
	PlaceholderEmail   = "[Patient Email]"
)

// FieldParser pulls patient contact details out of medical record text.
type FieldParser interface {
	Parse(text string) models.PatientInfo
}

type field struct {
	pattern     *regexp.Regexp
	placeholder string
}

// RegexParser matches single-line "Label: value" entries. Each field is
// searched independently; the first match wins.
type RegexParser struct {
	name    field
	address field
	phone   field
	email   field
}

func NewRegexParser(labels config.ParserLabels) (*RegexParser, error) {
	name, err := newField(labels.Name, PlaceholderName)
	if err != nil {
		return nil, err
	}
	address, err := newField(labels.Address, PlaceholderAddress)
	if err != nil {
		return nil, err
	}
	phone, err := newField(labels.Phone, PlaceholderPhone)
	if err != nil {
		return nil, err
	}
	email, err := newField(labels.Email, PlaceholderEmail)
	if err != nil {
		return nil, err
	}

	return &RegexParser{name: name, address: address, phone: phone, email: email}, nil
}

// NewDefaultParser uses the stock labels.
func NewDefaultParser() *RegexParser {
	p, err := NewRegexParser(config.DefaultParserLabels())
	if err != nil {
		panic(err)
	}
	return p
}

func newField(label, placeholder string) (field, error) {
	if strings.TrimSpace(label) == "" {
		return field{}, fmt.Errorf("empty label for %s", placeholder)
	}
	re, err := regexp.Compile(`(?m)^[ \t]*` + regexp.QuoteMeta(label) + `:[ \t]*(.*)$`)
	if err != nil {
		return field{}, fmt.Errorf("compile pattern for %q: %w", label, err)
	}
	return field{pattern: re, placeholder: placeholder}, nil
}

func (f field) find(text string) string {
	m := f.pattern.FindStringSubmatch(text)
	if m == nil {
		return f.placeholder
	}
	value := strings.TrimRight(m[1], " \t\r")
	if value == "" {
		return f.placeholder
	}
	return value
}

func (p *RegexParser) Parse(text string) models.PatientInfo {
	return models.PatientInfo{
		Name:    p.name.find(text),
		Address: p.address.find(text),
		Phone:   p.phone.find(text),
		Email:   p.email.find(text),
	}
}
