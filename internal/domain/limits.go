package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// TextLimits bounds the free-text fields of one entity kind.
// A zero NotesMax means the entity has no notes field.
type TextLimits struct {
	TitleMin       int
	TitleMax       int
	DescriptionMax int
	NotesMax       int
}

// Limits groups text bounds for every entity plus the relation cap.
type Limits struct {
	Project          TextLimits
	Module           TextLimits
	UseCase          TextLimits
	Task             TextLimits
	TaskRelationsMax int
}

func DefaultLimits() Limits {
	return Limits{
		Project:          TextLimits{TitleMin: 3, TitleMax: 100, DescriptionMax: 1000},
		Module:           TextLimits{TitleMin: 3, TitleMax: 100, DescriptionMax: 1000},
		UseCase:          TextLimits{TitleMin: 3, TitleMax: 100, DescriptionMax: 1000, NotesMax: 500},
		Task:             TextLimits{TitleMin: 3, TitleMax: 200, DescriptionMax: 2000, NotesMax: 1000},
		TaskRelationsMax: 20,
	}
}

type validator struct {
	fields []FieldError
}

func (v *validator) add(field, format string, args ...any) {
	v.fields = append(v.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) title(s string, l TextLimits) {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	switch {
	case n == 0:
		v.add("title", "is required")
	case n < l.TitleMin:
		v.add("title", "must be at least %d characters", l.TitleMin)
	case n > l.TitleMax:
		v.add("title", "must be at most %d characters", l.TitleMax)
	}
}

func (v *validator) maxLen(field, s string, max int) {
	if utf8.RuneCountInString(s) > max {
		v.add(field, "must be at most %d characters", max)
	}
}

func (v *validator) required(field, s string) {
	if strings.TrimSpace(s) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
