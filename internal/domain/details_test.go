package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProjectUpdateDetails(t *testing.T) {
	p, _, _ := newTestHierarchy(t)
	later := testNow.Add(time.Hour)

	require.NoError(t, p.UpdateDetails(Details{Title: strPtr("Storefront")}, DefaultLimits().Project, later))
	assert.Equal(t, "Storefront", p.Title)
	assert.Empty(t, p.Description, "unset fields are left alone")
	assert.Equal(t, later, p.UpdatedAt)
	assert.Empty(t, p.PullEvents())

	p.Archive(testNow)
	assert.NoError(t, p.UpdateDetails(Details{Description: strPtr("Old shop")}, DefaultLimits().Project, later))
}

func TestProjectUpdateDetails_RejectsNotes(t *testing.T) {
	p, _, _ := newTestHierarchy(t)
	err := p.UpdateDetails(Details{ImportantNotes: strPtr("n")}, DefaultLimits().Project, testNow)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "important_notes", ve.Fields[0].Field)
}

func TestModuleUpdateDetails(t *testing.T) {
	p, m, _ := newTestHierarchy(t)
	l := DefaultLimits().Module

	err := m.UpdateDetails(p, Details{Title: strPtr("Pa"), Description: strPtr(strings.Repeat("d", l.DescriptionMax+1))}, l, testNow)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "Payments", m.Title)

	require.NoError(t, m.UpdateDetails(p, Details{Title: strPtr("Billing")}, l, testNow))
	assert.Equal(t, "Billing", m.Title)

	p.Archive(testNow)
	err = m.UpdateDetails(p, Details{Title: strPtr("Invoices")}, l, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))
	assert.Equal(t, "Billing", m.Title)
}

func TestUseCaseUpdateDetails(t *testing.T) {
	_, m, uc := newTestHierarchy(t)
	l := DefaultLimits().UseCase

	require.NoError(t, uc.UpdateDetails(m, Details{ImportantNotes: strPtr("idempotent")}, l, testNow))
	assert.Equal(t, "idempotent", uc.ImportantNotes)
	assert.Equal(t, "Refund order", uc.Title)

	err := uc.UpdateDetails(m, Details{ImportantNotes: strPtr(strings.Repeat("n", l.NotesMax+1))}, l, testNow)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "idempotent", uc.ImportantNotes)

	m.Archive(testNow)
	err = uc.UpdateDetails(m, Details{Title: strPtr("Partial refund")}, l, testNow)
	assert.True(t, errors.Is(err, ErrBusinessRule))
}

func TestDetailsIsEmpty(t *testing.T) {
	assert.True(t, Details{}.IsEmpty())
	assert.False(t, Details{Description: strPtr("")}.IsEmpty())
}
