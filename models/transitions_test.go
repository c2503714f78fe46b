package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLeadTransition(t *testing.T) {
	assert.True(t, ValidLeadTransition(LeadNew, LeadContacted))
	assert.True(t, ValidLeadTransition(LeadContacted, LeadQualified))
	assert.True(t, ValidLeadTransition(LeadQualified, LeadConverted))

	// Any live stage can be lost.
	assert.True(t, ValidLeadTransition(LeadNew, LeadLost))
	assert.True(t, ValidLeadTransition(LeadContacted, LeadLost))
	assert.True(t, ValidLeadTransition(LeadQualified, LeadLost))

	// No skipping stages, no leaving terminal states.
	assert.False(t, ValidLeadTransition(LeadNew, LeadQualified))
	assert.False(t, ValidLeadTransition(LeadNew, LeadConverted))
	assert.False(t, ValidLeadTransition(LeadConverted, LeadContacted))
	assert.False(t, ValidLeadTransition(LeadLost, LeadNew))
	assert.False(t, ValidLeadTransition(LeadContacted, LeadContacted))
}

func TestValidQuotationTransition(t *testing.T) {
	assert.True(t, ValidQuotationTransition(QuotationDraft, QuotationSent))
	assert.True(t, ValidQuotationTransition(QuotationSent, QuotationAccepted))
	assert.True(t, ValidQuotationTransition(QuotationSent, QuotationDeclined))

	// Drafts cannot be accepted directly and terminal states are final.
	assert.False(t, ValidQuotationTransition(QuotationDraft, QuotationAccepted))
	assert.False(t, ValidQuotationTransition(QuotationAccepted, QuotationDeclined))
	assert.False(t, ValidQuotationTransition(QuotationDeclined, QuotationSent))
}
