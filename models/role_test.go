package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionMatrixAllows(t *testing.T) {
	m := PermissionMatrix{
		ModuleDebtors:  {ActionView, ActionUpdate},
		ModuleInvoices: {ActionView},
	}

	assert.True(t, m.Allows(ModuleDebtors, ActionView))
	assert.True(t, m.Allows(ModuleDebtors, ActionUpdate))
	assert.False(t, m.Allows(ModuleDebtors, ActionDelete))
	assert.False(t, m.Allows(ModuleInvoices, ActionCreate))
	assert.False(t, m.Allows(ModuleRoles, ActionView), "unlisted module grants nothing")
}

func TestAdminMatrixGrantsEverything(t *testing.T) {
	m := AdminMatrix()
	for _, mod := range []Module{
		ModuleLeads, ModuleQuotations, ModuleCustomers, ModuleInvoices,
		ModuleReceipts, ModuleDebtors, ModuleTemplates, ModuleSettings,
		ModuleRoles,
	} {
		for _, act := range []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			assert.True(t, m.Allows(mod, act), "admin must allow %s on %s", act, mod)
		}
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	m := PermissionMatrix{
		ModuleDebtors: {ActionView, ActionCreate},
	}

	raw, err := MarshalMatrix(m)
	require.NoError(t, err)

	parsed, err := UnmarshalMatrix(raw)
	require.NoError(t, err)
	assert.True(t, parsed.Allows(ModuleDebtors, ActionCreate))
	assert.False(t, parsed.Allows(ModuleDebtors, ActionDelete))
}

func TestUnmarshalMatrixRejectsGarbage(t *testing.T) {
	_, err := UnmarshalMatrix("{not json")
	assert.Error(t, err)
}
