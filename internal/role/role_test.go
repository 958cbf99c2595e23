package role_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/role"
)

func TestIsReadOnly(t *testing.T) {
	for _, r := range role.All {
		t.Run(r.Code(), func(t *testing.T) {
			assert.Equal(t, r == role.Auditor, role.IsReadOnly(r))
		})
	}

	assert.False(t, role.IsReadOnly(role.Role(0)))
}

func TestGatedByOpeningBalance(t *testing.T) {
	gated := map[role.Role]bool{role.Accountant: true, role.Manager: true}

	for _, r := range role.All {
		assert.Equal(t, gated[r], role.GatedByOpeningBalance(r), r.Code())
	}
}

func TestParse(t *testing.T) {
	for _, r := range role.All {
		got, err := role.Parse(r.Code())
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.NotEmpty(t, r.Label())
	}

	_, err := role.Parse("accountant")
	assert.Error(t, err)
}

func TestRole_JSON(t *testing.T) {
	var v struct {
		Role role.Role `json:"role"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"role":"AUDITOR"}`), &v))
	assert.Equal(t, role.Auditor, v.Role)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"AUDITOR"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"role":"JANITOR"}`), &v))
}
