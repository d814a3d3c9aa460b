package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeverityJSON(t *testing.T) {
	out, err := json.Marshal(Severity_WARNING)
	require.NoError(t, err)
	require.Equal(t, `"WARNING"`, string(out))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"error"`), &s))
	require.Equal(t, Severity_ERROR, s)

	require.NoError(t, json.Unmarshal([]byte(`"bogus"`), &s))
	require.Equal(t, Severity_SEVERITY_UNSPECIFIED, s)
}

func TestSeverityRankOrdersErrorsFirst(t *testing.T) {
	require.Less(t, Severity_ERROR.Rank(), Severity_WARNING.Rank())
	require.Less(t, Severity_WARNING.Rank(), Severity_INFO.Rank())
}

func TestFindingKey(t *testing.T) {
	a := Finding{RuleID: "r", Location: "f:1", Context: "ctx"}
	b := Finding{RuleID: "r", Location: "f:1", Context: "ctx", Match: "different match"}
	require.Equal(t, a.Key(), b.Key())

	c := Finding{RuleID: "r", Location: "f:2", Context: "ctx"}
	require.NotEqual(t, a.Key(), c.Key())
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		require.True(t, c.Valid())
	}
	require.False(t, Category("made-up").Valid())
}
