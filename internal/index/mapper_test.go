package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileMap(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		fm, err := parseFileMap(`{"map":"func A()","description":"does A","keywords":["alpha"]}`)
		require.NoError(t, err)
		assert.Equal(t, "func A()", fm.Map)
		assert.Equal(t, "does A", fm.Description)
		assert.Equal(t, []string{"alpha"}, fm.Keywords)
	})

	t.Run("fenced JSON with prose", func(t *testing.T) {
		reply := "Here is the analysis:\n```json\n" +
			`{"map":"type B struct","description":"holds B","keywords":["beta","storage"]}` +
			"\n```\n"
		fm, err := parseFileMap(reply)
		require.NoError(t, err)
		assert.Equal(t, "type B struct", fm.Map)
		assert.Equal(t, []string{"beta", "storage"}, fm.Keywords)
	})

	t.Run("keywords normalized and capped at five", func(t *testing.T) {
		fm, err := parseFileMap(`{"map":"m","description":"d","keywords":[" Alpha ","B","c","d","e","f","g"]}`)
		require.NoError(t, err)
		require.Len(t, fm.Keywords, 5)
		assert.Equal(t, "alpha", fm.Keywords[0])
		assert.Equal(t, "b", fm.Keywords[1])
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		_, err := parseFileMap(`{"map":"m","description":"","keywords":["k"]}`)
		assert.Error(t, err)

		_, err = parseFileMap(`{"map":"m","description":"d","keywords":[]}`)
		assert.Error(t, err)
	})

	t.Run("no JSON in reply", func(t *testing.T) {
		_, err := parseFileMap("I cannot analyze this file.")
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := parseFileMap(`{"map": "unterminated`)
		assert.Error(t, err)
	})
}
