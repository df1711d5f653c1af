package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	homepagedomain "github.com/Apurer/go-gin-storefront-api/internal/domains/homepage/domain"
)

func TestToPatch_OmittedSectionsStayNil(t *testing.T) {
	var in HomepagePatch
	require.NoError(t, json.Unmarshal([]byte(`{"isActive":true,"featured":{"productIds":["p1","p2"]}}`), &in))

	patch := ToPatch(in)
	require.Nil(t, patch.Hero)
	require.Nil(t, patch.Reviews)
	require.NotNil(t, patch.IsActive)
	require.True(t, *patch.IsActive)
	require.Equal(t, []string{"p1", "p2"}, patch.Featured.ProductIDs)
}

func TestFromDomainHomepage_EmptyProductIDsEncodeAsArray(t *testing.T) {
	draft := ToDraft(HomepageInput{Hero: Hero{Title: Localized{EN: "Welcome", FR: "Bienvenue"}}})
	out := FromDomainHomepage(&homepagedomain.Homepage{ID: "h1", Content: draft.Content})

	body, err := json.Marshal(out)
	require.NoError(t, err)
	require.Contains(t, string(body), `"productIds":[]`)
	require.Contains(t, string(body), `"title":{"en":"Welcome","fr":"Bienvenue"}`)
	require.NotContains(t, string(body), "createdAt")
}
