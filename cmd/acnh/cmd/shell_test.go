package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/acnh/internal/domain/selection"
)

func TestParseShellLine(t *testing.T) {
	tests := []struct {
		in   string
		want shellLine
	}{
		{"", shellLine{kind: shellEmpty}},
		{"   ", shellLine{kind: shellEmpty}},
		{"q", shellLine{kind: shellQuit}},
		{"exit", shellLine{kind: shellQuit}},
		{"?", shellLine{kind: shellHelp}},
		{"f", shellLine{kind: shellClearFilters}},
		{"f Rugs", shellLine{kind: shellFilter, arg: "Rugs"}},
		{"f  Wall-mounted ", shellLine{kind: shellFilter, arg: "Wall-mounted"}},
		{"+w 12", shellLine{kind: shellMutate, arg: "12", list: wishlistList, op: opAdd}},
		{"-w 12", shellLine{kind: shellMutate, arg: "12", list: wishlistList, op: opRemove}},
		{"+c rug-3", shellLine{kind: shellMutate, arg: "rug-3", list: catalogList, op: opAdd}},
		{"-c 7", shellLine{kind: shellMutate, arg: "7", list: catalogList, op: opRemove}},
		{"wooden chair", shellLine{kind: shellQuery, arg: "wooden chair"}},
		{"  iron  ", shellLine{kind: shellQuery, arg: "iron"}},
		// A command word without an argument is searched as text.
		{"+w", shellLine{kind: shellQuery, arg: "+w"}},
		{"-c", shellLine{kind: shellQuery, arg: "-c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseShellLine(tt.in), "input %q", tt.in)
	}
}

func TestShellView_ReducesQueryAndFilters(t *testing.T) {
	b := &remoteBackend{}
	v := &shellView{b: b}

	require.NoError(t, v.apply(selection.ToggleFilter{Category: "Rugs"}))
	require.NoError(t, v.apply(selection.ToggleFilter{Category: "Housewares"}))
	require.NoError(t, v.apply(selection.ToggleFilter{Category: "Rugs"}))
	assert.Equal(t, []string{"Housewares"}, v.st.Filters.Sorted())

	require.NoError(t, v.apply(selection.SetQuery{Text: "wooden"}))
	assert.Equal(t, "wooden", v.st.Query)
	assert.Equal(t, "wooden", b.view.Query)

	require.NoError(t, v.apply(selection.ToggleFilter{Category: "Rugs"}))
	require.NoError(t, v.clearFilters())
	assert.Empty(t, v.st.Filters.Sorted())
	assert.Empty(t, b.view.Filters.Sorted())
	assert.Equal(t, "wooden", v.st.Query, "clearing filters keeps the query")

	require.NoError(t, v.apply(selection.ClearQuery{}))
	assert.Empty(t, v.st.Query)
}

func TestShellView_RejectsPersistentActions(t *testing.T) {
	v := &shellView{b: &remoteBackend{}}
	require.NoError(t, v.apply(selection.SetQuery{Text: "rug"}))

	err := v.apply(selection.AddToWishlist{ID: "1"})
	assert.ErrorIs(t, err, selection.ErrUnknownAction)
	assert.Equal(t, "rug", v.st.Query)
	assert.Empty(t, v.st.Wishlist.Sorted())
}
