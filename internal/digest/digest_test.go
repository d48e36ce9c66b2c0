package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/testutil"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{"b": int64(2), "a": "x", "c": []any{true, 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2,"c":[true,1]}`, string(out))
}

func TestMarshalCanonical_StringEscaping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`a"b`, `"a\"b"`},
		{`back\slash`, `"back\\slash"`},
		{"line\nbreak", `"line\nbreak"`},
		{"<&>", `"<&>"`},
		{" ", "\" \""},
		{"\x01", `"\u0001"`},
		// "e" + combining acute normalizes to a single code point.
		{"e\u0301", "\"\u00e9\""},
	}
	for _, tt := range tests {
		out, err := MarshalCanonical(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(out))
	}
}

func TestMarshalCanonical_UTF16Order(t *testing.T) {
	// U+FF61 sorts after U+1F600 in UTF-8 byte order but before it in UTF-16.
	out, err := MarshalCanonical(map[string]any{"\U0001F600": 1, "｡": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"｡\":2}", string(out))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)
	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)
	_, err = MarshalCanonical(map[string]any{"x": []any{struct{}{}}})
	assert.ErrorContains(t, err, "unsupported type")
}

func TestDataset_StableAndSensitive(t *testing.T) {
	ds := &model.Dataset{
		Books:      testutil.Books(3),
		Warehouses: testutil.Warehouses(2),
		Notes:      testutil.NewNoteBuilder().Inbound(1, 2).Draft(0, 1).Notes(),
		Transactions: []model.Transaction{
			{ISBN: "0000000001", Quantity: 2, NoteID: 1, WarehouseID: 1, UpdatedAt: 1, CommittedAt: model.Ptr(int64(2))},
			{ISBN: "0000000002", Quantity: 1, NoteID: 2, WarehouseID: 2, UpdatedAt: 3},
		},
	}
	a, err := Dataset(ds)
	require.NoError(t, err)
	b, err := Dataset(ds)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	ds.Transactions[1].Quantity = 2
	c, err := Dataset(ds)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
