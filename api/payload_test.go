package api

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htol/libcat/validator"
)

func TestFieldsInteger(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		set     bool
		null    bool
		wantErr bool
	}{
		{raw: `2`, want: 2, set: true},
		{raw: `2.0`, want: 2, set: true},
		{raw: `1e3`, want: 1000, set: true},
		{raw: `-12`, want: -12, set: true},
		{raw: `"1965"`, want: 1965, set: true},
		{raw: `" 7 "`, want: 7, set: true},
		{raw: `"3.0"`, want: 3, set: true},
		{raw: `null`, null: true},
		{raw: `""`},
		{raw: `2.5`, wantErr: true},
		{raw: `"soon"`, wantErr: true},
		{raw: `true`, wantErr: true},
		{raw: `[1]`, wantErr: true},
		{raw: `1e300`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := fields{"copies": jsoniter.RawMessage(tt.raw)}
			got, err := f.integer("copies")
			if tt.wantErr {
				require.ErrorIs(t, err, validator.ErrValidation)
				assert.Contains(t, err.Error(), "copies must be an integer")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.set, got.IsSet() && !got.IsNull())
			assert.Equal(t, tt.null, got.IsNull())
			if tt.set {
				v, _ := got.Value()
				assert.Equal(t, tt.want, v)
			}
		})
	}

	got, err := fields{}.integer("copies")
	require.NoError(t, err)
	assert.False(t, got.IsSet())
}

func TestFieldsText(t *testing.T) {
	f := fields{
		"title": jsoniter.RawMessage(`"Dune"`),
		"genre": jsoniter.RawMessage(`null`),
		"isbn":  jsoniter.RawMessage(`""`),
		"year":  jsoniter.RawMessage(`1965`),
	}

	title, err := f.text("title")
	require.NoError(t, err)
	v, ok := title.Value()
	assert.True(t, ok)
	assert.Equal(t, "Dune", v)

	genre, err := f.text("genre")
	require.NoError(t, err)
	assert.True(t, genre.IsNull())

	isbn, err := f.text("isbn")
	require.NoError(t, err)
	assert.False(t, isbn.IsSet())

	_, err = f.text("year")
	assert.ErrorIs(t, err, validator.ErrValidation)
}
