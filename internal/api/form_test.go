package api

import (
	"strings"
	"testing"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formType = "application/x-www-form-urlencoded"

func TestDecodeFormShow(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        any
		wantPresent bool
	}{
		{name: "plain", body: "show=The+Wire", want: "The Wire", wantPresent: true},
		{name: "empty value", body: "show=", want: "", wantPresent: true},
		{name: "no equals sign", body: "show", want: "", wantPresent: true},
		{name: "absent", body: "title=Dark"},
		{name: "empty body", body: ""},
		{name: "repeated", body: "show=a&show=b", want: []any{"a", "b"}, wantPresent: true},
		{name: "push", body: "show[]=a&show[]=b", want: []any{"a", "b"}, wantPresent: true},
		{name: "escaped brackets", body: "show%5B%5D=a", want: []any{"a"}, wantPresent: true},
		{name: "indexes sort", body: "show[1]=b&show[0]=a", want: []any{"a", "b"}, wantPresent: true},
		{name: "sparse indexes compact", body: "show[7]=b&show[2]=a", want: []any{"a", "b"}, wantPresent: true},
		{name: "push after index", body: "show[0]=a&show[]=b", want: []any{"a", "b"}, wantPresent: true},
		{name: "object", body: "show[title]=Dark&show[year]=2017",
			want: map[string]any{"title": "Dark", "year": "2017"}, wantPresent: true},
		{name: "nested", body: "show[meta][tags][]=scifi&show[meta][tags][]=drama&show[title]=Dark",
			want: map[string]any{
				"title": "Dark",
				"meta":  map[string]any{"tags": []any{"scifi", "drama"}},
			}, wantPresent: true},
		{name: "array of objects", body: "show[0][title]=Dark&show[1][title]=Lost",
			want: []any{map[string]any{"title": "Dark"}, map[string]any{"title": "Lost"}}, wantPresent: true},
		{name: "large index is a key", body: "show[21]=a", want: map[string]any{"21": "a"}, wantPresent: true},
		{name: "mixed keys make an object", body: "show[]=a&show[title]=Dark",
			want: map[string]any{"0": "a", "title": "Dark"}, wantPresent: true},
		{name: "deep keys keep the remainder", body: "show[a][b][c][d][e][f]=x",
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{
				"d": map[string]any{"e": map[string]any{"[f]": "x"}}}}}}, wantPresent: true},
		{name: "unclosed bracket is another key", body: "show[title=Dark"},
		{name: "leaf does not replace a level", body: "show[a][b]=x&show[a]=y",
			want: map[string]any{"a": map[string]any{"b": "x"}}, wantPresent: true},
		{name: "level does not replace a leaf", body: "show=x&show[a]=y", want: "x", wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := decodeFormShow(strings.NewReader(tt.body), formType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPresent, in.Present)
			assert.Equal(t, tt.want, in.Show)
		})
	}
}

func TestDecodeFormShow_BadEscape(t *testing.T) {
	for _, body := range []string{"show=%zz", "sh%ow=a"} {
		t.Run(body, func(t *testing.T) {
			_, err := decodeFormShow(strings.NewReader(body), formType)
			assert.ErrorIs(t, err, &apperrors.ErrMalformedBody{})
		})
	}
}

func TestFormKeyPath(t *testing.T) {
	tests := []struct {
		key    string
		want   []string
		wantOK bool
	}{
		{key: "show", want: []string{"show"}, wantOK: true},
		{key: "show[]", want: []string{"show", ""}, wantOK: true},
		{key: "show[a][b]", want: []string{"show", "a", "b"}, wantOK: true},
		{key: "show[a]x", want: []string{"show", "a", "x"}, wantOK: true},
		{key: "show[a", want: []string{"show[a"}, wantOK: true},
		{key: "[a]", wantOK: false},
		{key: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := formKeyPath(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
