package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceRef(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    resourceRef
		wantErr bool
	}{
		{
			name: "kind only",
			arg:  "corpus",
			want: resourceRef{Kind: "corpus"},
		},
		{
			name: "kind and id",
			arg:  "layer/abc123",
			want: resourceRef{Kind: "layer", ID: "abc123"},
		},
		{
			name: "subresource",
			arg:  "corpus/abc123/medium",
			want: resourceRef{Kind: "corpus", ID: "abc123", Sub: "medium"},
		},
		{
			name: "layer annotations",
			arg:  "layer/abc123/annotation",
			want: resourceRef{Kind: "layer", ID: "abc123", Sub: "annotation"},
		},
		{
			name: "trailing slash tolerated",
			arg:  "corpus/abc123/",
			want: resourceRef{Kind: "corpus", ID: "abc123"},
		},
		{
			name:    "unknown kind",
			arg:     "catalog/abc123",
			wantErr: true,
		},
		{
			name:    "unknown subresource",
			arg:     "queue/abc123/annotation",
			wantErr: true,
		},
		{
			name:    "too many segments",
			arg:     "corpus/a/medium/b",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseResourceRef(tc.arg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildPatch(t *testing.T) {
	patch, err := buildPatch([]string{
		"name=debates",
		"description.channel=left",
		`data={"label": "speech"}`,
		"description.take=2",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "debates",
		"description": {"channel": "left", "take": 2},
		"data": {"label": "speech"}
	}`, string(patch))
}

func TestBuildPatchRejectsBadFlag(t *testing.T) {
	_, err := buildPatch([]string{"no-equals-sign"})
	assert.Error(t, err)

	_, err = buildPatch([]string{"=value"})
	assert.Error(t, err)
}

func TestMorphServer(t *testing.T) {
	assert.Equal(t, "https://example.org:3000", MorphServer("example.org:3000"))
	assert.Equal(t, "http://example.org:3000", MorphServer("http://example.org:3000/"))
	assert.Equal(t, "https://example.org", MorphServer("https://example.org//"))
	assert.Equal(t, "", MorphServer(""))
}
