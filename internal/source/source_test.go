package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/usertable/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.SourceConfig
		want    any
		wantErr error
	}{
		{
			name: "http",
			cfg:  types.SourceConfig{Kind: types.SourceHTTP, URL: "http://example.test/users", Retries: 1},
			want: &HTTPSource{},
		},
		{
			name: "file",
			cfg:  types.SourceConfig{Kind: types.SourceFile, Path: "users.json"},
			want: &FileSource{},
		},
		{
			name: "sqlite",
			cfg:  types.SourceConfig{Kind: types.SourceSQLite, Path: "users.db"},
			want: &SQLiteSource{},
		},
		{
			name:    "unknown kind",
			cfg:     types.SourceConfig{Kind: "ftp", Path: "x"},
			wantErr: types.ErrSourceUnknown,
		},
		{
			name:    "http without url",
			cfg:     types.SourceConfig{Kind: types.SourceHTTP},
			wantErr: types.ErrURLEmpty,
		},
		{
			name:    "file without path",
			cfg:     types.SourceConfig{Kind: types.SourceFile},
			wantErr: types.ErrPathEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.cfg, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, src)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestNewHTTPSourceFromConfig(t *testing.T) {
	src, err := New(types.SourceConfig{
		Kind:    types.SourceHTTP,
		URL:     "http://example.test/users",
		Timeout: types.DefaultTimeout,
		Retries: 4,
	}, nil)
	require.NoError(t, err)

	hs := src.(*HTTPSource)
	assert.Equal(t, "http://example.test/users", hs.url)
	assert.Equal(t, types.DefaultTimeout, hs.timeout)
	assert.Equal(t, 4, hs.retries)
}
