package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key := ObjectKey("proposals", uuid.New(), "proposal.docx")
	content := "docx bytes"

	location, err := store.Put(ctx, key, "application/octet-stream", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	assert.Equal(t, key, location)

	reader, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/"+key, url)
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "rfps/none/missing.pdf")
	assert.Error(t, err)
}

func TestObjectKeySanitizesFilename(t *testing.T) {
	companyID := uuid.New()

	cases := []struct {
		filename string
		wantTail string
	}{
		{"../../../../etc/cron.d/evil", "_evil"},
		{`..\..\windows\system32\config`, "_config"},
		{"nested/dir/report.pdf", "_report.pdf"},
		{"..", "_upload"},
		{"", "_upload"},
		{"plain.docx", "_plain.docx"},
	}
	for _, tc := range cases {
		key := ObjectKey("rfps", companyID, tc.filename)
		parts := strings.SplitN(key, "/", 3)
		require.Len(t, parts, 3, "filename %q produced key %q", tc.filename, key)
		assert.NotContains(t, parts[2], "/", "filename %q leaked a separator into %q", tc.filename, key)
		assert.NotContains(t, parts[2], "..", "filename %q leaked a dot segment into %q", tc.filename, key)
		assert.True(t, strings.HasSuffix(parts[2], tc.wantTail), "filename %q: key %q does not end in %q", tc.filename, key, tc.wantTail)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, key := range []string{
		"rfps/3f1c/9a2b_../../../../../../etc/cron.d/evil",
		"../outside.txt",
		"rfps/../../escape",
	} {
		_, err := store.Put(ctx, key, "text/plain", strings.NewReader("x"), 1)
		assert.Error(t, err, "Put accepted escaping key %q", key)

		_, err = store.Get(ctx, key)
		assert.Error(t, err, "Get accepted escaping key %q", key)
	}

	// Dot segments that stay inside the root are still fine.
	_, err = store.Put(ctx, "rfps/a/./file.txt", "text/plain", strings.NewReader("x"), 1)
	assert.NoError(t, err)
}

func TestObjectKeyShape(t *testing.T) {
	companyID := uuid.New()
	key := ObjectKey("rfps", companyID, "bid.pdf")

	parts := strings.SplitN(key, "/", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "rfps", parts[0])
	assert.Equal(t, companyID.String(), parts[1])
	assert.True(t, strings.HasSuffix(parts[2], "_bid.pdf"))

	// Keys never collide even for the same filename.
	assert.NotEqual(t, key, ObjectKey("rfps", companyID, "bid.pdf"))
}
