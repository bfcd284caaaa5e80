package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	a, err := newApp("file:"+uuid.NewString()+"?mode=memory&cache=shared", "salt", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.repo.Close() })
	return a
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestApp(t)

	profile, err := src.profiles.CreateProfile(ctx, domain.ProfileInput{Slug: "alice", DisplayName: "Alice", Bio: "hi"})
	require.NoError(t, err)
	b, err := src.board(ctx, "alice")
	require.NoError(t, err)
	gh, err := b.Add(ctx, "GitHub", "https://github.com/alice", domain.PredefinedIcon("github"))
	require.NoError(t, err)
	_, err = b.Add(ctx, "Blog", "https://blog.example.com", domain.CustomIcon("https://cdn.example.com/b.png"))
	require.NoError(t, err)
	require.NoError(t, b.MoveTo(ctx, gh.ID, 1))
	require.NoError(t, b.Toggle(ctx, gh.ID, false))

	var buf bytes.Buffer
	require.NoError(t, src.export(ctx, &buf, profile.Slug))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Alice", doc.Profile.DisplayName)
	require.Len(t, doc.Links, 2)
	assert.Equal(t, "Blog", doc.Links[0].Title)
	assert.False(t, doc.Links[1].Enabled)

	dst := newTestApp(t)
	imported, skipped, err := dst.importDocument(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	restored, err := dst.board(ctx, "alice")
	require.NoError(t, err)
	links := restored.Links()
	require.Len(t, links, 2)
	assert.Equal(t, []string{"Blog", "GitHub"}, []string{links[0].Title, links[1].Title})
	assert.Equal(t, domain.CustomIcon("https://cdn.example.com/b.png"), links[0].Icon)
	assert.False(t, links[1].Enabled)

	// Re-importing skips links that already exist.
	imported, skipped, err = dst.importDocument(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 2, skipped)
}

func TestExportUnknownProfile(t *testing.T) {
	a := newTestApp(t)
	err := a.export(context.Background(), &bytes.Buffer{}, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportSkipsInvalidLinks(t *testing.T) {
	a := newTestApp(t)
	doc := `{"profile":{"slug":"bob"},"links":[
		{"title":"ok","url":"https://ok.example.com","icon":"globe","enabled":true},
		{"title":"bad","url":"ftp://nope","icon":"globe","enabled":true}
	]}`

	imported, skipped, err := a.importDocument(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)
}

func TestPrintLinks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLinks(&buf, nil))
	assert.Equal(t, "No links\n", buf.String())

	buf.Reset()
	require.NoError(t, printLinks(&buf, []domain.Link{
		{ID: "a", Title: "GitHub", URL: "https://github.com", Icon: domain.PredefinedIcon("github"), Enabled: true},
	}))
	assert.Contains(t, buf.String(), "GitHub")
	assert.Contains(t, buf.String(), "POS")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "GitHub", truncate("GitHub", 10))

	thai := "ลิงก์ของฉันทั้งหมดอยู่ที่นี่"
	got := truncate(thai, 12)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 12, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestAddIconFlagListsPredefinedIcons(t *testing.T) {
	usage := linksAddCmd.Flags().Lookup("icon").Usage
	for _, name := range domain.PredefinedIconNames() {
		assert.Contains(t, usage, name)
	}
}
