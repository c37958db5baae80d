package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/discogs-scraper/internal/browser"
)

func TestReadAlbum(t *testing.T) {
	page := mustPage(t, `<html><body>
<h1>Paranoid</h1>
<table class="info">
  <tr><th>Label:</th><td><a href="/label/1-Vertigo?anv=x">Vertigo</a> - 6360 011</td></tr>
  <tr><th>Year:</th><td><a href="/search/?year=1970&decade=1970">18 Sep 1970</a></td></tr>
  <tr><th>Style:</th><td>
    <a href="/style/Heavy+Metal">Heavy Metal</a>,
    <a href="/style/Hard+Rock">Hard Rock</a>,
    <a href="/style/Heavy+Metal">Heavy Metal</a>
  </td></tr>
</table>
<table class="tracklist_3QGRS">
  <tr><td>A1</td><td><span class="trackTitle_x tracklistTitle_y">War Pigs</span></td><td class="duration_2t4qr">7:57</td></tr>
  <tr><td>A2</td><td><span class="tracklistTitle_y">Paranoid</span></td><td class="duration_2t4qr">2:48</td></tr>
  <tr><td>A3</td><td><span class="tracklistTitle_y">Planet Caravan</span></td><td class="duration_2t4qr">4:32</td></tr>
</table>
</body></html>`)

	fields := ReadAlbum(page)

	assert.Equal(t, "Paranoid", fields.Name.Value)
	assert.Equal(t, "1970", fields.ReleaseYear.Value)
	assert.Equal(t, "year-cell", fields.ReleaseYear.Strategy)
	assert.Equal(t, "Vertigo", fields.Label.Value)
	assert.Equal(t, "label-link", fields.Label.Strategy)
	assert.Equal(t, []string{"Heavy Metal", "Hard Rock"}, fields.Styles.Value)

	// the title track restates the album name and is dropped
	require.Len(t, fields.Tracks.Value, 2)
	assert.Equal(t, "War Pigs", fields.Tracks.Value[0].Name)
	assert.Equal(t, "Planet Caravan", fields.Tracks.Value[1].Name)
	assert.Equal(t, 2, fields.Tracks.Value[1].Number)
}

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		want     string
		found    bool
		strategy string
		reason   Miss
	}{
		{
			name:     "year from link target",
			markup:   `<table><tr><th>Year</th><td><a href="/search/?year=1984">Eighties</a></td></tr></table>`,
			want:     "1984",
			found:    true,
			strategy: "year-cell",
		},
		{
			name:     "year from link text",
			markup:   `<table><tr><th>Year</th><td><a href="/search/?type=all">1984</a></td></tr></table>`,
			want:     "1984",
			found:    true,
			strategy: "year-cell",
		},
		{
			name:     "localized header",
			markup:   `<table><tr><th>Ano:</th><td><a href="/search/?year=2003">2003</a></td></tr></table>`,
			want:     "2003",
			found:    true,
			strategy: "year-cell",
		},
		{
			name:     "invalid cell falls back to markup scan",
			markup:   `<table><tr><th>Year</th><td><a href="/search/">Unknown</a></td></tr></table><p>Recorded in 1969 at Olympic Studios</p>`,
			want:     "1969",
			found:    true,
			strategy: "markup-scan",
		},
		{
			name:     "markup scan ignores other centuries",
			markup:   `<p>Catalog 1812 reissued 2011</p>`,
			want:     "2011",
			found:    true,
			strategy: "markup-scan",
		},
		{
			name:   "no year anywhere",
			markup: `<p>No date given</p>`,
			reason: MissNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := releaseYear(mustPage(t, tt.markup))
			assert.Equal(t, tt.found, got.Found)
			if tt.found {
				assert.Equal(t, tt.want, got.Value)
				assert.Equal(t, tt.strategy, got.Strategy)
			} else {
				assert.Equal(t, tt.reason, got.Reason)
			}
		})
	}
}

func TestRecordLabelFallsBackToHeading(t *testing.T) {
	page := mustPage(t, `<html><body>
<div class="credits">
  <h3>Gravadora</h3>
  <div><span><a href="/company/7-Som-Livre">Som Livre</a></span></div>
</div>
</body></html>`)

	got := recordLabel(page)
	require.True(t, got.Found)
	assert.Equal(t, "Som Livre", got.Value)
	assert.Equal(t, "label-heading", got.Strategy)
}

func TestRecordLabelMissing(t *testing.T) {
	got := recordLabel(mustPage(t, `<html><body><h1>Untitled</h1></body></html>`))
	assert.False(t, got.Found)
	assert.Equal(t, MissNotFound, got.Reason)
}

func TestAlbumStylesLengthBounds(t *testing.T) {
	page := mustPage(t, `<table><tr><th>Estilos</th><td>
		<a>Xy</a>
		<a>Pop</a>
		<a>Progressive Rock With A Very Long Name</a>
		<a>Pop</a>
		<a>Krautrock</a>
	</td></tr></table>`)

	got := albumStyles(page)
	require.True(t, got.Found)
	assert.Equal(t, []string{"Pop", "Krautrock"}, got.Value)
}

func TestAlbumStylesEmpty(t *testing.T) {
	page := mustPage(t, `<table><tr><th>Style</th><td><a>Xy</a></td></tr></table>`)

	got := albumStyles(page)
	assert.False(t, got.Found)
	assert.Equal(t, MissEmpty, got.Reason)
	assert.Empty(t, got.Value)
}

func TestExtractAlbumToleratesHeadingTimeout(t *testing.T) {
	loc := testBase + "/release/9-Headless"
	session := browser.NewMemory(map[string]string{
		loc: `<html><body>
<table class="tracklist_x">
  <tr><td><span class="tracklistTitle_a">Only Track</span></td><td class="duration_a">1:00</td></tr>
</table>
</body></html>`,
	})
	e, _, _ := newTestExtractor(t, session)

	album, err := e.ExtractAlbum(context.Background(), loc)
	require.NoError(t, err)
	assert.Nil(t, album.Name)
	assert.Nil(t, album.ReleaseYear)
	assert.Equal(t, loc, album.Source)
	require.Len(t, album.Tracks, 1)
	assert.Equal(t, "Only Track", album.Tracks[0].Name)
}

func TestExtractAlbumPausesAfterLanguageSwitch(t *testing.T) {
	loc := testBase + "/release/11-Localized"
	session := browser.NewMemory(map[string]string{
		loc: `<html><body><h1>Localized</h1></body></html>`,
	})

	e, interstitials, pacer := newTestExtractor(t, session)
	_, err := e.ExtractAlbum(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, 1, interstitials.language)
	assert.Equal(t, 1, pacer.pauses)

	e, interstitials, pacer = newTestExtractor(t, session)
	interstitials.switchLanguage = true
	_, err = e.ExtractAlbum(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, 1, interstitials.language)
	assert.Equal(t, 2, pacer.pauses, "the reload triggered by the switch is paced")
}

func TestExtractAlbumNavigationFailure(t *testing.T) {
	loc := testBase + "/release/10-Gone"
	session := browser.NewMemory(nil)
	session.FailNavigation(loc, errors.New("timeout"))
	e, _, _ := newTestExtractor(t, session)

	album, err := e.ExtractAlbum(context.Background(), loc)
	assert.Nil(t, album)
	assert.ErrorIs(t, err, ErrNavigation)

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, StageAlbum, extractionErr.Stage)
}
