package content

import (
	"testing"

	"github.com/WordPressNewsAggregator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFirstImage(t *testing.T) {
	assert.Equal(t, "x.png", FirstImage(`<div><img src="x.png"></div>`))
	assert.Equal(t, "a.jpg", FirstImage(`<p><img class="wp" alt="a" src="a.jpg" /><img src="b.jpg"></p>`))
	assert.Equal(t, "c.gif", FirstImage(`<IMG SRC='c.gif'>`))
	assert.Equal(t, "https://ex.com/it's.jpg", FirstImage(`<p><img src="https://ex.com/it's.jpg"></p>`))
	assert.Equal(t, `say"hi".png`, FirstImage(`<img src='say"hi".png'>`))
	assert.Equal(t, "", FirstImage(`<p>no images</p>`))
	assert.Equal(t, "", FirstImage(`<img src="`))
	assert.Equal(t, "", FirstImage(""))
}

func TestResolveThumbnail(t *testing.T) {
	t.Run("featured image wins", func(t *testing.T) {
		p := &domain.Post{FeaturedImageURL: "f.png", ContentHTML: `<img src="c.png">`}
		got, ok := ResolveThumbnail(p)
		assert.True(t, ok)
		assert.Equal(t, "f.png", got)
	})

	t.Run("falls back to content image", func(t *testing.T) {
		p := &domain.Post{ContentHTML: `<div><img src="x.png"></div>`}
		got, ok := ResolveThumbnail(p)
		assert.True(t, ok)
		assert.Equal(t, "x.png", got)
	})

	t.Run("uses precomputed content image", func(t *testing.T) {
		p := &domain.Post{FirstContentImageURL: "pre.png"}
		got, ok := ResolveThumbnail(p)
		assert.True(t, ok)
		assert.Equal(t, "pre.png", got)
	})

	t.Run("none", func(t *testing.T) {
		_, ok := ResolveThumbnail(&domain.Post{ContentHTML: "<p>text</p>"})
		assert.False(t, ok)
	})
}
