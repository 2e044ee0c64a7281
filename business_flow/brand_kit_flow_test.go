package businessflow

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/config"
)

func newTestBrandKitFlow(images services.ImageGenerator) *BrandKitFlowImpl {
	f := NewBrandKitFlow(images, &config.InferenceConfig{LogoMaxDimension: 64}, zap.NewNop()).(*BrandKitFlowImpl)
	f.now = func() time.Time { return fixedNow }
	return f
}

func TestBrandKitLookups(t *testing.T) {
	assert.Len(t, ColorPalette("Playful"), 5)
	assert.Equal(t, "#F1C40F", ColorPalette("Playful")[0])
	assert.Equal(t, ColorPalette("Professional"), ColorPalette("Unknown"))
	assert.Equal(t, FontPairings("Professional"), FontPairings(""))
	assert.Len(t, FontPairings("Bold"), 3)
	assert.Equal(t, BrandTone("Professional"), BrandTone("nope"))

	palette := ColorPalette("Modern")
	palette[0] = "#000000"
	assert.NotEqual(t, "#000000", ColorPalette("Modern")[0], "lookups must return copies")
}

func TestSocialTemplates(t *testing.T) {
	tpl := SocialTemplates("Acme Coffee Co")
	require.Len(t, tpl.Instagram, 2)
	require.Len(t, tpl.Twitter, 2)
	require.Len(t, tpl.LinkedIn, 2)
	for _, post := range append(append(tpl.Instagram, tpl.Twitter...), tpl.LinkedIn...) {
		assert.Contains(t, post, "Acme Coffee Co")
		assert.Contains(t, post, "#AcmeCoffeeCo")
	}
}

func TestBrandKitFlow_GenerateBrandKit(t *testing.T) {
	ctx := context.Background()

	t.Run("logo is resized jpeg", func(t *testing.T) {
		images := &services.MockImageGenerator{Image: &services.GeneratedImage{Data: pngBytes(t, 200, 100), ContentType: "image/png"}}
		f := newTestBrandKitFlow(images)

		kit, err := f.GenerateBrandKit(ctx, &dto.GenerateBrandKitRequest{BrandName: "Acme", Industry: "coffee", Personality: "Friendly"})
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(kit.Logo, "data:image/jpeg;base64,"))
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(kit.Logo, "data:image/jpeg;base64,"))
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(strings.NewReader(string(raw)))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, 32, cfg.Height)

		assert.Equal(t, ColorPalette("Friendly"), kit.ColorPalette)
		assert.Equal(t, "Friendly", kit.Metadata.Personality)
		assert.Equal(t, fixedNow.Format(time.RFC3339), kit.Metadata.GeneratedAt)
		require.Len(t, images.Requests, 1)
		assert.Contains(t, images.Requests[0].Prompt, "Acme, a coffee company with a Friendly personality")
	})

	t.Run("failed logo falls back to placeholder", func(t *testing.T) {
		f := newTestBrandKitFlow(&services.MockImageGenerator{Err: errors.New("503")})

		kit, err := f.GenerateBrandKit(ctx, &dto.GenerateBrandKitRequest{BrandName: "Acme", Industry: "coffee"})
		require.NoError(t, err)
		assert.Equal(t, logoFallbackURL, kit.Logo)
		assert.Equal(t, "Professional", kit.Metadata.Personality)
		assert.Equal(t, BrandTone("Professional"), kit.BrandTone)
	})
}
