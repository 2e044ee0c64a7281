package businessflow

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/services"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/utils"
)

// BrandKitFlow assembles a brand kit from a generated logo and static style tables
type BrandKitFlow interface {
	GenerateBrandKit(ctx context.Context, req *dto.GenerateBrandKitRequest) (*dto.BrandKitResponse, error)
}

// BrandKitFlowImpl implements the brand kit business flow
type BrandKitFlowImpl struct {
	images    services.ImageGenerator
	inference *config.InferenceConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewBrandKitFlow creates a new brand kit flow instance
func NewBrandKitFlow(images services.ImageGenerator, inference *config.InferenceConfig, logger *zap.Logger) BrandKitFlow {
	return &BrandKitFlowImpl{
		images:    images,
		inference: inference,
		logger:    logger,
		now:       utils.UTCNow,
	}
}

// GenerateBrandKit never fails on the logo: a failed image call yields the placeholder URL
func (f *BrandKitFlowImpl) GenerateBrandKit(ctx context.Context, req *dto.GenerateBrandKitRequest) (*dto.BrandKitResponse, error) {
	brandName := strings.TrimSpace(req.BrandName)
	industry := strings.TrimSpace(req.Industry)
	personality := strings.TrimSpace(req.Personality)
	if personality == "" {
		personality = defaultPersonality
	}

	logo, _, err := generateJPEG(ctx, f.images, logoPrompt(brandName, industry, personality), f.inference.LogoMaxDimension)
	if err != nil {
		f.logger.Warn("Logo generation failed, using placeholder",
			zap.String("brand", brandName),
			zap.Error(err),
		)
		logo = logoFallbackURL
	}

	return &dto.BrandKitResponse{
		Logo:            logo,
		ColorPalette:    ColorPalette(personality),
		Fonts:           FontPairings(personality),
		BrandTone:       BrandTone(personality),
		SocialTemplates: SocialTemplates(brandName),
		Metadata: dto.BrandKitMetadata{
			BrandName:   brandName,
			Industry:    industry,
			Personality: personality,
			GeneratedAt: f.now().Format(time.RFC3339),
		},
	}, nil
}
