package generation

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Generator renders the personalized variant of a product image.
type Generator interface {
	Generate(ctx context.Context, avatarPath, productPath, dest string) error
}

// ImagingGenerator composes the shopper's avatar onto the product photo. It
// stands in for a model-backed generator when running the storefront locally.
type ImagingGenerator struct {
	Size int
}

func NewImagingGenerator() *ImagingGenerator {
	return &ImagingGenerator{Size: 512}
}

// Generate writes a PNG to dest. A missing product photo is replaced by a
// neutral canvas; a missing avatar is an error.
func (g *ImagingGenerator) Generate(ctx context.Context, avatarPath, productPath, dest string) error {
	size := g.Size
	if size <= 0 {
		size = 512
	}

	avatar, err := imaging.Open(avatarPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}

	var base image.Image
	if src, err := imaging.Open(productPath, imaging.AutoOrientation(true)); err == nil {
		base = imaging.Fill(src, size, size, imaging.Center, imaging.Lanczos)
	} else {
		base = imaging.New(size, size, color.NRGBA{R: 236, G: 232, B: 226, A: 255})
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	base = imaging.AdjustSaturation(base, 15)
	thumb := imaging.Fill(avatar, size/3, size/3, imaging.Center, imaging.Lanczos)
	pad := size / 24
	out := imaging.Overlay(base, thumb, image.Pt(size-size/3-pad, size-size/3-pad), 1.0)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	// write then rename so pollers never see a partial file
	tmp := dest + ".tmp.png"
	if err := imaging.Save(out, tmp); err != nil {
		return fmt.Errorf("save generated image: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish generated image: %w", err)
	}
	return nil
}
