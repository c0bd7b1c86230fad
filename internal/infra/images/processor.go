package images

import (
	"fmt"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Variant describes one derivative. Crop variants are cut to exactly
// Width×Height; the others fit inside the box keeping the aspect ratio.
type Variant struct {
	Name   string
	Width  int
	Height int
	Crop   bool
}

var Variants = []Variant{
	{Name: "full", Width: 2000, Height: 2000},
	{Name: "standard", Width: 800, Height: 800},
	{Name: "thumb", Width: 300, Height: 300, Crop: true},
}

type Target struct {
	Variant Variant
	Path    string
}

// Processor writes every target derived from the source file.
type Processor interface {
	Name() string
	Render(src string, targets []Target) error
}

func NewProcessor(kind string) (Processor, error) {
	switch kind {
	case "", "imaging":
		return Imaging{}, nil
	case "copy":
		return Copy{}, nil
	}
	return nil, fmt.Errorf("unknown image processor %q", kind)
}

// Imaging resizes with github.com/disintegration/imaging. The output
// format follows the target extension.
type Imaging struct{}

func (Imaging) Name() string { return "imaging" }

func (Imaging) Render(src string, targets []Target) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}
	for _, t := range targets {
		out := imaging.Fit(img, t.Variant.Width, t.Variant.Height, imaging.Lanczos)
		if t.Variant.Crop {
			out = imaging.Fill(img, t.Variant.Width, t.Variant.Height, imaging.Center, imaging.Lanczos)
		}
		if err := imaging.Save(out, t.Path); err != nil {
			return fmt.Errorf("write %s derivative: %w", t.Variant.Name, err)
		}
	}
	return nil
}

// Copy writes the source verbatim to every target.
type Copy struct{}

func (Copy) Name() string { return "copy" }

func (Copy) Render(src string, targets []Target) error {
	for _, t := range targets {
		if err := copyFile(src, t.Path); err != nil {
			return fmt.Errorf("copy %s derivative: %w", t.Variant.Name, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
