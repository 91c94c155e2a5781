package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"h2d/config"
	"h2d/design"
	"h2d/style"
	"h2d/utils/images"
)

// Renderer paints design trees.
type Renderer struct {
	cfg *config.PreviewConfig
	log *zap.Logger
}

// NewRenderer creates renderer, nil cfg means scale 1 on white with 16px
// margin.
func NewRenderer(cfg *config.PreviewConfig, log *zap.Logger) *Renderer {
	if cfg == nil {
		cfg = &config.PreviewConfig{Scale: 1, Background: "#ffffff", Margin: 16}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{cfg: cfg, log: log.Named("preview")}
}

// Render paints tree. Shapes are rasterized from SVG, captions are drawn with
// fixed bitmap face which does not scale, so they only hint at text placement.
func (r *Renderer) Render(root *design.Node) (image.Image, error) {
	if root == nil {
		return nil, fmt.Errorf("nothing to render")
	}

	svg := SVG(root, r.cfg.Margin)
	w, _ := canvasSize(root, r.cfg.Margin)
	scale := r.cfg.Scale
	if scale <= 0 {
		scale = 1
	}

	bg := color.Color(color.White)
	if c, ok := style.ParseColor(r.cfg.Background); ok {
		cr, cg, cb := c.RGBA8()
		bg = color.RGBA{R: cr, G: cg, B: cb, A: 255}
	}

	canvas, err := images.RasterizeSVG(svg, int(math.Round(float64(w)*scale)), 0, bg)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize design tree: %w", err)
	}
	// raster could be clamped, real factor is needed for captions
	factor := float64(canvas.Bounds().Dx()) / float64(w)

	var captions int
	walkAbsolute(root, float64(r.cfg.Margin), float64(r.cfg.Margin), func(n *design.Node, x, y float64) {
		text := caption(n)
		if text == "" {
			return
		}
		col := color.Color(color.Black)
		if ty := n.Style.Typography; ty != nil {
			cr, cg, cb := ty.Color.RGBA8()
			col = color.RGBA{R: cr, G: cg, B: cb, A: 255}
		}
		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(col),
			Face: basicfont.Face7x13,
			Dot: fixed.P(int(math.Round((x+n.Layout.Padding.Left)*factor)),
				int(math.Round((y+n.Layout.Padding.Top)*factor))+basicfont.Face7x13.Ascent),
		}
		d.DrawString(text)
		captions++
	})

	r.log.Debug("Preview rendered", zap.Int("width", canvas.Bounds().Dx()), zap.Int("height", canvas.Bounds().Dy()),
		zap.Int("nodes", root.Count()), zap.Int("captions", captions))
	return canvas, nil
}

// Encode writes image as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("unable to encode preview: %w", err)
	}
	return nil
}

// Save writes image to file, format is chosen by file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("unable to save preview: %w", err)
	}
	return nil
}
