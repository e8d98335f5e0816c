// Command distortion-plot renders the lens distortion of a camera described
// in a JSON file as a vector field over the image.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/cameravision/deltacamera"
	"github.com/banshee-data/cameravision/internal/config"
	"github.com/banshee-data/cameravision/internal/fsutil"
	"github.com/banshee-data/cameravision/internal/monitoring"
	"github.com/banshee-data/cameravision/internal/security"
)

// fieldVector is one grid sample: where an undistorted pixel lands once the
// lens distortion is applied.
type fieldVector struct {
	Ideal     deltacamera.Point2
	Distorted deltacamera.Point2
}

func (v fieldVector) length() float64 {
	return math.Hypot(v.Distorted.X-v.Ideal.X, v.Distorted.Y-v.Ideal.Y)
}

func main() {
	configPath := flag.String("config", "", "camera JSON file")
	outDir := flag.String("out", ".", "output directory")
	grid := flag.Int("grid", 16, "samples per image axis")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("distortion-plot: -config is required")
	}

	fsys := fsutil.OSFileSystem{}
	cfg, err := config.LoadCameraConfig(fsys, *configPath)
	if err != nil {
		log.Fatalf("distortion-plot: %v", err)
	}
	cam, err := cameraFromConfig(cfg)
	if err != nil {
		log.Fatalf("distortion-plot: %v", err)
	}

	field, err := distortionField(cam, cfg.GetImageWidth(), cfg.GetImageHeight(), *grid)
	if err != nil {
		log.Fatalf("distortion-plot: %v", err)
	}

	var maxShift float64
	for _, v := range field {
		maxShift = math.Max(maxShift, v.length())
	}
	monitoring.Logf("sampled %d points, max displacement %.2f px", len(field), maxShift)

	if err := fsys.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("distortion-plot: %v", err)
	}
	out := filepath.Join(*outDir, outputName(*configPath))
	if err := plotField(field, cfg.GetImageWidth(), cfg.GetImageHeight(), out); err != nil {
		log.Fatalf("distortion-plot: %v", err)
	}
	monitoring.Logf("wrote %s", out)
}

// outputName derives the PNG name from the config file name.
func outputName(configPath string) string {
	stem := strings.TrimSuffix(filepath.Base(configPath), filepath.Ext(configPath))
	return security.SanitizeFilename(stem) + "_distortion.png"
}

// cameraFromConfig builds a camera from a validated config.
func cameraFromConfig(cfg *config.CameraConfig) (*deltacamera.Camera, error) {
	opts := []deltacamera.Option{
		deltacamera.WithIntrinsics(deltacamera.NewIntrinsics(cfg.GetFx(), cfg.GetFy(), cfg.GetCx(), cfg.GetCy())),
		deltacamera.WithDistortion(deltacamera.Distortion(cfg.GetDistortion())),
	}
	if cfg.Rotation != nil {
		opts = append(opts, deltacamera.WithRotation(mat.NewDense(3, 3, cfg.Rotation)))
	}
	if cfg.OpticalCenter != nil {
		c := cfg.OpticalCenter
		opts = append(opts, deltacamera.WithOpticalCenter(r3.Vec{X: c[0], Y: c[1], Z: c[2]}))
	}
	cam, err := deltacamera.NewCamera(opts...)
	if err != nil {
		return nil, fmt.Errorf("build camera: %w", err)
	}
	return cam, nil
}

// distortionField samples a grid x grid lattice of ideal pixels spanning the
// image and maps each through the camera's distortion.
func distortionField(cam *deltacamera.Camera, width, height, grid int) ([]fieldVector, error) {
	if grid < 2 {
		return nil, fmt.Errorf("grid must be at least 2, got %d", grid)
	}
	ideal, err := deltacamera.NewCamera(deltacamera.WithIntrinsics(cam.Intrinsics()))
	if err != nil {
		return nil, fmt.Errorf("ideal camera: %w", err)
	}

	pixels := make([]deltacamera.Point2, 0, grid*grid)
	for j := 0; j < grid; j++ {
		for i := 0; i < grid; i++ {
			pixels = append(pixels, deltacamera.Point2{
				X: float64(i) * float64(width-1) / float64(grid-1),
				Y: float64(j) * float64(height-1) / float64(grid-1),
			})
		}
	}

	distorted, valid := cam.CameraToImage(ideal.ImageToCamera(pixels))
	field := make([]fieldVector, 0, len(pixels))
	for i := range pixels {
		if !valid[i] {
			continue
		}
		field = append(field, fieldVector{Ideal: pixels[i], Distorted: distorted[i]})
	}
	return field, nil
}

// plotField saves the field as a PNG with image y pointing down.
func plotField(field []fieldVector, width, height int, path string) error {
	p := plot.New()
	p.Title.Text = "Lens distortion"
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "-y (px)"
	p.X.Min, p.X.Max = 0, float64(width)
	p.Y.Min, p.Y.Max = -float64(height), 0

	idealPts := make(plotter.XYs, 0, len(field))
	for _, v := range field {
		idealPts = append(idealPts, plotter.XY{X: v.Ideal.X, Y: -v.Ideal.Y})

		seg, err := plotter.NewLine(plotter.XYs{
			{X: v.Ideal.X, Y: -v.Ideal.Y},
			{X: v.Distorted.X, Y: -v.Distorted.Y},
		})
		if err != nil {
			return fmt.Errorf("failed to create segment: %w", err)
		}
		seg.Color = color.RGBA{R: 200, A: 255}
		seg.Width = vg.Points(1)
		p.Add(seg)
	}

	scatter, err := plotter.NewScatter(idealPts)
	if err != nil {
		return fmt.Errorf("failed to create scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
