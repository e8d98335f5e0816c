package config

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"github.com/banshee-data/cameravision/internal/fsutil"
)

// maxFileSize bounds camera config files.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// CameraConfig describes a camera in JSON. Omitted fields fall back to the
// defaults returned by the Get* methods, so partial configs are safe.
type CameraConfig struct {
	// Intrinsics in pixels
	Fx *float64 `json:"fx,omitempty"`
	Fy *float64 `json:"fy,omitempty"`
	Cx *float64 `json:"cx,omitempty"`
	Cy *float64 `json:"cy,omitempty"`

	// Distortion holds up to five coefficients in k1, k2, p1, p2, k3 order.
	Distortion []float64 `json:"distortion,omitempty"`

	// Rotation is a row-major 3x3 world-to-camera rotation.
	Rotation []float64 `json:"rotation,omitempty"`
	// OpticalCenter is the camera position in world coordinates.
	OpticalCenter []float64 `json:"optical_center,omitempty"`

	// Image size in pixels
	ImageWidth  *int `json:"image_width,omitempty"`
	ImageHeight *int `json:"image_height,omitempty"`
}

// LoadCameraConfig loads a CameraConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadCameraConfig(fsys fsutil.FileSystem, path string) (*CameraConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &CameraConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *CameraConfig) Validate() error {
	for name, v := range map[string]*float64{"fx": c.Fx, "fy": c.Fy} {
		if v != nil && (*v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s must be positive, got %f", name, *v)
		}
	}
	if len(c.Distortion) > 5 {
		return fmt.Errorf("distortion takes at most 5 coefficients, got %d", len(c.Distortion))
	}
	if c.Rotation != nil && len(c.Rotation) != 9 {
		return fmt.Errorf("rotation must have 9 elements, got %d", len(c.Rotation))
	}
	if c.OpticalCenter != nil && len(c.OpticalCenter) != 3 {
		return fmt.Errorf("optical_center must have 3 elements, got %d", len(c.OpticalCenter))
	}
	if c.ImageWidth != nil && *c.ImageWidth <= 0 {
		return fmt.Errorf("image_width must be positive, got %d", *c.ImageWidth)
	}
	if c.ImageHeight != nil && *c.ImageHeight <= 0 {
		return fmt.Errorf("image_height must be positive, got %d", *c.ImageHeight)
	}
	return nil
}

// GetImageWidth returns image_width or the default.
func (c *CameraConfig) GetImageWidth() int {
	if c.ImageWidth == nil {
		return 1920
	}
	return *c.ImageWidth
}

// GetImageHeight returns image_height or the default.
func (c *CameraConfig) GetImageHeight() int {
	if c.ImageHeight == nil {
		return 1080
	}
	return *c.ImageHeight
}

// GetFx returns fx, defaulting to the image width (roughly a 53° horizontal FOV).
func (c *CameraConfig) GetFx() float64 {
	if c.Fx == nil {
		return float64(c.GetImageWidth())
	}
	return *c.Fx
}

// GetFy returns fy, defaulting to fx.
func (c *CameraConfig) GetFy() float64 {
	if c.Fy == nil {
		return c.GetFx()
	}
	return *c.Fy
}

// GetCx returns cx, defaulting to the image center.
func (c *CameraConfig) GetCx() float64 {
	if c.Cx == nil {
		return float64(c.GetImageWidth()-1) / 2
	}
	return *c.Cx
}

// GetCy returns cy, defaulting to the image center.
func (c *CameraConfig) GetCy() float64 {
	if c.Cy == nil {
		return float64(c.GetImageHeight()-1) / 2
	}
	return *c.Cy
}

// GetDistortion returns the coefficients padded to five entries.
func (c *CameraConfig) GetDistortion() [5]float64 {
	var d [5]float64
	copy(d[:], c.Distortion)
	return d
}
