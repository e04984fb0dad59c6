package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "/etc/regface/config.json"

type Config struct {
	Device  string `json:"device" yaml:"device"`
	Backend string `json:"backend" yaml:"backend"`
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`

	Detector      string  `json:"detector" yaml:"detector"`
	CascadeFile   string  `json:"cascade_file" yaml:"cascade_file"`
	ScaleFactor   float64 `json:"scale_factor" yaml:"scale_factor"`
	MinNeighbors  int     `json:"min_neighbors" yaml:"min_neighbors"`
	DNNConfig     string  `json:"dnn_config" yaml:"dnn_config"`
	DNNModel      string  `json:"dnn_model" yaml:"dnn_model"`
	DNNConfidence float64 `json:"dnn_confidence" yaml:"dnn_confidence"`

	Threshold float64 `json:"threshold" yaml:"threshold"`
	Database  string  `json:"database" yaml:"database"`
	Window    string  `json:"window" yaml:"window"`
}

// Load reads path (DefaultFile when empty), applies environment overrides and
// fills defaults. A missing or broken file only produces a warning.
func Load(path string) *Config {
	if path == "" {
		path = DefaultFile
	}
	conf, err := loadFromFile(path)
	if err != nil {
		slog.Warn("Failed to load config file", "path", path, "error", err)
	}
	if conf == nil {
		conf = &Config{}
	}
	conf.applyEnv()
	conf.applyDefaults()
	return conf
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REGFACE_DEVICE"); v != "" {
		c.Device = v
	}
	if v := os.Getenv("REGFACE_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("REGFACE_CASCADE"); v != "" {
		c.CascadeFile = v
	}
}

func (c *Config) applyDefaults() {
	if c.Device == "" {
		c.Device = "0"
	}
	if c.Backend == "" {
		c.Backend = "auto"
	}
	if c.Width == 0 {
		c.Width = 640
	}
	if c.Height == 0 {
		c.Height = 480
	}
	if c.Detector == "" {
		c.Detector = "cascade"
	}
	if c.CascadeFile == "" {
		c.CascadeFile = "/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml"
	}
	if c.ScaleFactor == 0 {
		c.ScaleFactor = 1.1
	}
	if c.MinNeighbors == 0 {
		c.MinNeighbors = 5
	}
	if c.DNNConfidence == 0 {
		c.DNNConfidence = 0.5
	}
	if c.Threshold == 0 {
		c.Threshold = 100
	}
	if c.Database == "" {
		c.Database = "face_recognition.db"
	}
	if c.Window == "" {
		c.Window = "Video"
	}
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Can not decode %s", path)
	}

	return config, nil
}
