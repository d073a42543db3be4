package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath        string
	SessionID     int64
	OutputFile    string
	Format        ImageFormat
	Width         int
	Height        int
	From          *time.Time
	To            *time.Time
	NoAnnotations bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
		Width:  1200,
		Height: 600,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat, from, to string
	flag.StringVar(&c.DBPath, "db", "", "Path to the flight log database file")
	flag.Int64Var(&c.SessionID, "s", 1, "Session ID")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.IntVar(&c.Width, "w", c.Width, "Plot area width in pixels")
	flag.IntVar(&c.Height, "h", c.Height, "Plot area height in pixels")
	flag.StringVar(&from, "from", "", "Start of the time range (format '2006-01-02 15:04:05', UTC)")
	flag.StringVar(&to, "to", "", "End of the time range (format '2006-01-02 15:04:05', UTC)")
	flag.BoolVar(&c.NoAnnotations, "no-annotations", false, "Disable annotations such as time and value scales")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.SessionID <= 0 {
		err = errors.New("session id is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if c.Width < 200 || c.Height < 100 {
		err = fmt.Errorf("plot area %dx%d is too small", c.Width, c.Height)
	}

	if err == nil && from != "" {
		var t time.Time
		if t, err = time.Parse(time.DateTime, from); err == nil {
			c.From = &t
		}
	}
	if err == nil && to != "" {
		var t time.Time
		if t, err = time.Parse(time.DateTime, to); err == nil {
			c.To = &t
		}
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
