package stream

import (
	"fmt"
	"io"
	"time"

	"github.com/matt-g-everett/ledclip/clip"
	"gopkg.in/yaml.v2"
)

// Config holds everything read from the YAML config file.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Stream struct {
		FrameRate      float64       `yaml:"frameRate"`
		SceneTime      time.Duration `yaml:"sceneTime"`
		TransitionTime time.Duration `yaml:"transitionTime"`
		DampingRate    float64       `yaml:"dampingRate"`
	} `yaml:"stream"`
	Scenes []string `yaml:"scenes"`
	Api    struct {
		Addr   string `yaml:"addr"`
		Static string `yaml:"static"`
	} `yaml:"api"`
}

// Defaults applied by LoadConfig to anything left unset.
const (
	DefaultFrameRate      = 30.0
	DefaultSceneTime      = 5 * time.Minute
	DefaultTransitionTime = 5 * time.Second
	DefaultStreamTopic    = "home/xmastree/stream"
	DefaultControlTopic   = "home/xmastree/control"
	DefaultClientID       = "ledtx"
	DefaultApiAddr        = ":3000"
	DefaultStaticDir      = "client/dist"
)

// LoadConfig decodes a Config and fills in defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	c := new(Config)
	if err := yaml.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = DefaultClientID
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = DefaultStreamTopic
	}
	if c.Mqtt.Topics.Control == "" {
		c.Mqtt.Topics.Control = DefaultControlTopic
	}
	if c.Stream.FrameRate <= 0 {
		c.Stream.FrameRate = DefaultFrameRate
	}
	if c.Stream.SceneTime <= 0 {
		c.Stream.SceneTime = DefaultSceneTime
	}
	if c.Stream.TransitionTime <= 0 {
		c.Stream.TransitionTime = DefaultTransitionTime
	}
	if c.Stream.DampingRate <= 0 {
		c.Stream.DampingRate = clip.DefaultDampingRate
	}
	if c.Api.Addr == "" {
		c.Api.Addr = DefaultApiAddr
	}
	if c.Api.Static == "" {
		c.Api.Static = DefaultStaticDir
	}
	if len(c.Scenes) == 0 {
		return nil, fmt.Errorf("config lists no scenes")
	}

	return c, nil
}

// FrameInterval is the time between published frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Stream.FrameRate)
}
