package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/matt-g-everett/ledclip/api"
	"github.com/matt-g-everett/ledclip/scene"
	"github.com/matt-g-everett/ledclip/stream"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type app struct {
	Config     *stream.Config
	Client     mqtt.Client
	Controller *stream.Controller
	Streamer   *stream.Streamer
	Api        *api.Api
	logger     zerolog.Logger
}

func newApp(logger zerolog.Logger) *app {
	a := new(app)
	a.logger = logger
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.logger.Info().Str("broker", a.Config.Mqtt.URL).Msg("connected")
	if err := a.Streamer.Subscribe(); err != nil {
		a.logger.Error().Err(err).Msg("control commands disabled")
	}
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		a.logger.Fatal().Err(err).Str("path", configPath).Msg("failed to open config")
	}
	defer f.Close()

	a.Config, err = stream.LoadConfig(f)
	if err != nil {
		a.logger.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
}

func (a *app) loadScenes() []*stream.Timeline {
	timelines := make([]*stream.Timeline, 0, len(a.Config.Scenes))
	for _, path := range a.Config.Scenes {
		s, err := scene.LoadFile(path)
		if err != nil {
			a.logger.Fatal().Err(err).Msg("failed to load scene")
		}

		t, err := stream.NewTimeline(s)
		if err != nil {
			a.logger.Fatal().Err(err).Str("scene", s.Name).Msg("failed to compile scene")
		}

		t.SetDampingRate(a.Config.Stream.DampingRate)

		a.logger.Info().
			Str("scene", s.Name).
			Int("objects", len(t.Compiled().Objects)).
			Float64("length", t.Compiled().Length).
			Dur("loop", s.Loop).
			Msg("compiled scene")
		timelines = append(timelines, t)
	}
	return timelines
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer a.Client.Disconnect(250)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Controller.Run(ctx) })
	g.Go(func() error { return a.Streamer.Run(ctx) })
	g.Go(func() error { return a.Api.Serve(ctx, a.Config.Api.Addr) })
	return g.Wait()
}

func main() {
	logger := log.With().Str("service", "ledclip").Logger()

	mqttLogger := logger.With().Str("component", "mqtt").Logger()
	// mqtt.DEBUG = stdlog.New(mqttLogger, "", 0)
	mqtt.ERROR = stdlog.New(mqttLogger, "", 0)
	mqtt.WARN = stdlog.New(mqttLogger, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp(logger)
	a.readConfig(*configPath)

	timelines := a.loadScenes()
	a.Controller = stream.NewController(timelines, a.Config.Stream.FrameRate,
		a.Config.Stream.SceneTime, a.Config.Stream.TransitionTime, logger)

	scenes := make([]api.Scene, 0, len(timelines))
	for _, t := range a.Controller.Timelines() {
		scenes = append(scenes, t)
	}
	a.Api = api.NewApi(scenes, a.Config.Api.Static, logger)

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID + "-" + uuid.NewString()[:8]).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(a.Config, a.Client, a.Controller, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("stopped")
	}
	logger.Info().Msg("shut down")
}
