package stream

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	config   *Config
	client   mqtt.Client
	director Director
	logger   zerolog.Logger
	start    time.Time
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config *Config, client mqtt.Client, director Director, logger zerolog.Logger) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.director = director
	s.logger = logger
	s.start = time.Now()
	return s
}

// SendFrame sends a frame as binary over MQTT to an ledrx device.
func (s *Streamer) SendFrame() error {
	f := s.director.CalculateFrame(time.Since(s.start).Milliseconds())
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	token := s.client.Publish(s.config.Mqtt.Topics.Stream, 2, false, b)
	token.Wait()
	return token.Error()
}

func (s *Streamer) handleControlMessages(client mqtt.Client, msg mqtt.Message) {
	s.logger.Debug().Str("topic", msg.Topic()).Bytes("payload", msg.Payload()).Msg("received control message")

	message, err := ParseControlMessage(msg.Payload())
	if err == nil {
		err = s.director.Handle(message)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("ignoring control message")
	}
}

// Subscribe listens for commands on the control topic. Call it again after
// every reconnect.
func (s *Streamer) Subscribe() error {
	token := s.client.Subscribe(s.config.Mqtt.Topics.Control, 0, s.handleControlMessages)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.config.Mqtt.Topics.Control, token.Error())
	}
	s.logger.Info().Str("topic", s.config.Mqtt.Topics.Control).Msg("subscribed to control topic")
	return nil
}

// Run causes the Streamer to send Frames continuously until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.config.FrameInterval())
	defer publishTimer.Stop()

	for {
		select {
		case <-publishTimer.C:
			if err := s.SendFrame(); err != nil {
				s.logger.Error().Err(err).Msg("failed to send frame")
			}
		case <-ctx.Done():
			return nil
		}
	}
}
