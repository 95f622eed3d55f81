package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"optitrack-data/internal/config"
	"optitrack-data/internal/domain"
	"optitrack-data/internal/service"
	"optitrack-data/internal/tireops"

	"go.uber.org/zap"
)

// TPMSMessage is one sensor report from a vehicle-mounted tire pressure
// monitoring unit. Sensors only measure pressure; tread depth and odometer
// are carried forward from the tire's last manual reading.
type TPMSMessage struct {
	TireNo       string  `json:"tireNo"`
	VehicleNo    string  `json:"vehicleNo"`
	TirePosition string  `json:"tirePosition"`
	Pressure     float64 `json:"pressure"`
	Timestamp    int64   `json:"timestamp"` // unix seconds, 0 means "now"
}

// TPMSConsumer subscribes to the TPMS topic and feeds sensor reports into
// the reading pipeline.
type TPMSConsumer struct {
	config   *config.MQTTConfig
	client   *Client
	readings service.ReadingService
	logger   *zap.Logger
}

func NewTPMSConsumer(cfg *config.MQTTConfig, client *Client, readings service.ReadingService, logger *zap.Logger) *TPMSConsumer {
	return &TPMSConsumer{
		config:   cfg,
		client:   client,
		readings: readings,
		logger:   logger,
	}
}

// Start subscribes and blocks until the context is cancelled.
func (c *TPMSConsumer) Start(ctx context.Context) error {
	topic := c.config.Topic
	if topic == "" {
		return fmt.Errorf("TPMS MQTT topic not configured")
	}

	if err := c.client.Subscribe(topic, c.config.QoS, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to TPMS topic: %w", err)
	}

	c.logger.Info("TPMS consumer started", zap.String("topic", topic))

	<-ctx.Done()
	return nil
}

func (c *TPMSConsumer) Stop(ctx context.Context) error {
	if c.config.Topic != "" {
		if err := c.client.Unsubscribe(c.config.Topic); err != nil {
			c.logger.Error("Failed to unsubscribe", zap.Error(err))
		}
	}

	c.logger.Info("TPMS consumer stopped")
	return nil
}

// handleMessage processes one MQTT payload: a JSON array of sensor reports.
func (c *TPMSConsumer) handleMessage(topic string, payload []byte) error {
	c.logger.Debug("Received TPMS message",
		zap.String("topic", topic),
		zap.Int("payload_size", len(payload)),
	)

	var messages []TPMSMessage
	if err := json.Unmarshal(payload, &messages); err != nil {
		return fmt.Errorf("failed to unmarshal TPMS message: %w", err)
	}

	for _, msg := range messages {
		if err := c.processMessage(&msg); err != nil {
			c.logger.Error("Failed to process TPMS report",
				zap.String("tire_no", msg.TireNo),
				zap.String("vehicle_no", msg.VehicleNo),
				zap.Error(err),
			)
			// keep processing the rest of the batch
		}
	}

	return nil
}

func (c *TPMSConsumer) processMessage(msg *TPMSMessage) error {
	ctx := context.Background()

	reading := domain.Reading{
		TireID:    msg.TireNo,
		VehicleID: msg.VehicleNo,
		Position:  msg.TirePosition,
		Pressure:  msg.Pressure,
	}

	if msg.Timestamp > 0 {
		at := time.Unix(msg.Timestamp, 0).UTC()
		reading.RecordedDate = at.Format(domain.DateLayout)
		reading.RecordedTime = at.Format(domain.TimeLayout)
	}

	// fill the fields the sensor cannot measure from the last manual reading
	if last, err := c.latestFor(ctx, msg.TireNo); err == nil && last != nil {
		reading.TreadDepth = last.TreadDepth
		reading.KmReading = last.KmReading
		reading.VehicleType = last.VehicleType
		reading.Brand = last.Brand
		reading.Condition = last.Condition
		if reading.Position == "" {
			reading.Position = last.Position
		}
	}

	if err := c.readings.SubmitReading(ctx, reading); err != nil {
		return fmt.Errorf("failed to submit sensor reading: %w", err)
	}

	c.logger.Info("TPMS reading recorded",
		zap.String("tire_no", msg.TireNo),
		zap.String("vehicle_no", msg.VehicleNo),
		zap.Float64("pressure", msg.Pressure),
	)
	return nil
}

func (c *TPMSConsumer) latestFor(ctx context.Context, tireNo string) (*domain.Reading, error) {
	snapshot, err := c.readings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	latest := tireops.Aggregate(snapshot, tireops.KeyByTire, nil)
	if r, ok := latest[tireops.KeyByTire(domain.Reading{TireID: tireNo})]; ok {
		return &r, nil
	}
	return nil, nil
}
