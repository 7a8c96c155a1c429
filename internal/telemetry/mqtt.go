// Package telemetry ingests odometer readings published by companion devices
// and keeps vehicle mileage current for the due-status evaluation.
package telemetry

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/mvilar/controlcar/internal/db"
)

const updateTimeout = 10 * time.Second

// OdometerReading is the payload published on controlcar/<vehicleId>/odometer.
type OdometerReading struct {
	Mileage int `json:"mileage"`
}

// Subscriber consumes odometer readings over MQTT and writes them to the
// vehicle collection.
type Subscriber struct {
	client   mqtt.Client
	vehicles db.VehicleCollection
	topic    string
}

// NewSubscriber configures an MQTT client for the given broker.
func NewSubscriber(broker, clientID, topic string, vehicles db.VehicleCollection) *Subscriber {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	return &Subscriber{
		client:   mqtt.NewClient(opts),
		vehicles: vehicles,
		topic:    topic,
	}
}

// Start connects and subscribes. Malformed messages are logged and dropped;
// negative readings are rejected since mileage only moves forward.
func (s *Subscriber) Start() error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	if token := s.client.Subscribe(s.topic, 1, s.handle); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.WithField("topic", s.topic).Info("odometer subscriber started")
	return nil
}

// Stop disconnects from the broker.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
}

func (s *Subscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	vehicleID := vehicleIDFromTopic(msg.Topic())
	if vehicleID == "" {
		log.WithField("topic", msg.Topic()).Warn("odometer message on unexpected topic")
		return
	}

	var reading OdometerReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("invalid odometer payload")
		return
	}
	if reading.Mileage < 0 {
		log.WithFields(log.Fields{"vehicleId": vehicleID, "mileage": reading.Mileage}).
			Warn("rejecting negative odometer reading")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()
	if err := s.vehicles.UpdateVehicleMileage(ctx, vehicleID, reading.Mileage); err != nil {
		log.WithError(err).WithField("vehicleId", vehicleID).Error("failed to update vehicle mileage")
		return
	}
	log.WithFields(log.Fields{"vehicleId": vehicleID, "mileage": reading.Mileage}).
		Debug("vehicle mileage updated")
}

// vehicleIDFromTopic extracts the vehicle id from controlcar/<id>/odometer.
func vehicleIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[2] != "odometer" {
		return ""
	}
	return parts[1]
}
