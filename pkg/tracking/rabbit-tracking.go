package tracking

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const trackingTopic = "browse_tracking"

// RabbitTracking publishes browse events on a durable topic exchange. Send
// failures are logged and swallowed; tracking must never surface into the
// browse pipeline.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	t := &RabbitTracking{country: country, connection: conn}
	if err := t.defineTopic(); err != nil {
		conn.Close()
		return nil, err
	}
	return t, nil
}

func (t *RabbitTracking) defineTopic() error {
	ch, err := t.connection.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(trackingTopic, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	_, err = ch.QueueDeclare(trackingTopic, true, false, false, false, nil)
	return err
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

type baseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Event     uint16 `json:"event"`
}

type searchEvent struct {
	baseEvent
	Location  string `json:"location"`
	TotalHits int    `json:"hits"`
}

type viewEvent struct {
	baseEvent
	View     string `json:"view"`
	Location string `json:"location"`
}

type clickEvent struct {
	baseEvent
	ListingId int `json:"listing_id"`
	Position  int `json:"position"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, location string, totalHits int) {
	t.send(searchEvent{
		baseEvent: baseEvent{SessionId: sessionId, Country: t.country, Event: 1},
		Location:  location,
		TotalHits: totalHits,
	})
}

func (t *RabbitTracking) TrackView(sessionId string, view string, location string) {
	t.send(viewEvent{
		baseEvent: baseEvent{SessionId: sessionId, Country: t.country, Event: 2},
		View:      view,
		Location:  location,
	})
}

func (t *RabbitTracking) TrackClick(sessionId string, listingId int, position int) {
	t.send(clickEvent{
		baseEvent: baseEvent{SessionId: sessionId, Country: t.country, Event: 3},
		ListingId: listingId,
		Position:  position,
	})
}

func (t *RabbitTracking) send(data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("tracking marshal failed: %v", err)
		return
	}
	ch, err := t.connection.Channel()
	if err != nil {
		log.Printf("tracking channel failed: %v", err)
		return
	}
	defer ch.Close()
	if err := ch.Publish(trackingTopic, trackingTopic, true, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		log.Printf("tracking publish failed: %v", err)
	}
}
