package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// Sender delivers a notification to a single device.
type Sender interface {
	Send(ctx context.Context, deviceToken string, n Notification) (string, error)
}

// FCMSender pushes notifications through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, deviceToken string, n Notification) (string, error) {
	msg := &messaging.Message{
		Token: deviceToken,
		Data: map[string]string{
			"type":            "campus_notification",
			"notification_id": string(n.ID),
		},
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "default",
				Color:     "#00693E",
			},
		},
	}
	id, err := s.client.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("sending FCM for notification %s: %w", n.ID, err)
	}
	return id, nil
}
