package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMDispatcher pushes appointment events to the assigned collaborator's
// device through Firebase Cloud Messaging.
type FCMDispatcher struct {
	client *messaging.Client
	log    *zap.Logger
}

func NewFCMDispatcher(ctx context.Context, credentialsPath string, log *zap.Logger) (*FCMDispatcher, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &FCMDispatcher{client: client, log: log}, nil
}

func (d *FCMDispatcher) Dispatch(ctx context.Context, event Event) error {
	token := event.Appointment.Collaborator.FCMToken
	if token == "" {
		d.log.Debug("no fcm token for collaborator, skipping push",
			zap.Uint64("collaborator_id", event.Appointment.CollaboratorID))
		return nil
	}

	var title, body string
	switch event.Type {
	case EventAppointmentCreated:
		title = "New appointment"
		body = fmt.Sprintf("%s booked for %s", event.Appointment.Client.Name,
			event.Appointment.StartAt.Format("Mon 02 Jan 15:04"))
	default:
		title = "Appointment update"
		body = fmt.Sprintf("Appointment at %s", event.Appointment.StartAt.Format("Mon 02 Jan 15:04"))
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"appointment_id": fmt.Sprintf("%d", event.Appointment.ID),
			"type":           event.Type,
		},
	}

	if _, err := d.client.Send(ctx, msg); err != nil {
		d.log.Warn("fcm send failed",
			zap.Uint64("appointment_id", event.Appointment.ID),
			zap.Error(err))
		return err
	}
	return nil
}
