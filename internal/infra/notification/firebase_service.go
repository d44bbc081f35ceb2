package notification

import (
	"context"
	"fmt"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebaseService struct {
	client *messaging.Client
}

// NewFirebaseService creates a new Firebase push delivery instance
func NewFirebaseService(ctx context.Context, credentialsPath string) (service.PushDeliverer, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseService{
		client: client,
	}, nil
}

// Deliver sends one notification to the registered device tokens.
// Firebase limits multicast to 500 tokens per request, so larger sets are
// sent in chunks.
func (s *firebaseService) Deliver(ctx context.Context, tokens []string, n entity.Notification) error {
	if len(tokens) == 0 {
		return nil
	}

	data := map[string]string{
		"notificationId": n.ID.String(),
		"type":           string(n.Type),
		"priority":       string(n.Priority),
	}

	for start := 0; start < len(tokens); start += 500 {
		end := min(start+500, len(tokens))

		message := &messaging.MulticastMessage{
			Tokens: tokens[start:end],
			Notification: &messaging.Notification{
				Title: n.Title,
				Body:  n.Message,
			},
			Data: data,
		}

		if _, err := s.client.SendEachForMulticast(ctx, message); err != nil {
			return fmt.Errorf("failed to send multicast notification: %w", err)
		}
	}

	return nil
}
