package notification

import (
	"bytes"
	"context"
	"html/template"

	"mealbridge/entities"
)

// Sender delivers one message. *mailing.Mailer satisfies it.
type Sender interface {
	Send(toEmail string, subject string, body string) error
}

type Notifier interface {
	DonationAccepted(ctx context.Context, donor *entities.User, receiver *entities.User, donation *entities.Donation) error
}

type mailNotifier struct {
	sender Sender
}

func NewMailNotifier(sender Sender) Notifier {
	return &mailNotifier{sender: sender}
}

const subjectDonationAccepted = "Your donation has been accepted"

var acceptedTemplate = template.Must(template.New("accepted").Parse(
	`<p>Hi {{.DonorName}},</p>
<p>Your donation of <b>{{.Quantity}} {{.FoodType}}</b> has been accepted by <b>{{.ReceiverName}}</b>.</p>
<p>Pickup location: {{.PickupLocation}}<br>Best before: {{.ExpiryDate}}</p>
<p>Thank you for helping reduce food waste.</p>`))

func (n *mailNotifier) DonationAccepted(_ context.Context, donor *entities.User, receiver *entities.User, donation *entities.Donation) error {
	if donor == nil || donor.Email == "" {
		return nil
	}

	receiverName := "a receiving organization"
	if receiver != nil && receiver.Name != "" {
		receiverName = receiver.Name
	}

	var body bytes.Buffer
	if err := acceptedTemplate.Execute(&body, map[string]string{
		"DonorName":      donor.Name,
		"ReceiverName":   receiverName,
		"FoodType":       donation.FoodType,
		"Quantity":       donation.Quantity,
		"PickupLocation": donation.PickupLocation,
		"ExpiryDate":     donation.ExpiryDate.Format("02 Jan 2006 15:04"),
	}); err != nil {
		return err
	}

	return n.sender.Send(donor.Email, subjectDonationAccepted, body.String())
}
