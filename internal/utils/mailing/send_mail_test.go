package mailing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	config := MailConfig{SMTPEmail: "noreply@mealbridge.org", SMTPSender: "MealBridge"}

	msg := NewMessage(config, "donor@test.com", "Your donation was accepted", "<p>hello</p>")

	assert.Equal(t, []string{"donor@test.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your donation was accepted"}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "noreply@mealbridge.org")
	assert.Contains(t, msg.GetHeader("From")[0], "MealBridge")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<p>hello</p>")
}

func TestMailerRequiresConfig(t *testing.T) {
	err := NewMailer(MailConfig{}).Send("donor@test.com", "subject", "body")
	assert.ErrorIs(t, err, ErrMailNotConfigured)
}
