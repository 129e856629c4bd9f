package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	body, subject, err := Render(EmailJob{
		Template:  TemplateBookingConfirmed,
		Recipient: "anna@example.org",
		Data: map[string]interface{}{
			"customer_name": "Anna",
			"course_title":  "Welpenschule",
			"session_date":  "14.09.2026",
			"start_time":    "10:00",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Deine Buchung ist bestätigt", subject)
	assert.Contains(t, body, "Hallo Anna")
	assert.Contains(t, body, "Welpenschule")
	assert.Contains(t, body, "14.09.2026")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render(EmailJob{Template: "nope"})
	assert.Error(t, err)
}
