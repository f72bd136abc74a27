package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/aquabuddy/internal/db/dbtest"
	"github.com/templui/aquabuddy/internal/repository"
)

type fakeEmail struct {
	to, name, message string
	err               error
}

func (f *fakeEmail) SendCaregiverAlert(ctx context.Context, to, name, message string) error {
	f.to, f.name, f.message = to, name, message
	return f.err
}

func TestCaregiverContact(t *testing.T) {
	email := &fakeEmail{}
	svc := NewCaregiverService(repository.NewCaregiverRepository(dbtest.New(t)), email)

	contact, err := svc.Contact(context.Background(), " care@example.com ", "Sam", "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "care@example.com", email.to)
	assert.Equal(t, "Sam", email.name)
	assert.Equal(t, "hi", email.message)
}

func TestCaregiverContactRejectsBadEmail(t *testing.T) {
	email := &fakeEmail{}
	svc := NewCaregiverService(repository.NewCaregiverRepository(dbtest.New(t)), email)

	_, err := svc.Contact(context.Background(), "not-an-email", "", "")
	assert.ErrorIs(t, err, ErrInvalidCaregiver)
	assert.Empty(t, email.to)
}

func TestCaregiverContactEmailFailure(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	svc := NewCaregiverService(repository.NewCaregiverRepository(dbtest.New(t)), email)

	contact, err := svc.Contact(context.Background(), "care@example.com", "", "")
	assert.Error(t, err)
	assert.NotNil(t, contact, "contact is stored even when the email fails")
}

func TestCaregiverAlertTemplate(t *testing.T) {
	subject, body := caregiverAlertTemplate("", "", "Aqua Buddy")
	assert.Equal(t, "A hydration check-in from Aqua Buddy", subject)
	assert.Contains(t, body, "Hi there,")
	assert.Contains(t, body, defaultCaregiverMessage)

	_, body = caregiverAlertTemplate("Sam", "Call me", "Aqua Buddy")
	assert.Contains(t, body, "Hi Sam,")
	assert.Contains(t, body, "> Call me")
}

func TestEmailServiceDevMode(t *testing.T) {
	svc := NewEmailService("key", "from@example.com", "Aqua Buddy", true)
	assert.NoError(t, svc.SendCaregiverAlert(context.Background(), "care@example.com", "", ""))

	unconfigured := NewEmailService("", "from@example.com", "Aqua Buddy", false)
	assert.Error(t, unconfigured.SendCaregiverAlert(context.Background(), "care@example.com", "", ""))
}
