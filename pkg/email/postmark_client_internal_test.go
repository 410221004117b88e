package email

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPostmark struct {
	mock.Mock
}

func (m *mockPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

var testConfig = Config{
	PostmarkServerToken:  "server",
	PostmarkAccountToken: "account",
	SenderEmail:          "no-reply@example.com",
	SupportEmail:         "support@example.com",
}

var invite = Message{
	To:       "new@example.com",
	Subject:  "Join Acme",
	HTMLBody: "<p>code ABC-1234</p>",
	Tag:      "invitation",
}

func TestPostmarkSend(t *testing.T) {
	api := &mockPostmark{}
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(e postmark.Email) bool {
		return e.From == "no-reply@example.com" &&
			e.ReplyTo == "support@example.com" &&
			e.To == "new@example.com" &&
			e.Tag == "invitation" &&
			e.TrackOpens
	})).Return(postmark.EmailResponse{}, nil).Once()

	c, err := newPostmarkClient(api, testConfig)
	require.NoError(t, err)
	require.NoError(t, c.SendEmail(context.Background(), invite))
	api.AssertExpectations(t)
}

func TestPostmarkSendFailures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).Return(postmark.EmailResponse{}, errors.New("timeout"))
		c, err := newPostmarkClient(api, testConfig)
		require.NoError(t, err)
		assert.ErrorIs(t, c.SendEmail(context.Background(), invite), ErrFailedToSendEmail)
	})

	t.Run("api error code", func(t *testing.T) {
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).Return(postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}, nil)
		c, err := newPostmarkClient(api, testConfig)
		require.NoError(t, err)
		err = c.SendEmail(context.Background(), invite)
		assert.ErrorIs(t, err, ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "Invalid email request")
	})

	t.Run("invalid message is not sent", func(t *testing.T) {
		api := &mockPostmark{}
		c, err := newPostmarkClient(api, testConfig)
		require.NoError(t, err)
		assert.ErrorIs(t, c.SendEmail(context.Background(), Message{To: "nobody"}), ErrInvalidMessage)
		api.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}

func TestNewPostmarkClientConfig(t *testing.T) {
	_, err := NewPostmarkClient(Config{SenderEmail: "a@example.com", SupportEmail: "b@example.com"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad := testConfig
	bad.SenderEmail = "not-an-email"
	_, err = NewPostmarkClient(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, err := NewPostmarkClient(testConfig)
	require.NoError(t, err)
	assert.NotNil(t, s)
}
