package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var bucharest = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Bucharest")
	if err != nil {
		panic(err)
	}
	return loc
}()

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// mutableClock lets a test move time forward.
type mutableClock struct{ now time.Time }

func (c *mutableClock) Now() time.Time { return c.now }

type notifierMock struct{ mock.Mock }

func (n *notifierMock) Publish(eventType string, data any) {
	n.Called(eventType, data)
}

func (n *notifierMock) PublishTo(eventType string, data any, roles []string, userIDs ...uint) {
	n.Called(eventType, data, roles, userIDs)
}

func newNotifierMock() *notifierMock {
	n := &notifierMock{}
	n.On("Publish", mock.Anything, mock.Anything).Return()
	n.On("PublishTo", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	return n
}

func requireKind(t *testing.T, err error, kind error, msgContains ...string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	for _, m := range msgContains {
		assert.Contains(t, err.Error(), m)
	}
}
