package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umanagarjuna/steam-bot/internal/bot/format"
)

func TestPhotoMessageCarriesCaption(t *testing.T) {
	photo := photoMessage("ss_70_1.jpg", []byte("jpeg"))

	assert.Equal(t, "ss_70_1.jpg", photo.Caption)
	assert.NotNil(t, photo.File.FileReader)
}

func TestAnswerCallbackRespondsWhenHandlerFails(t *testing.T) {
	h := newHarness(t, nil)
	h.transport.err = errors.New("bot was blocked by the user")

	responded := 0
	err := answerCallback(context.Background(), h.app, 7, "/start", func() error {
		responded++
		return nil
	})
	h.tasks.Wait()

	require.NoError(t, err)
	assert.Equal(t, 1, responded)
	assert.Equal(t, format.Welcome, h.transport.lastText(t).text)
}

func TestAnswerCallbackReturnsRespondError(t *testing.T) {
	h := newHarness(t, nil)
	respondErr := errors.New("query is too old")

	err := answerCallback(context.Background(), h.app, 7, "/start", func() error { return respondErr })
	h.tasks.Wait()

	assert.ErrorIs(t, err, respondErr)
}
