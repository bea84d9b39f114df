package telegram_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/artusm/funny-learn-notifier/pkg/clients/telegram"
	"github.com/artusm/funny-learn-notifier/pkg/models"
)

func TestSendPhoto_PostsMultipartToBotEndpoint(t *testing.T) {
	var gotPath string
	var gotChatID, gotCaption string
	var gotPhoto []byte
	var gotPhotoType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)

		reader, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			data, err := io.ReadAll(part)
			require.NoError(t, err)
			switch part.FormName() {
			case "chat_id":
				gotChatID = string(data)
			case "caption":
				gotCaption = string(data)
			case "photo":
				gotPhoto = data
				gotPhotoType = part.Header.Get("Content-Type")
			}
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := telegram.NewClient(server.URL, "123:token", nil)
	require.NoError(t, err)

	err = client.SendPhoto(context.Background(), models.DeliveryPayload{
		ImageData: []byte("png-bytes"),
		Caption:   "one flashcard a day",
		ChatID:    "-100200300",
	})
	require.NoError(t, err)

	require.Equal(t, "/bot123:token/sendPhoto", gotPath)
	require.Equal(t, "-100200300", gotChatID)
	require.Equal(t, "one flashcard a day", gotCaption)
	require.Equal(t, []byte("png-bytes"), gotPhoto)
	require.Equal(t, "image/png", gotPhotoType)
}

func TestSendPhoto_NonOKStatusCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer server.Close()

	client, err := telegram.NewClient(server.URL, "123:token", nil)
	require.NoError(t, err)

	err = client.SendPhoto(context.Background(), models.DeliveryPayload{
		ImageData: []byte("x"),
		ChatID:    "42",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
	require.Contains(t, err.Error(), "chat not found")
}

func TestSendPhoto_EmptyImageIsRejectedLocally(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, err := telegram.NewClient(server.URL, "123:token", nil)
	require.NoError(t, err)

	err = client.SendPhoto(context.Background(), models.DeliveryPayload{ChatID: "42"})
	require.Error(t, err)
	require.Zero(t, calls)
}

func TestNewClient_RejectsEmptyToken(t *testing.T) {
	_, err := telegram.NewClient(telegram.DefaultBaseURL, "", nil)
	require.Error(t, err)
}
