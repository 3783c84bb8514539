package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"

	"muse-ai/backend/internal/model"
	"muse-ai/backend/internal/storage"
)

// Transcriber converts a stored audio object into text.
type Transcriber interface {
	Transcribe(ctx context.Context, ref model.MediaRef) (string, error)
}

// mimeTypes maps audio file extensions to the content type the speech-to-text
// endpoint expects. Unrecognized extensions fall back to audio/mpeg.
var mimeTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"mpga": "audio/mpeg",
	"mpeg": "audio/mpeg",
	"m4a":  "audio/mp4",
	"mp4":  "audio/mp4",
	"wav":  "audio/wav",
	"flac": "audio/flac",
	"oga":  "audio/ogg",
	"ogg":  "audio/ogg",
	"webm": "audio/webm",
}

type whisperClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	store   storage.ObjectFetcher
}

// NewWhisperClient returns a Transcriber backed by an OpenAI-compatible
// audio-transcriptions endpoint. Objects are resolved through store before
// being submitted.
func NewWhisperClient(baseURL, apiKey, transcribeModel string, store storage.ObjectFetcher) Transcriber {
	return &whisperClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   transcribeModel,
		store:   store,
	}
}

func (c *whisperClient) Transcribe(ctx context.Context, ref model.MediaRef) (string, error) {
	data, err := c.store.Fetch(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("could not fetch audio object: %w", err)
	}

	ext := audioExt(ref)
	contentType, ok := mimeTypes[ext]
	if !ok {
		contentType = "audio/mpeg"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="audio.%s"`, ext))
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("could not build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("could not write audio to form: %w", err)
	}
	if err := form.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("could not build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("could not finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription api returned status %d: %s", resp.StatusCode, string(diag))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("could not decode transcription response: %w", err)
	}
	return out.Text, nil
}

// audioExt infers the file extension from the storage key, falling back to
// the URL path, defaulting to mp3.
func audioExt(ref model.MediaRef) string {
	name := ref.Key
	if name == "" {
		if u, err := url.Parse(ref.URL); err == nil {
			name = u.Path
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return "mp3"
	}
	return ext
}
