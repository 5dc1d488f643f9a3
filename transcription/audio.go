package transcription

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/voicy/chat"
	"github.com/kbukum/voicy/httpclient"
)

// FetchAudio downloads the file at url through client. Files above
// chat.MaxFileSize are refused.
func FetchAudio(ctx context.Context, client *httpclient.Client, engine, url string) ([]byte, error) {
	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: url})
	if err != nil {
		return nil, httpclient.ToAppError("file download", err)
	}
	if int64(len(resp.Body)) > chat.MaxFileSize {
		return nil, Fail(engine, fmt.Sprintf("audio is %d bytes, limit is %d", len(resp.Body), chat.MaxFileSize), nil)
	}
	if len(resp.Body) == 0 {
		return nil, Fail(engine, "audio file is empty", nil)
	}
	return resp.Body, nil
}
