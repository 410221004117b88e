package handler

import "net/http"

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty responds 204 No Content.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus responds with status and no body.
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}

type rawResponse struct {
	contentType string
	body        []byte
}

func (b rawResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", b.contentType)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(b.body)
	return err
}

// Bytes responds 200 with body as contentType.
func Bytes(contentType string, body []byte) Response {
	return rawResponse{contentType: contentType, body: body}
}
