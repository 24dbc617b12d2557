package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/noteflow-ai/noteflow/internal/errors"
	"github.com/noteflow-ai/noteflow/internal/model"
	"github.com/noteflow-ai/noteflow/internal/service/media"
)

// apiResponse is the envelope every endpoint answers with
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "ok"})
}

func (s *Server) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, model.KindAudio)
}

func (s *Server) handleUploadBook(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, model.KindBook)
}

func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	s.handleUpload(w, r, model.KindVideo)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, kind model.ContentKind) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, errors.New(errors.CodeInvalidArg, "no file provided"))
		return
	}
	defer file.Close()

	owner := ownerID(r)

	var record *model.Content
	switch kind {
	case model.KindAudio:
		record, err = s.contents.ProcessAudioUpload(r.Context(), owner, header.Filename, file)
	case model.KindBook:
		record, err = s.contents.ProcessBookUpload(r.Context(), owner, header.Filename, file)
	default:
		record, err = s.contents.ProcessVideoUpload(r.Context(), owner, header.Filename, file)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: record})
}

func (s *Server) handleProcessYouTube(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		s.writeError(w, errors.New(errors.CodeInvalidArg, "url is required"))
		return
	}

	record, err := s.contents.ProcessVideoURL(r.Context(), ownerID(r), req.URL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: record})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	records, err := s.contents.History(r.Context(), ownerID(r), model.ContentKind(query.Get("kind")), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: records})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, errors.New(errors.CodeInvalidArg, "invalid content id"))
		return
	}

	record, err := s.contents.Get(r.Context(), id, ownerID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: record})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, errors.New(errors.CodeInvalidArg, "invalid content id"))
		return
	}

	if err := s.contents.Delete(r.Context(), id, ownerID(r)); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "deleted"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, errors.New(errors.CodeInvalidArg, "invalid content id"))
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		s.writeError(w, errors.New(errors.CodeInvalidArg, "question is required"))
		return
	}

	answer, err := s.contents.Chat(r.Context(), id, ownerID(r), req.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: map[string]string{"answer": answer}})
}

// writeError maps domain error codes to HTTP statuses. The message is the
// user-facing explanation the pipeline composed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.Code(err) {
	case errors.CodeInvalidArg, errors.CodeInvalidRef:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeDisabled, errors.CodeUnavailable, errors.CodeNoTranscript:
		status = http.StatusUnprocessableEntity
	case errors.CodeExternal, errors.CodeTranscription, errors.CodeSummarization:
		status = http.StatusBadGateway
	}

	message := err.Error()
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		// Drop the code prefix; clients only see the message
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ownerID identifies the caller; a single-user deployment omits the header
func ownerID(r *http.Request) string {
	if owner := r.Header.Get("X-Owner-ID"); owner != "" {
		return owner
	}
	return "default"
}
