package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/yildizm/SysSecura/internal/formatter"
	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/predict"
	"github.com/yildizm/SysSecura/internal/session"
)

// pageData feeds the upload page template
type pageData struct {
	FileName string
	MaxSize  string
	Message  string
	Headers  []string
	Rows     []formatter.Row
	Summary  predict.Summary
}

// AnalyzeResponse is the JSON API body on success
type AnalyzeResponse struct {
	Results []predict.Record `json:"results"`
}

// ErrorResponse is the JSON API body on failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, session.State{})
}

func (s *Server) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	state, err := s.analyze(w, r)
	s.renderPage(w, statusFor(state, err), state)
}

func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	state, err := s.analyze(w, r)

	status := statusFor(state, err)
	if status != http.StatusOK {
		respondJSON(w, status, ErrorResponse{Error: state.Message})
		return
	}

	results := state.Results
	if results == nil {
		results = []predict.Record{}
	}
	respondJSON(w, status, AnalyzeResponse{Results: results})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Uptime:    s.stats.Uptime().Round(time.Second).String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.stats.Snapshot())
}

// analyze runs the uploaded file through a fresh controller. Only the
// statistics outlive a request; no session state is shared.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (session.State, error) {
	candidate := s.uploadCandidate(w, r)

	// the upload is read before timing starts
	return s.stats.Track(func() (session.State, error) {
		controller := session.NewController(s.predictor, s.validator, s.log)
		if candidate == nil {
			err := controller.Submit(r.Context())
			return controller.Snapshot(), err
		}
		return controller.Run(r.Context(), candidate)
	})
}

// uploadCandidate turns the request into the file to submit, or nil when no
// file was sent
func (s *Server) uploadCandidate(w http.ResponseWriter, r *http.Request) *intake.File {
	candidate, err := s.readUpload(w, r)
	switch {
	case errors.Is(err, errUploadTooLarge):
		// let the validator produce the canonical rejection
		return intake.New("upload", intake.MediaTypeJSON, s.validator.MaxSize+1, nil)
	case err != nil:
		s.log.Debug("malformed upload: %v", err)
		return nil
	}
	return candidate
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

// readUpload extracts the "file" part. A request without one yields a nil file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*intake.File, error) {
	if s.validator.MaxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.validator.MaxSize+formOverhead)
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return nil, nil
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, uploadError(err)
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}
		return readPart(part, s.validator.MaxSize)
	}
}

// readPart buffers one file part, stopping one byte past the limit so an
// oversized upload is detected without reading all of it.
func readPart(part *multipart.Part, limit int64) (*intake.File, error) {
	defer part.Close()

	var src io.Reader = part
	if limit > 0 {
		src = io.LimitReader(part, limit+1)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, uploadError(err)
	}

	declared := part.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		declared = mt
	}

	return intake.FromBytes(part.FileName(), declared, buf.Bytes()), nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errUploadTooLarge
	}
	return err
}

// statusFor maps a settled state to the HTTP status of the response
func statusFor(state session.State, err error) int {
	switch state.Phase {
	case session.PhaseSucceeded:
		return http.StatusOK
	case session.PhaseRejected:
		if intake.IsTooLargeError(err) {
			return http.StatusRequestEntityTooLarge
		}
		if intake.IsMediaTypeError(err) {
			return http.StatusUnsupportedMediaType
		}
		return http.StatusBadRequest
	case session.PhaseFailed:
		switch predict.KindOf(err) {
		case predict.KindRead:
			return http.StatusBadRequest
		case predict.KindParse:
			return http.StatusUnprocessableEntity
		case predict.KindRemote, predict.KindTransport, predict.KindResponse:
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

func (s *Server) renderPage(w http.ResponseWriter, status int, state session.State) {
	data := pageData{
		FileName: state.FileName(),
		Message:  state.Message,
		Headers:  formatter.Headers,
		Rows:     formatter.BuildRows(state.Results),
		Summary:  predict.Summarize(state.Results),
	}
	if s.validator.MaxSize > 0 {
		data.MaxSize = intake.FormatSize(s.validator.MaxSize)
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.log.Error("failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
