package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vbonduro/snapback/internal/complaint"
)

const (
	maxPhotoSize     = 10 * 1024 * 1024 // 10 MB
	maxComplaintLen  = 500
	errorMessagePfx  = "An error occurred: "
	missingInputsMsg = "upload a complaint image and describe your complaint"
)

// allowedImageTypes is the set of MIME types accepted for complaint photos.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// allowedImageMIME returns the sniffed MIME type and true if data is an
// accepted image whose header decodes, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	if !allowedImageTypes[mime] {
		return "", false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", false
	}
	return mime, true
}

// inputError is a client mistake in the submitted form.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

// readComplaintForm collects the uploaded image and the complaint text.
func (s *Server) readComplaintForm(w http.ResponseWriter, r *http.Request) (complaint.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1024*1024)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		return complaint.Request{}, &inputError{msg: "failed to parse form"}
	}

	text := strings.TrimSpace(r.FormValue("complaint"))
	file, _, err := r.FormFile("image")
	if err != nil || text == "" {
		if file != nil {
			closeWithLog(file, "upload file", s.logger)
		}
		return complaint.Request{}, &inputError{msg: missingInputsMsg}
	}
	defer closeWithLog(file, "upload file", s.logger)

	if len([]rune(text)) > maxComplaintLen {
		return complaint.Request{}, &inputError{msg: "complaint is too long"}
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		return complaint.Request{}, fmt.Errorf("failed to read upload: %w", err)
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		return complaint.Request{}, &inputError{msg: "unsupported image format (use jpg, jpeg or png)"}
	}

	return complaint.Request{Image: imageData, MimeType: mimeType, Text: text}, nil
}

// resultView is the data behind the result page and partial.
type resultView struct {
	Complaint string
	ImageURI  template.URL
	Analysis  *complaint.Analysis
	Error     string
	HistoryOn bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Mode":        s.analyzer.Mode(),
		"HistoryOn":   s.history != nil,
		"ConfigError": errString(s.configErr),
	}
	if err := s.renderPage(w, http.StatusOK, data, "base.html", "pages/index.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.configErr != nil {
		http.Error(w, s.configErr.Error(), http.StatusServiceUnavailable)
		return
	}

	req, err := s.readComplaintForm(w, r)
	if err != nil {
		s.writeFormError(w, err)
		return
	}

	view := resultView{
		Complaint: req.Text,
		ImageURI:  template.URL("data:" + req.MimeType + ";base64," + base64.StdEncoding.EncodeToString(req.Image)),
		HistoryOn: s.history != nil,
	}
	status := http.StatusOK

	analysis, err := s.analyzer.Analyze(r.Context(), req)
	switch {
	case err != nil:
		s.logger.Error("analyze complaint failed", "error", err)
		view.Error = errorMessagePfx + err.Error()
		status = statusFor(err)
	case analysis.Outcome.Failed():
		view.Analysis = analysis
		view.Error = errorMessagePfx + analysis.Outcome.Reason
	default:
		view.Analysis = analysis
	}

	// HTMX only swaps 2xx responses, so the partial always reports 200.
	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, http.StatusOK, "partials/result.html", "result", view); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}

	if err := s.renderPage(w, status, view, "base.html", "pages/result.html", "partials/result.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// apiResponse is the JSON body of POST /api/analyze.
type apiResponse struct {
	ID            string            `json:"id,omitempty"`
	Mode          string            `json:"mode,omitempty"`
	Outcome       string            `json:"outcome,omitempty"`
	Fields        *complaint.Fields `json:"fields,omitempty"`
	Raw           string            `json:"raw,omitempty"`
	SuggestedPost string            `json:"suggested_post,omitempty"`
	Error         string            `json:"error,omitempty"`
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.configErr != nil {
		writeJSON(w, http.StatusServiceUnavailable, apiResponse{Error: s.configErr.Error()}, s.logger)
		return
	}

	req, err := s.readComplaintForm(w, r)
	if err != nil {
		var inErr *inputError
		if errors.As(err, &inErr) {
			writeJSON(w, http.StatusBadRequest, apiResponse{Error: inErr.msg}, s.logger)
			return
		}
		s.logger.Error("read complaint form failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: "failed to read upload"}, s.logger)
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.logger.Error("analyze complaint failed", "error", err)
		writeJSON(w, statusFor(err), apiResponse{Error: err.Error()}, s.logger)
		return
	}

	resp := apiResponse{
		ID:            analysis.ID,
		Mode:          string(analysis.Mode),
		Outcome:       string(analysis.Outcome.Kind),
		Fields:        analysis.Outcome.Fields,
		Raw:           analysis.Outcome.Raw,
		SuggestedPost: analysis.SuggestedPost,
	}
	status := http.StatusOK
	if analysis.Outcome.Failed() {
		resp.Error = analysis.Outcome.Reason
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp, s.logger)
}

func (s *Server) writeFormError(w http.ResponseWriter, err error) {
	var inErr *inputError
	if errors.As(err, &inErr) {
		http.Error(w, inErr.msg, http.StatusBadRequest)
		return
	}
	s.logger.Error("read complaint form failed", "error", err)
	http.Error(w, "failed to read upload", http.StatusInternalServerError)
}

// statusFor maps analyzer errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, complaint.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, complaint.ErrInference):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("write json failed", "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
