package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
	"github.com/jalad-shrimali/cdr-analyst/report"
)

type uploadResponse struct {
	Success     bool                   `json:"success"`
	File        string                 `json:"archivo_excel,omitempty"`
	Report      string                 `json:"reporte,omitempty"`
	Carrier     string                 `json:"operador,omitempty"`
	Sheet       string                 `json:"hoja,omitempty"`
	Records     int                    `json:"registros"`
	BTS         int                    `json:"bts"`
	TopContacts []cdr.ContactFrequency `json:"top_10_contactos"`
	Error       string                 `json:"error,omitempty"`
	Timestamp   string                 `json:"timestamp"`
}

// handleUpload stores a multipart export, runs both analyses on it and
// writes the xlsx report served under /download/.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fail := func(status int, msg string) {
		writeJSON(w, status, uploadResponse{Error: msg, Timestamp: h.timestamp()})
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		fail(http.StatusBadRequest, err.Error())
		return
	}
	carrierName := strings.TrimSpace(r.FormValue("operador"))
	number := r.FormValue("numero_buscar")
	if carrierName == "" || cdr.CleanNumber(number) == "" {
		fail(http.StatusBadRequest, "operador and numero_buscar are required")
		return
	}
	k := h.cfg.TopK
	if v := r.FormValue("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(http.StatusBadRequest, "top must be a positive integer")
			return
		}
		k = n
	}

	fh, hdr, err := r.FormFile("file")
	if err != nil {
		fail(http.StatusBadRequest, err.Error())
		return
	}
	defer fh.Close()

	base := filepath.Base(filepath.Clean("/" + hdr.Filename))
	if base == string(filepath.Separator) || base == "." {
		fail(http.StatusBadRequest, "file name is required")
		return
	}
	// uploads/<uuid>/<original name>; a CSV sheet is named after its file.
	id := uuid.NewString()
	dir := filepath.Join(h.cfg.UploadDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail(http.StatusInternalServerError, err.Error())
		return
	}
	name := path.Join(id, base)
	src := filepath.Join(dir, base)
	if err := saveUploaded(fh, src); err != nil {
		os.RemoveAll(dir)
		fail(http.StatusInternalServerError, err.Error())
		return
	}

	rep, err := h.svc.Analyze(ctx, src, number, carrierName, k)
	if err != nil {
		h.logger.WarnContext(ctx, "upload analysis failed",
			"request_id", middleware.GetReqID(ctx), "file", hdr.Filename, "carrier", carrierName, "error", err)
		os.RemoveAll(dir)
		fail(statusFor(err), err.Error())
		return
	}
	out, err := report.Write(h.cfg.ReportDir, rep)
	if err != nil {
		h.logger.ErrorContext(ctx, "report write failed", "request_id", middleware.GetReqID(ctx), "error", err)
		fail(http.StatusInternalServerError, "report write failed")
		return
	}
	h.logger.InfoContext(ctx, "upload analysed",
		"request_id", middleware.GetReqID(ctx), "file", name, "carrier", rep.Carrier,
		"records", rep.Records, "bts", len(rep.BTS), "report", filepath.Base(out))

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:     true,
		File:        name,
		Report:      "/download/" + filepath.Base(out),
		Carrier:     string(rep.Carrier),
		Sheet:       rep.Sheet,
		Records:     rep.Records,
		BTS:         len(rep.BTS),
		TopContacts: rep.TopContacts,
		Timestamp:   h.timestamp(),
	})
}

func saveUploaded(src io.Reader, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
