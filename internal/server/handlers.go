package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/overlap"
	"github.com/roach88/copair/internal/report"
	"github.com/roach88/copair/internal/store"
)

// OverlapResponse is the body of a successful upload.
type OverlapResponse struct {
	// RunID is set when the report was saved.
	RunID  string         `json:"run_id,omitempty"`
	Report *report.Report `json:"report"`
}

// RunsResponse is the body of GET /api/runs.
type RunsResponse struct {
	Runs []store.RunSummary `json:"runs"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// computeOverlap handles POST /api/overlap.
func (s *Server) computeOverlap(c *gin.Context) {
	limit := s.cfg.Server.MaxUploadBytes
	if c.Request.ContentLength > limit {
		abortWithError(c, http.StatusRequestEntityTooLarge, CodeUploadTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", limit))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			abortWithError(c, http.StatusRequestEntityTooLarge, CodeUploadTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", limit))
		case errors.Is(err, http.ErrMissingFile):
			abortWithError(c, http.StatusBadRequest, CodeMissingFile, `multipart field "file" is required`)
		default:
			abortWithError(c, http.StatusBadRequest, CodeInvalidForm, err.Error())
		}
		return
	}

	var ref time.Time
	if now := c.PostForm("now"); now != "" {
		if ref, err = overlap.ParseReference(now); err != nil {
			abortWithError(c, http.StatusBadRequest, CodeInvalidNow, err.Error())
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidForm, err.Error())
		return
	}
	defer f.Close()

	table, err := ingest.Read(f, fh.Filename, s.cfg.ReadOptions())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidForm, err.Error())
		return
	}

	rep, err := report.Build(table, report.Options{
		Coerce:     s.cfg.CoerceOptions(),
		MaxRows:    s.cfg.Input.MaxRows,
		Aggregator: s.aggregator,
		Reference:  ref,
	})
	if errors.Is(err, report.ErrTooManyRows) {
		abortWithError(c, http.StatusUnprocessableEntity, CodeTooManyRows, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("build report", "source", fh.Filename, "error", err)
		abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	resp := OverlapResponse{Report: rep}
	if s.store != nil {
		id, err := s.store.WriteRun(c.Request.Context(), rep)
		if err != nil {
			s.logger.Error("save run", "source", fh.Filename, "error", err)
			abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
			return
		}
		resp.RunID = id
	}

	s.logger.Debug("overlap computed",
		"source", rep.Source,
		"rows", rep.RowsUsed,
		"pairs", len(rep.Pairs),
		"issues", rep.Issues(),
	)
	c.JSON(http.StatusOK, resp)
}

// listRuns handles GET /api/runs.
func (s *Server) listRuns(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, CodeInvalidLimit, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	c.JSON(http.StatusOK, RunsResponse{Runs: runs})
}

// getRun handles GET /api/runs/:id.
func (s *Server) getRun(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	run, err := s.store.ReadRun(c.Request.Context(), c.Param("id"))
	if store.IsNotFound(err) {
		abortWithError(c, http.StatusNotFound, CodeRunNotFound, err.Error())
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.store == nil {
		abortWithError(c, http.StatusNotFound, CodeStoreDisabled, "run history is disabled; configure store.path or --db")
		return false
	}
	return true
}
