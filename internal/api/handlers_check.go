package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/semtag"
	"github.com/tsawler/semtag/export"
	"github.com/tsawler/semtag/extract"
	"github.com/tsawler/semtag/format"
	"github.com/tsawler/semtag/model"
)

type tableSummary struct {
	ID      int `json:"id"`
	Root    int `json:"root"`
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

type statsResponse struct {
	RunID     string         `json:"run_id"`
	Nodes     int            `json:"nodes"`
	Changed   int            `json:"changed"`
	Headings  int            `json:"headings"`
	Captions  int            `json:"captions"`
	Lists     int            `json:"lists"`
	ListItems int            `json:"list_items"`
	Collapsed int            `json:"collapsed"`
	Types     map[string]int `json:"types"`
	Tables    []tableSummary `json:"tables"`
}

// handleCheck runs a check on the posted document. The body is a JSON
// content tree or a PDF file; the format query parameter selects the
// response: json (the re-typed tree, default), html, or stats.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("format")
	switch view {
	case "":
		view = "json"
	case "json", "html", "stats":
	default:
		jsonError(w, fmt.Sprintf("unknown response format %q", view), http.StatusBadRequest)
		return
	}

	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	checker := s.checker.WithLogger(s.log.With("request_id", middleware.GetReqID(r.Context())))

	var result *semtag.Result
	switch in := format.DetectFromMagic(data); in {
	case format.JSON:
		tree, err := model.DecodeTree(bytes.NewReader(data))
		if err != nil {
			jsonError(w, "invalid tree: "+err.Error(), http.StatusBadRequest)
			return
		}
		result, err = checker.Check(tree)
		if err != nil {
			s.checkError(w, err)
			return
		}
	case format.PDF:
		result, err = checker.CheckPDFReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			s.checkError(w, err)
			return
		}
	default:
		jsonError(w, "body must be a JSON tree or a PDF", http.StatusUnsupportedMediaType)
		return
	}

	w.Header().Set("X-Run-Id", result.RunID)

	switch view {
	case "html":
		w.Header().Set("Content-Type", format.HTML.ContentType())
		opts := export.HTMLOptions{Scores: r.URL.Query().Has("scores")}
		if err := export.WriteHTML(w, result.Tree, opts); err != nil {
			s.log.Error("write html", "error", err, "run_id", result.RunID)
		}
	case "stats":
		w.Header().Set("Content-Type", format.JSON.ContentType())
		_ = json.NewEncoder(w).Encode(statsOf(result))
	default:
		w.Header().Set("Content-Type", format.JSON.ContentType())
		if err := model.EncodeTree(w, result.Tree); err != nil {
			s.log.Error("write tree", "error", err, "run_id", result.RunID)
		}
	}
}

func (s *Server) checkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, semtag.ErrEmptyTree), errors.Is(err, extract.ErrNoContent):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		jsonError(w, "check failed: "+err.Error(), http.StatusBadRequest)
	}
}

func statsOf(result *semtag.Result) statsResponse {
	st := result.Stats
	resp := statsResponse{
		RunID:     result.RunID,
		Nodes:     result.Tree.Len(),
		Changed:   st.Changed,
		Headings:  st.Headings,
		Captions:  st.Captions,
		Lists:     st.Lists,
		ListItems: st.ListItems,
		Collapsed: st.Collapsed,
		Types:     make(map[string]int, len(st.Types)),
		Tables:    make([]tableSummary, 0, len(result.Tables)),
	}
	for t, n := range st.Types {
		name := t.String()
		if t == model.TypeNone {
			name = "none"
		}
		resp.Types[name] = n
	}
	for i, table := range result.Tables {
		resp.Tables = append(resp.Tables, tableSummary{
			ID:      table.ID,
			Root:    int(result.TableRoots[i]),
			Rows:    table.RowCount(),
			Columns: table.ColCount(),
		})
	}
	return resp
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
