package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	sortable "github.com/domonda/go-sortable"
	"github.com/domonda/go-sortable/colspec"
	"github.com/domonda/go-sortable/htmltable"
)

// SortParam is the query parameter holding the sort state
const SortParam = htmltable.DefaultSortParam

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  table.sortable-table { border-collapse: collapse; }
  table.sortable-table th, table.sortable-table td { border: 1px solid #ccc; padding: 4px 8px; }
  th.sortable a { color: inherit; text-decoration: none; }
  th.sort-asc a::after { content: " \25B2"; }
  th.sort-desc a::after { content: " \25BC"; }
</style>
</head>
<body>
{{.Table}}
<p>{{range $i, $e := .Exports}}{{if $i}} | {{end}}<a href="{{$e.Href}}">{{$e.Name}}</a>{{end}}</p>
</body>
</html>
`))

type pageExport struct {
	Name string
	Href string
}

type pageContext struct {
	Title   string
	Table   template.HTML
	Exports []pageExport
}

var exportContentTypes = map[string]string{
	"csv":      "text/csv; charset=utf-8",
	"text":     "text/plain; charset=utf-8",
	"markdown": "text/markdown; charset=utf-8",
	"xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var exportExtensions = map[string]string{
	"csv":      "csv",
	"text":     "txt",
	"markdown": "md",
	"xlsx":     "xlsx",
}

// Server serves the records as HTML table
// that is sorted by clicking on its header cells.
//
// The sort state is only kept in the URL,
// every request renders a new table.
type Server struct {
	spec    *colspec.Spec
	records []colspec.Record
	logger  *slog.Logger
}

// NewServer returns a Server for records with the columns of spec.
func NewServer(spec *colspec.Spec, records []colspec.Record, logger *slog.Logger) *Server {
	return &Server{spec: spec, records: records, logger: logger}
}

// Handler returns the routes of the server:
//
//	GET /                 HTML page with the table
//	GET /export/{format}  table as csv, text, markdown, or xlsx download
//
// Both take the sort state as query parameter like ?sort=2:desc
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/export/{format}", s.handleExport)
	return r
}

// Serve listens on addr until ctx is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	s.logger.Info("serving table", slog.String("addr", "http://"+addr))

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// table returns a new table sorted by the sort query parameter
// or the sort state of the spec if there is none.
func (s *Server) table(r *http.Request) (*sortable.Table[colspec.Record], error) {
	table, err := NewTable(s.spec, s.records, s.logger)
	if err != nil {
		return nil, err
	}
	if query := r.URL.Query(); query.Has(SortParam) {
		state, err := sortable.ParseSortState(query.Get(SortParam))
		if err != nil {
			return nil, err
		}
		table.SetSortState(state)
	}
	return table, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	table, err := s.table(r)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	var buf bytes.Buffer
	writer := htmltable.NewWriter().
		WithTableClass("sortable-table").
		WithSortLink(htmltable.QuerySortLink(SortParam))
	err = htmltable.WriteTable(r.Context(), writer, &buf, table, s.spec.Caption)
	if err != nil {
		s.httpError(w, r, err)
		return
	}

	page := pageContext{Title: s.spec.Caption, Table: template.HTML(buf.String())}
	if page.Title == "" {
		page.Title = "Table"
	}
	for _, format := range []string{"csv", "xlsx", "markdown", "text"} {
		href := "export/" + format
		if state := table.SortState(); state.IsActive() {
			href += "?" + url.Values{SortParam: {state.String()}}.Encode()
		}
		page.Exports = append(page.Exports, pageExport{Name: format, Href: href})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page); err != nil {
		s.logger.Error("writing page", slog.Any("error", err))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, ok := exportContentTypes[format]
	if !ok {
		http.NotFound(w, r)
		return
	}
	table, err := s.table(r)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := RenderTable(r.Context(), &buf, format, table, s.spec.Caption); err != nil {
		s.httpError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="table.`+exportExtensions[format]+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("writing export", slog.String("format", format), slog.Any("error", err))
	}
}

// httpError responds with 400 Bad Request for invalid sort states
// and 500 Internal Server Error for everything else.
func (s *Server) httpError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, sortable.ErrInvalidSortState) || errors.Is(err, sortable.ErrInvalidSortColumn) {
		s.logger.Debug("invalid sort state", slog.String("url", r.URL.String()), slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Error("rendering table", slog.String("url", r.URL.String()), slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
