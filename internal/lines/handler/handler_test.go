package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"hotpicks/internal/lines"
	"hotpicks/internal/lines/metrics"
	"hotpicks/internal/notify"
)

type recordingMailer struct {
	recipient string
	sent      []lines.Line
	err       error
}

func (m *recordingMailer) SendLines(_ context.Context, recipient string, batch []lines.Line) error {
	m.recipient = recipient
	m.sent = batch
	return m.err
}

type failingGenerator struct{ err error }

func (g failingGenerator) GenerateLines(int) ([]lines.Line, error) { return nil, g.err }

// allowAll stands in for the subscriber guard.
func allowAll(next http.Handler) http.Handler { return next }

type HandlerSuite struct {
	suite.Suite
	mailer  *recordingMailer
	metrics *metrics.Metrics
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.mailer = &recordingMailer{}
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.router = s.newRouter(WithPremiumGuard(allowAll))
}

func (s *HandlerSuite) newRouter(opts ...Option) chi.Router {
	gen := lines.NewGenerator(lines.DefaultPool(), lines.WithSource(rand.New(rand.NewPCG(7, 11))))
	opts = append([]Option{
		WithMailer(s.mailer, nil),
		WithMetrics(s.metrics),
		WithMaxLines(10),
	}, opts...)
	h := New(gen, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func (s *HandlerSuite) post(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *HandlerSuite) decodeLines(rr *httptest.ResponseRecorder) LinesResponse {
	var resp LinesResponse
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestPreview() {
	s.Run("returns five valid lines without email", func() {
		rr := s.post("/lines/preview", `{}`)

		s.Equal(http.StatusOK, rr.Code)
		resp := s.decodeLines(rr)
		s.Len(resp.Lines, lines.DefaultBatchSize)
		s.Nil(resp.Email)
		for _, line := range resp.Lines {
			s.Len(line.Main, 5)
			s.Len(line.Bonus, 2)
			s.NotContains(line.Main, 22)
			s.NotContains(line.Bonus, 6)
		}
		s.Equal(5.0, testutil.ToFloat64(s.metrics.LinesGenerated.WithLabelValues(metrics.TierPreview)))
	})

	s.Run("empty body is accepted", func() {
		rr := s.post("/lines/preview", ``)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("emails the same lines it returns", func() {
		rr := s.post("/lines/preview", `{"email":" Ada@Example.com "}`)

		s.Equal(http.StatusOK, rr.Code)
		resp := s.decodeLines(rr)
		s.Require().NotNil(resp.Email)
		s.True(resp.Email.Sent)
		s.Equal("ada@example.com", s.mailer.recipient)
		s.Equal(resp.Lines, s.mailer.sent)
	})

	s.Run("delivery failure is reported, not fatal", func() {
		s.mailer.err = errors.New("smtp timeout")
		defer func() { s.mailer.err = nil }()

		rr := s.post("/lines/preview", `{"email":"ada@example.com"}`)

		s.Equal(http.StatusOK, rr.Code)
		resp := s.decodeLines(rr)
		s.Len(resp.Lines, 5)
		s.Require().NotNil(resp.Email)
		s.False(resp.Email.Sent)
		s.Equal("smtp timeout", resp.Email.Reason)
	})

	s.Run("invalid email is a validation error", func() {
		rr := s.post("/lines/preview", `{"email":"nope"}`)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Contains(rr.Body.String(), `"error":"validation_error"`)
	})

	s.Run("malformed JSON is a bad request", func() {
		rr := s.post("/lines/preview", `{"email":`)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Contains(rr.Body.String(), `"error":"bad_request"`)
	})
}

func (s *HandlerSuite) TestGenerate() {
	s.Run("defaults to five lines", func() {
		rr := s.post("/lines", `{}`)
		s.Equal(http.StatusOK, rr.Code)
		s.Len(s.decodeLines(rr).Lines, 5)
	})

	s.Run("honours count up to the maximum", func() {
		rr := s.post("/lines", `{"count":10}`)
		s.Equal(http.StatusOK, rr.Code)
		s.Len(s.decodeLines(rr).Lines, 10)
	})

	s.Run("rejects count above the maximum", func() {
		rr := s.post("/lines", `{"count":11}`)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Contains(rr.Body.String(), "between 1 and 10")
	})

	s.Run("rejects non-positive count", func() {
		rr := s.post("/lines", `{"count":0}`)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("without a guard the route is unavailable", func() {
		s.router = s.newRouter()
		defer func() { s.router = s.newRouter(WithPremiumGuard(allowAll)) }()

		rr := s.post("/lines", `{}`)
		s.Equal(http.StatusServiceUnavailable, rr.Code)
	})

	s.Run("guard rejection stops the request", func() {
		deny := func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		}
		s.router = s.newRouter(WithPremiumGuard(deny))
		defer func() { s.router = s.newRouter(WithPremiumGuard(allowAll)) }()

		rr := s.post("/lines", `{}`)
		s.Equal(http.StatusUnauthorized, rr.Code)
	})
}

func (s *HandlerSuite) TestGenerationFailureIsInternal() {
	h := New(failingGenerator{err: lines.ErrPoolExhausted}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodPost, "/lines/preview", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	s.Equal(http.StatusInternalServerError, rr.Code)
	s.NotContains(rr.Body.String(), "error_description")
}

func (s *HandlerSuite) TestExport() {
	s.Run("returns csv attachment", func() {
		rr := s.post("/lines/export", `{"lines":[{"main":[17,19,20,23,27],"bonus":[2,3]}]}`)

		s.Equal(http.StatusOK, rr.Code)
		s.Equal("text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		s.Equal(`attachment; filename="euromillions_preview.csv"`, rr.Header().Get("Content-Disposition"))
		s.Equal("Line,Main Balls,Lucky Stars\n1,\"17, 19, 20, 23, 27\",\"2, 3\"\n", rr.Body.String())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Exports.WithLabelValues("preview")))
	})

	s.Run("no lines is a validation error", func() {
		rr := s.post("/lines/export", `{"lines":[]}`)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestCompare() {
	body := `{
		"lines": [
			{"main":[17,19,20,23,27],"bonus":[2,3]},
			{"main":[35,38,40,44,50],"bonus":[9,10]}
		],
		"main": "17, 20, x, 40, 50, 50",
		"bonus": " 3 , 9"
	}`

	s.Run("returns reports in input order", func() {
		rr := s.post("/results/compare", body)

		s.Equal(http.StatusOK, rr.Code)
		var resp CompareResponse
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Equal([]int{17, 20, 40, 50}, resp.Draw.Main)
		s.Equal([]int{3, 9}, resp.Draw.Bonus)
		s.Require().Len(resp.Reports, 2)
		s.Equal(1, resp.Reports[0].Position)
		s.Equal(2, resp.Reports[0].MainMatches)
		s.Equal(1, resp.Reports[0].BonusMatches)
		s.Equal(2, resp.Reports[1].MainMatches)
		s.Equal(1, resp.Reports[1].BonusMatches)
	})

	s.Run("csv format returns report attachment", func() {
		rr := s.post("/results/compare?format=csv", body)

		s.Equal(http.StatusOK, rr.Code)
		s.Equal(`attachment; filename="euromillions_results.csv"`, rr.Header().Get("Content-Disposition"))
		s.True(strings.HasPrefix(rr.Body.String(), "Line,Main Balls,Lucky Stars,Main Matches,Star Matches\n"))
		s.Contains(rr.Body.String(), "1,\"17, 19, 20, 23, 27\",\"2, 3\",2,1\n")
	})

	s.Run("empty draw scores zero", func() {
		rr := s.post("/results/compare", `{"lines":[{"main":[1,2,3,4,5],"bonus":[1,2]}],"main":"","bonus":""}`)

		s.Equal(http.StatusOK, rr.Code)
		var resp CompareResponse
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
		s.Equal(0, resp.Reports[0].MainMatches)
		s.Equal(0, resp.Reports[0].BonusMatches)
	})
}

var _ notify.Mailer = (*recordingMailer)(nil)
