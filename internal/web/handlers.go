package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/glucoguard/internal/risk"
)

const fieldThreshold = "threshold"

type scoreRequest struct {
	Record    map[string]any `json:"record" binding:"required"`
	Threshold *float64       `json:"threshold"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html.tmpl", s.newPage(risk.DefaultRecord(), s.scorer.DefaultThreshold()))
}

// submit scores the posted form and re-renders it with the outcome. The form
// keeps the submitted values either way.
func (s *Server) submit(c *gin.Context) {
	raw := make(map[string]string)
	for _, f := range risk.Fields() {
		raw[f.Name] = c.PostForm(f.Name)
	}

	threshold := s.scorer.DefaultThreshold()
	page := s.newPage(risk.DefaultRecord(), threshold)

	if t, ok := c.GetPostForm(fieldThreshold); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			page.setError(&risk.ErrInvalidInput{Field: fieldThreshold, Reason: "not a number"})
			c.HTML(http.StatusBadRequest, "index.html.tmpl", page)
			return
		}
		threshold = v
		page.Threshold = v
	}

	rec, err := risk.ParseRecord(raw)
	if err != nil {
		page.setError(err)
		c.HTML(http.StatusBadRequest, "index.html.tmpl", page)
		return
	}
	page.fill(rec)

	res, err := s.scorer.Score(rec, threshold)
	if err != nil {
		page.setError(err)
		c.HTML(statusFor(err), "index.html.tmpl", page)
		return
	}
	page.Result = newResultView(res)
	c.HTML(http.StatusOK, "index.html.tmpl", page)
}

func (s *Server) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	threshold := s.scorer.Bundle().Threshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	rec, err := risk.Coerce(req.Record)
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(err))
		return
	}

	res, err := s.scorer.Score(rec, threshold)
	if err != nil {
		c.JSON(statusFor(err), newErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) bundleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.scorer.Bundle().Metadata())
}

func newErrorResponse(err error) errorResponse {
	resp := errorResponse{Error: err.Error()}

	var invalid *risk.ErrInvalidInput
	var outOfRange *risk.ErrOutOfRange
	switch {
	case errors.As(err, &invalid):
		resp.Field = invalid.Field
	case errors.As(err, &outOfRange):
		resp.Field = outOfRange.Name
	}
	return resp
}

func statusFor(err error) int {
	var classifierErr *risk.ErrClassifier
	if errors.As(err, &classifierErr) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
