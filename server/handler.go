package server

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/date"
)

type buildRequest struct {
	Capital float64                `json:"capital" binding:"required,gt=0"`
	Weights attribution.Allocation `json:"weights" binding:"required,min=1"`
	From    date.Date              `json:"from"`
	To      date.Date              `json:"to"` // today when omitted
}

// build values a portfolio.
func (s *Server) build(c *gin.Context) {
	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, badRequest{err})
		return
	}
	if req.From.IsZero() {
		failWith(c, badRequest{errors.New("from is required")})
		return
	}
	window := date.Range{From: req.From, To: req.To}
	if window.To.IsZero() {
		window.To = s.today()
	}
	rows, err := attribution.Build(c.Request.Context(), req.Capital, req.Weights, window, s.src)
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, rows)
}

type returnsRequest struct {
	Valuation []attribution.ValuationRow `json:"valuation" binding:"required,min=1"`
	Groups    attribution.GroupMap       `json:"groups" binding:"required,min=1"`
}

// returns computes the group returns of a valuation.
func (s *Server) returns(c *gin.Context) {
	var req returnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, badRequest{err})
		return
	}
	rows, err := groupReturns(req.Valuation, req.Groups)
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, rows)
}

func groupReturns(valuation []attribution.ValuationRow, groups attribution.GroupMap) ([]attribution.GroupReturnRow, error) {
	alloc, err := attribution.Aggregate(valuation, groups)
	if err != nil {
		return nil, err
	}
	return attribution.Extract(alloc)
}

type attributionRequest struct {
	Portfolio       []attribution.ValuationRow `json:"portfolio" binding:"required,min=1"`
	PortfolioGroups attribution.GroupMap       `json:"portfolio_groups" binding:"required,min=1"`
	Index           []attribution.ValuationRow `json:"index" binding:"required,min=1"`
	IndexGroups     attribution.GroupMap       `json:"index_groups" binding:"required,min=1"`
}

// attribute attributes a portfolio valuation against an index one, over the
// whole window or month by month when ?monthly=true.
func (s *Server) attribute(c *gin.Context) {
	var req attributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, badRequest{err})
		return
	}
	monthly := false
	if q := c.Query("monthly"); q != "" {
		var err error
		if monthly, err = strconv.ParseBool(q); err != nil {
			failWith(c, badRequest{err})
			return
		}
	}

	port, err := attribution.Aggregate(req.Portfolio, req.PortfolioGroups)
	if err != nil {
		failWith(c, err)
		return
	}
	idx, err := attribution.Aggregate(req.Index, req.IndexGroups)
	if err != nil {
		failWith(c, err)
		return
	}

	if monthly {
		res, err := attribution.AttributeMonthly(port, idx)
		if err != nil {
			failWith(c, err)
			return
		}
		ok(c, res)
		return
	}

	pr, err := attribution.Extract(port)
	if err != nil {
		failWith(c, err)
		return
	}
	ir, err := attribution.Extract(idx)
	if err != nil {
		failWith(c, err)
		return
	}
	res, err := attribution.Attribute(pr, ir)
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, res)
}

type linkRequest struct {
	Portfolio [][]attribution.GroupReturnRow `json:"portfolio" binding:"required,min=1"`
	Index     [][]attribution.GroupReturnRow `json:"index" binding:"required,min=1"`
}

// link attributes the geometric link of per-period returns.
func (s *Server) link(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWith(c, badRequest{err})
		return
	}
	res, err := attribution.AttributeLinked(req.Portfolio, req.Index)
	if err != nil {
		failWith(c, err)
		return
	}
	ok(c, res)
}

func (s *Server) health(c *gin.Context) {
	ok(c, gin.H{"status": "ok"})
}
