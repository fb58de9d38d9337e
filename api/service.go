package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/calehh/charity-dao/dao"
	"github.com/calehh/charity-dao/journal"
	"github.com/calehh/charity-dao/types"
	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrPageOutOfRange = errors.New("page out of range")

// Service serves read-only views of the contract and the local journal.
type Service struct {
	engine     *gin.Engine
	dao        *dao.DAO
	sess       *dao.Session
	journal    *journal.Journal
	listenAddr string
}

// NewService registers the handlers. journal may be nil, in which case
// /getTransactions reports the journal as disabled.
func NewService(listenAddr string, d *dao.DAO, sess *dao.Session, j *journal.Journal) *Service {
	r := gin.Default()
	s := &Service{
		engine:     r,
		dao:        d,
		sess:       sess,
		journal:    j,
		listenAddr: listenAddr,
	}
	s.engine.POST("/getProposals", s.handleGetProposals)
	s.engine.POST("/getMembers", s.handleGetMembers)
	s.engine.POST("/getPower", s.handleGetPower)
	s.engine.POST("/getTransactions", s.handleGetTransactions)
	return s
}

func (s *Service) Start() error {
	return s.engine.Run(s.listenAddr)
}

func (s *Service) Handler() http.Handler {
	return s.engine
}

// pageBounds normalizes a requested page. page*pageSize never overflows int
// for the values it returns.
func pageBounds(page int, pageSize int) (int, int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 0 {
		page = 0
	}
	if page > math.MaxInt/pageSize {
		return 0, 0, ErrPageOutOfRange
	}
	return page, pageSize, nil
}

// page expects bounds already checked by pageBounds.
func page[T any](items []T, page int, pageSize int) []T {
	start := page * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type GetProposalsReq struct {
	ProposalId *uint64 `json:"proposalId"`
	Status     string  `json:"status"`
	Proposer   string  `json:"proposer"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
}

type GetProposalsResponse struct {
	Proposals []types.ProposalEntry `json:"proposals"`
	Total     uint64                `json:"total"`
}

func (s *Service) handleGetProposals(c *gin.Context) {
	var response GetProposalsResponse
	response.Proposals = make([]types.ProposalEntry, 0)
	var requestData GetProposalsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pageNum, pageSize, err := pageBounds(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var (
		status    types.ProposalStatus
		hasStatus bool
	)
	if requestData.Status != "" && requestData.Status != "All" {
		status, err = types.ParseProposalStatus(requestData.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hasStatus = true
	}

	proposals, err := s.dao.ListAllProposals(c.Request.Context(), s.sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	matched := make([]types.ProposalEntry, 0, len(proposals))
	for _, p := range proposals {
		if requestData.ProposalId != nil && p.Id != *requestData.ProposalId {
			continue
		}
		if hasStatus && p.Proposal.Status != status {
			continue
		}
		if requestData.Proposer != "" && p.Proposal.Proposer != requestData.Proposer {
			continue
		}
		matched = append(matched, p)
	}
	response.Total = uint64(len(matched))
	response.Proposals = append(response.Proposals, page(matched, pageNum, pageSize)...)
	c.JSON(http.StatusOK, response)
}

type GetMembersReq struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type GetMembersResponse struct {
	Members []types.Member `json:"members"`
	Total   uint64         `json:"total"`
}

func (s *Service) handleGetMembers(c *gin.Context) {
	var response GetMembersResponse
	response.Members = make([]types.Member, 0)
	var requestData GetMembersReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pageNum, pageSize, err := pageBounds(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	members, err := s.dao.ListAllMembers(c.Request.Context(), s.sess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Total = uint64(len(members))
	response.Members = append(response.Members, page(members, pageNum, pageSize)...)
	c.JSON(http.StatusOK, response)
}

type GetPowerReq struct {
	Address string `json:"address"`
}

type GetPowerResponse struct {
	Address string `json:"address"`
	Power   uint64 `json:"power"`
	Found   bool   `json:"found"`
}

func (s *Service) handleGetPower(c *gin.Context) {
	var requestData GetPowerReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.Address == "" {
		requestData.Address = s.sess.Account
	}
	power, found, err := s.dao.GetPower(c.Request.Context(), s.sess, requestData.Address)
	if err != nil {
		if errors.Is(err, types.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GetPowerResponse{
		Address: requestData.Address,
		Power:   power,
		Found:   found,
	})
}

type GetTransactionsReq struct {
	Sender   string `json:"sender"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetTransactionsResponse struct {
	Transactions []journal.TxRecord `json:"transactions"`
	Total        uint64             `json:"total"`
}

func (s *Service) handleGetTransactions(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal disabled"})
		return
	}
	var response GetTransactionsResponse
	response.Transactions = make([]journal.TxRecord, 0)
	var requestData GetTransactionsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pageNum, pageSize, err := pageBounds(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, total, err := s.journal.List(requestData.Sender, pageNum, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Total = total
	response.Transactions = append(response.Transactions, records...)
	c.JSON(http.StatusOK, response)
}
