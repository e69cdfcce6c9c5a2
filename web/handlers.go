package web

import (
	"errors"
	"net/http"

	"tradesim/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type tradeInput struct {
	Symbol string `json:"symbol" binding:"required"`
	Shares int64  `json:"shares" binding:"required"`
}

type depositInput struct {
	// Amount is a decimal string so values like "0.10" survive the wire
	// exactly
	Amount string `json:"amount" binding:"required"`
}

type passwordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func userID(c *gin.Context) int64 {
	return c.MustGet("user_id").(int64)
}

// tradeStatus maps a typed engine failure onto an HTTP status code
func tradeStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrUnknownSymbol),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInsufficientShares):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	quote, err := s.quotes.Lookup(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch quote"})
		return
	}
	if quote == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown stock symbol"})
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (s *Server) handleBuy(c *gin.Context) {
	var input tradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.trading.Buy(c.Request.Context(), userID(c), input.Symbol, input.Shares)
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSell(c *gin.Context) {
	var input tradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.trading.Sell(c.Request.Context(), userID(c), input.Symbol, input.Shares)
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDeposit(c *gin.Context) {
	var input depositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}

	newBalance, err := s.trading.Deposit(c.Request.Context(), userID(c), amount)
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"new_balance": newBalance})
}

func (s *Server) handlePortfolio(c *gin.Context) {
	summary, err := s.trading.PortfolioSummary(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":   summary.Entries,
		"cash":      summary.Cash,
		"net_worth": summary.NetWorth,
		"empty":     summary.Empty(),
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	entries, err := s.trading.History(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	// An empty history is a valid state, not an error
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"cash":     user.Cash,
		"joined":   user.CreatedAt,
	})
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var input passwordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.users.ChangePassword(c.Request.Context(), userID(c), input.OldPassword, input.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusForbidden, gin.H{"error": "old password is incorrect"})
			return
		}
		c.JSON(tradeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
