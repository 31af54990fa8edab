package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MMN3003/metaswap/src/logger"
	swapdomain "github.com/MMN3003/metaswap/src/swap/domain"
	tokendomain "github.com/MMN3003/metaswap/src/token/domain"
)

// Handler binds usecases + logger
type Handler struct {
	service swapdomain.SwapUsecase
	tokens  tokendomain.TokenUseCase
	logger  *logger.Logger
}

func NewHandler(s swapdomain.SwapUsecase, t tokendomain.TokenUseCase, l *logger.Logger) *Handler {
	return &Handler{service: s, tokens: t, logger: l}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.Use(h.agentContext())
	{
		v1.POST("/quote", h.Quote)
		v1.POST("/swap", h.Swap)
		v1.POST("/swap/:provider", h.SwapWithProvider)
		v1.GET("/providers", h.ListProviders)
		v1.GET("/tokens/search", h.SearchTokens)
		v1.GET("/swaps", h.ListSwaps)
	}
}

// agentContext logs the caller identification headers agents attach.
func (h *Handler) agentContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID := c.GetHeader("x-superior-agent-id")
		sessionID := c.GetHeader("x-superior-session-id")
		if agentID != "" || sessionID != "" {
			h.logger.Infof("agent request: agent=%s session=%s path=%s", agentID, sessionID, c.FullPath())
		}
		c.Next()
	}
}

// Quote godoc
//
//	@Summary		Get the best quote
//	@Description	Aggregate quotes from all active providers and return the best one
//	@Tags			swap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SwapRequestBody	true	"Request body"
//	@Success		200	{object}	Envelope{data=QuoteResponseBody}
//	@Failure		400	{object}	Envelope
//	@Failure		422	{object}	Envelope
//	@Failure		500	{object}	Envelope
//	@Router			/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := h.bindSwapRequest(c)
	if !ok {
		return
	}

	quote, err := h.service.Quote(ctx, req)
	if err != nil {
		h.fail(c, "Quote", err)
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: quoteResponseFromDomain(quote)})
}

// Swap godoc
//
//	@Summary		Execute a swap via the best provider
//	@Description	Pick the best quote, then approve, build, sign, submit and confirm on chain
//	@Tags			swap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SwapRequestBody	true	"Request body"
//	@Success		200	{object}	Envelope{data=SwapResponseBody}
//	@Failure		400	{object}	Envelope
//	@Failure		422	{object}	Envelope
//	@Failure		502	{object}	Envelope
//	@Router			/swap [post]
func (h *Handler) Swap(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := h.bindSwapRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Swap(ctx, req)
	if err != nil {
		h.fail(c, "Swap", err)
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: swapResponseFromDomain(result)})
}

// SwapWithProvider godoc
//
//	@Summary		Execute a swap via a named provider
//	@Description	Skip aggregation and execute through the given provider
//	@Tags			swap
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string			true	"Provider name"
//	@Param			request		body		SwapRequestBody	true	"Request body"
//	@Success		200	{object}	Envelope{data=SwapResponseBody}
//	@Failure		400	{object}	Envelope
//	@Failure		404	{object}	Envelope
//	@Failure		502	{object}	Envelope
//	@Router			/swap/{provider} [post]
func (h *Handler) SwapWithProvider(c *gin.Context) {
	ctx := c.Request.Context()

	req, ok := h.bindSwapRequest(c)
	if !ok {
		return
	}

	result, err := h.service.SwapWithProvider(ctx, c.Param("provider"), req)
	if err != nil {
		h.fail(c, "SwapWithProvider", err)
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: swapResponseFromDomain(result)})
}

// ListProviders godoc
//
//	@Summary		List active providers
//	@Description	Providers that passed their availability probe, in registration order
//	@Tags			swap
//	@Produce		json
//	@Success		200	{object}	Envelope{data=[]ProviderDto}
//	@Router			/providers [get]
func (h *Handler) ListProviders(c *gin.Context) {
	infos := h.service.ListActiveProviders(c.Request.Context())
	c.JSON(http.StatusOK, Envelope{Success: true, Data: providersFromDomain(infos)})
}

// SearchTokens godoc
//
//	@Summary		Search tokens
//	@Description	Free-text token search, filtered to liquid pairs
//	@Tags			token
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	Envelope{data=[]TokenDto}
//	@Failure		400	{object}	Envelope
//	@Failure		500	{object}	Envelope
//	@Router			/tokens/search [get]
func (h *Handler) SearchTokens(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: "query parameter q is required"})
		return
	}

	tokens, err := h.tokens.Search(c.Request.Context(), q)
	if err != nil {
		h.logger.Errorf("SearchTokens err: %v", err)
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: tokensFromDomain(tokens)})
}

// ListSwaps godoc
//
//	@Summary		List recent executions
//	@Description	Most recent swap executions, newest first
//	@Tags			swap
//	@Produce		json
//	@Param			limit	query		int	false	"Max rows (default 20, cap 100)"
//	@Success		200	{object}	Envelope{data=[]ExecutionDto}
//	@Failure		500	{object}	Envelope
//	@Router			/swaps [get]
func (h *Handler) ListSwaps(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.service.ListRecentExecutions(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("ListSwaps err: %v", err)
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, Envelope{Success: true, Data: executionsFromDomain(records)})
}

func (h *Handler) bindSwapRequest(c *gin.Context) (swapdomain.SwapRequest, bool) {
	var body SwapRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: "invalid request body"})
		return swapdomain.SwapRequest{}, false
	}

	req, err := body.toDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: "invalid slippage"})
		return swapdomain.SwapRequest{}, false
	}
	return req, true
}

// fail maps domain errors onto HTTP statuses and logs the cause.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logger.Errorf("%s err: %v", op, err)

	var (
		noQuote     *swapdomain.NoValidQuoteError
		badProvider *swapdomain.UnsupportedProviderError
		execErr     *swapdomain.ExecutionError
	)

	switch {
	case errors.Is(err, swapdomain.ErrInvalidAmount),
		errors.Is(err, swapdomain.ErrInvalidSlippage),
		errors.Is(err, swapdomain.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: err.Error()})
	case errors.As(err, &badProvider):
		c.JSON(http.StatusNotFound, Envelope{Success: false, Message: err.Error()})
	case errors.As(err, &noQuote):
		c.JSON(http.StatusUnprocessableEntity, Envelope{Success: false, Message: err.Error()})
	case errors.As(err, &execErr):
		c.JSON(http.StatusBadGateway, Envelope{Success: false, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: "internal server error"})
	}
}
