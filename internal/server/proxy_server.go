package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"

	"skinvault/internal/domain"
	"skinvault/internal/domain/service/trade"
	"skinvault/internal/infrastructure/pricing"
	"skinvault/pkg/errcodes"
	"skinvault/pkg/httpx/reply"
	"skinvault/pkg/httpx/req"
	"skinvault/pkg/logx"
	"skinvault/pkg/rest"
)

const (
	actionEvaluateTrade = "evaluateTrade"

	endpointMarketPrices = "get-market-prices"
	endpointSteamAPI     = "steam-api"
)

type priceSource interface {
	Item(ctx context.Context, appID int, marketName string) ([]byte, error)
	MarketPrice(ctx context.Context, marketName string) (decimal.Decimal, error)
}

// ProxyServer serves the browser-facing price functions. Their errors use the
// {error} envelope instead of the API error model.
type ProxyServer struct {
	prices priceSource
}

func NewProxyServer(prices priceSource) ProxyServer {
	return ProxyServer{
		prices: prices,
	}
}

func (s ProxyServer) postMarketPrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request rest.MarketPriceRequest

	err := req.Read(r, &request)
	if err == nil {
		err = requireMarketName(request.MarketName)
	}

	if err != nil {
		observeProxy(endpointMarketPrices, err)
		proxyError(ctx, w, err)

		return
	}

	price, err := s.prices.MarketPrice(ctx, strings.TrimSpace(request.MarketName))
	observeProxy(endpointMarketPrices, err)

	if err != nil {
		proxyError(ctx, w, fmt.Errorf("prices.MarketPrice: %w", err))
		return
	}

	reply.JSON(ctx, w, http.StatusOK, rest.MarketPriceResponse{Price: price.String()})
}

// postSteamAPI passes the upstream item JSON through verbatim, or evaluates a
// trade when the action asks for it.
func (s ProxyServer) postSteamAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request rest.SteamAPIRequest

	if err := req.Read(r, &request); err != nil {
		observeProxy(endpointSteamAPI, err)
		proxyError(ctx, w, err)

		return
	}

	if request.Action == actionEvaluateTrade {
		your, their := newDomainTradeItems(request.YourItems), newDomainTradeItems(request.TheirItems)

		err := trade.ValidateItems(your, their)
		observeProxy(endpointSteamAPI, err)

		if err != nil {
			proxyError(ctx, w, err)
			return
		}

		evaluation := pricing.EvaluateTrade(your, their)

		reply.JSON(ctx, w, http.StatusOK, rest.TradeEvaluationResponse{Evaluation: evaluation})

		return
	}

	if err := requireMarketName(request.MarketHashName); err != nil {
		observeProxy(endpointSteamAPI, err)
		proxyError(ctx, w, err)

		return
	}

	body, err := s.prices.Item(ctx, request.AppID, strings.TrimSpace(request.MarketHashName))
	observeProxy(endpointSteamAPI, err)

	if err != nil {
		proxyError(ctx, w, fmt.Errorf("prices.Item: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(body); err != nil {
		logger(ctx).Error("w.Write", logx.Error(err))
	}
}

func requireMarketName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validation(errcodes.InvalidMarketName, "market name is required")
	}

	return nil
}

func proxyError(ctx context.Context, w http.ResponseWriter, err error) {
	logger(ctx).Error("proxy error", logx.Error(err))

	status := http.StatusInternalServerError
	message := "internal error"

	var statusErr reply.StatusError

	switch {
	case errors.As(err, &statusErr):
		status = statusErr.StatusCode()
		message = statusErr.Description()
	case failure.IsInvalidArgumentError(err):
		status = http.StatusBadRequest
		message = failure.Description(err)
	}

	reply.JSON(ctx, w, status, rest.ProxyError{Error: message})
}
