package server

import (
	"context"
	"fmt"
	"net/http"

	"skinvault/internal/domain/entity"
	"skinvault/internal/domain/service/trade"
	"skinvault/pkg/httpx/reply"
	"skinvault/pkg/httpx/req"
	"skinvault/pkg/rest"
)

type tradeEvaluator interface {
	Evaluate(ctx context.Context, your, their []entity.TradeItem) (trade.Result, error)
}

type TradeServer struct {
	evaluator tradeEvaluator
}

func NewTradeServer(evaluator tradeEvaluator) TradeServer {
	return TradeServer{
		evaluator: evaluator,
	}
}

func (s TradeServer) postV1TradeEvaluate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TradeEvaluateRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	result, err := s.evaluator.Evaluate(ctx, newDomainTradeItems(request.YourItems), newDomainTradeItems(request.TheirItems))
	if err != nil {
		return fmt.Errorf("evaluator.Evaluate: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTradeEvaluation(result))

	return nil
}
