package controllers

import (
	"context"
	"encoding/json"
	"fmt"

	"fiesta/fiesta/services/llm"
	"fiesta/fiesta/types"
	"fiesta/fiesta/utils/jsonutils"
	"fiesta/fiesta/utils/logging"

	"go.uber.org/zap"
)

type BusinessController struct {
	llm llm.Client
}

func NewBusinessController(client llm.Client) *BusinessController {
	return &BusinessController{llm: client}
}

const quoteModel = "gpt-4.1"

// GenerateQuote drafts a Danish event quote for a catering request. The model
// replies with a JSON object; if parsing fails we still return the raw text so
// the caller has something to work with.
func (c *BusinessController) GenerateQuote(ctx context.Context, req types.QuoteRequest) (*types.Quote, string, error) {
	prompt := fmt.Sprintf(
		"Lav et tilbud på dansk for følgende event: %s. Antal gæster: %d. "+
			"Svar som JSON med felterne subject, body og price_estimate.",
		req.EventDescription, req.Guests,
	)
	resp, err := c.llm.Run(ctx, llm.ChatRequest{
		Model: quoteModel,
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, "", err
	}

	raw := jsonutils.ExtractJSON(resp)
	var quote types.Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		logging.ErrorLogger.Error("quote response was not valid JSON", zap.Error(err))
		return nil, resp, nil
	}
	return &quote, resp, nil
}
