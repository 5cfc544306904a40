package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Exchange string `query:"exchange" json:"exchange" default:"NYSE" validate:"oneof=NYSE NASDAQ AMEX LSE TSX"`
	Days     int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=30"`
}

type QuoteRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Exchange string `query:"exchange" json:"exchange" default:"NYSE" validate:"oneof=NYSE NASDAQ AMEX LSE TSX"`
}

type IndicatorsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	N      int    `query:"n" json:"n" default:"200" validate:"gte=30,lte=1000"`
}

type NewsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Days   int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=30"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type SentimentRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Days   int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=30"`
}

// TapeRequest selects a window of stored ticks. From and To are RFC3339;
// an empty window defaults to the last hour.
type TapeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=10000"`
}
