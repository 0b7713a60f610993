package houdiniswap

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Endpoint paths, relative to the base URL.
const (
	endpointTokens       = "/tokens"
	endpointDEXTokens    = "/dex/tokens"
	endpointQuote        = "/quote"
	endpointDEXQuote     = "/dex/quote"
	endpointExchange     = "/exchange"
	endpointDEXExchange  = "/dex/exchange"
	endpointDEXApprove   = "/dex/approve"
	endpointDEXConfirmTx = "/dex/confirmTx"
	endpointStatus       = "/status"
	endpointMinMax       = "/minMax"
	endpointVolume       = "/volume"
	endpointWeeklyVolume = "/weeklyVolume"
)

// DefaultPageSize is the DEX token page size when none is given.
const DefaultPageSize = 100

// CEXTokens lists tokens supported for CEX exchanges. Cacheable.
func (c *Client) CEXTokens(ctx context.Context) ([]Token, error) {
	value, err := c.execute(ctx, requestDescriptor{
		method:    http.MethodGet,
		path:      endpointTokens,
		cacheable: true,
	})
	if err != nil {
		return nil, err
	}
	list, err := value.ExpectList()
	if err != nil {
		return nil, err
	}
	tokens := make([]Token, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError("tokens response contains a non-mapping element")
		}
		token, err := TokenFromRecord(record)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// DEXTokensRequest selects one page of the DEX token listing.
type DEXTokensRequest struct {
	// Page is 1-based; zero selects the first page.
	Page int
	// PageSize defaults to DefaultPageSize when zero.
	PageSize int
	// Chain optionally filters by chain identifier.
	Chain string
}

// DEXTokens lists one page of DEX-tradable tokens. Cacheable.
func (c *Client) DEXTokens(ctx context.Context, req DEXTokensRequest) (DEXTokensPage, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = DefaultPageSize
	}
	if req.Page < 1 {
		return DEXTokensPage{}, newValidationError("page must be >= 1, got %d", req.Page)
	}
	if req.PageSize < 1 {
		return DEXTokensPage{}, newValidationError("page size must be >= 1, got %d", req.PageSize)
	}

	query := queryValues(
		"page", strconv.Itoa(req.Page),
		"pageSize", strconv.Itoa(req.PageSize),
		"chain", req.Chain,
	)
	value, err := c.execute(ctx, requestDescriptor{
		method:    http.MethodGet,
		path:      endpointDEXTokens,
		query:     query,
		cacheable: true,
	})
	if err != nil {
		return DEXTokensPage{}, err
	}
	record, err := value.ExpectMapping()
	if err != nil {
		return DEXTokensPage{}, err
	}

	rawTokens, _ := record["tokens"].([]any)
	tokens := make([]DEXToken, 0, len(rawTokens))
	for _, item := range rawTokens {
		tokenRecord, ok := item.(map[string]any)
		if !ok {
			return DEXTokensPage{}, newValidationError("dex tokens response contains a non-mapping element")
		}
		token, err := DEXTokenFromRecord(tokenRecord)
		if err != nil {
			return DEXTokensPage{}, err
		}
		tokens = append(tokens, token)
	}
	return DEXTokensPage{Count: recInt(record, "count"), Tokens: tokens}, nil
}

// CEXQuoteRequest parameterizes a CEX quote.
type CEXQuoteRequest struct {
	Amount    string
	FromToken string
	ToToken   string
	Anonymous bool
	// UseXMR is sent only when non-nil.
	UseXMR *bool
}

// CEXQuote fetches an exchange quote for a CEX token pair.
func (c *Client) CEXQuote(ctx context.Context, req CEXQuoteRequest) (Quote, error) {
	amount, err := validateAmount(req.Amount)
	if err != nil {
		return Quote{}, err
	}
	from, err := sanitizeInput("from token", req.FromToken)
	if err != nil {
		return Quote{}, err
	}
	to, err := sanitizeInput("to token", req.ToToken)
	if err != nil {
		return Quote{}, err
	}

	query := queryValues(
		"amount", amount,
		"from", from,
		"to", to,
		"anonymous", strconv.FormatBool(req.Anonymous),
	)
	if req.UseXMR != nil {
		query.Set("useXmr", strconv.FormatBool(*req.UseXMR))
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodGet,
		path:   endpointQuote,
		query:  query,
	})
	if err != nil {
		return Quote{}, err
	}
	record, err := value.ExpectMapping()
	if err != nil {
		return Quote{}, err
	}
	return QuoteFromRecord(record)
}

// DEXQuoteRequest parameterizes a DEX quote.
type DEXQuoteRequest struct {
	Amount      string
	TokenIDFrom string
	TokenIDTo   string
}

// DEXQuote fetches candidate routes for a DEX swap. The result may be
// empty when no route exists.
func (c *Client) DEXQuote(ctx context.Context, req DEXQuoteRequest) ([]DEXQuote, error) {
	amount, err := validateAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	from, err := sanitizeInput("token id from", req.TokenIDFrom)
	if err != nil {
		return nil, err
	}
	to, err := sanitizeInput("token id to", req.TokenIDTo)
	if err != nil {
		return nil, err
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodGet,
		path:   endpointDEXQuote,
		query: queryValues(
			"amount", amount,
			"tokenIdFrom", from,
			"tokenIdTo", to,
		),
	})
	if err != nil {
		return nil, err
	}
	list, err := value.ExpectList()
	if err != nil {
		return nil, err
	}
	quotes := make([]DEXQuote, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError("dex quote response contains a non-mapping element")
		}
		quote, err := DEXQuoteFromRecord(record)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// CEXExchangeRequest parameterizes a CEX exchange creation.
type CEXExchangeRequest struct {
	Amount      string
	FromToken   string
	ToToken     string
	AddressTo   string
	Anonymous   bool
	ReceiverTag string
	WalletID    string
	IP          string
	UserAgent   string
	Timezone    string
	UseXMR      *bool
}

// CEXExchange creates a CEX exchange transaction. This mutates remote
// state and is never cached or served from cache.
func (c *Client) CEXExchange(ctx context.Context, req CEXExchangeRequest) (Exchange, error) {
	amount, err := validateAmountValue(req.Amount)
	if err != nil {
		return Exchange{}, err
	}
	from, err := sanitizeInput("from token", req.FromToken)
	if err != nil {
		return Exchange{}, err
	}
	to, err := sanitizeInput("to token", req.ToToken)
	if err != nil {
		return Exchange{}, err
	}
	addressTo, err := sanitizeInput("destination address", req.AddressTo)
	if err != nil {
		return Exchange{}, err
	}

	body := map[string]any{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"addressTo": addressTo,
		"anonymous": req.Anonymous,
	}
	setOptional(body, "receiverTag", req.ReceiverTag)
	setOptional(body, "walletId", req.WalletID)
	setOptional(body, "ip", req.IP)
	setOptional(body, "userAgent", req.UserAgent)
	setOptional(body, "timezone", req.Timezone)
	if req.UseXMR != nil {
		body["useXmr"] = *req.UseXMR
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodPost,
		path:   endpointExchange,
		body:   body,
	})
	if err != nil {
		return Exchange{}, err
	}
	record, err := value.ExpectMapping()
	if err != nil {
		return Exchange{}, err
	}
	return ExchangeFromRecord(record)
}

// DEXExchangeRequest parameterizes a DEX exchange creation.
type DEXExchangeRequest struct {
	Amount      string
	TokenIDFrom string
	TokenIDTo   string
	AddressFrom string
	AddressTo   string
	Swap        string
	QuoteID     string
	// Route is the opaque routing payload from the chosen DEXQuote, sent
	// back verbatim.
	Route Route
}

// DEXExchange creates a DEX exchange transaction from a previously fetched
// quote.
func (c *Client) DEXExchange(ctx context.Context, req DEXExchangeRequest) (Exchange, error) {
	amount, err := validateAmountValue(req.Amount)
	if err != nil {
		return Exchange{}, err
	}
	if err := validateTokenID(req.TokenIDFrom, "token id from"); err != nil {
		return Exchange{}, err
	}
	if err := validateTokenID(req.TokenIDTo, "token id to"); err != nil {
		return Exchange{}, err
	}
	addressFrom, err := sanitizeInput("source address", req.AddressFrom)
	if err != nil {
		return Exchange{}, err
	}
	addressTo, err := sanitizeInput("destination address", req.AddressTo)
	if err != nil {
		return Exchange{}, err
	}
	swap, err := sanitizeInput("swap", req.Swap)
	if err != nil {
		return Exchange{}, err
	}
	quoteID, err := sanitizeInput("quote id", req.QuoteID)
	if err != nil {
		return Exchange{}, err
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodPost,
		path:   endpointDEXExchange,
		body: map[string]any{
			"amount":      amount,
			"tokenIdFrom": req.TokenIDFrom,
			"tokenIdTo":   req.TokenIDTo,
			"addressFrom": addressFrom,
			"addressTo":   addressTo,
			"swap":        swap,
			"quoteId":     quoteID,
			"route":       req.Route,
		},
	})
	if err != nil {
		return Exchange{}, err
	}
	record, err := value.ExpectMapping()
	if err != nil {
		return Exchange{}, err
	}
	return ExchangeFromRecord(record)
}

// DEXApproveRequest parameterizes a token approval preparation.
type DEXApproveRequest struct {
	TokenIDFrom string
	TokenIDTo   string
	AddressFrom string
	Amount      string
	Swap        string
	Route       Route
}

// DEXApprove prepares approval transactions for a DEX swap. An empty
// result means no approval is needed.
func (c *Client) DEXApprove(ctx context.Context, req DEXApproveRequest) ([]DEXApproval, error) {
	amount, err := validateAmountValue(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := validateTokenID(req.TokenIDFrom, "token id from"); err != nil {
		return nil, err
	}
	if err := validateTokenID(req.TokenIDTo, "token id to"); err != nil {
		return nil, err
	}
	addressFrom, err := sanitizeInput("source address", req.AddressFrom)
	if err != nil {
		return nil, err
	}
	swap, err := sanitizeInput("swap", req.Swap)
	if err != nil {
		return nil, err
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodPost,
		path:   endpointDEXApprove,
		body: map[string]any{
			"tokenIdFrom": req.TokenIDFrom,
			"tokenIdTo":   req.TokenIDTo,
			"addressFrom": addressFrom,
			"amount":      amount,
			"swap":        swap,
			"route":       req.Route,
		},
	})
	if err != nil {
		return nil, err
	}
	list, err := value.ExpectList()
	if err != nil {
		return nil, err
	}
	approvals := make([]DEXApproval, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError("dex approve response contains a non-mapping element")
		}
		approval, err := DEXApprovalFromRecord(record)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}
	return approvals, nil
}

// DEXConfirmTx reports a broadcast transaction hash back to the API. The
// endpoint answers with a bare boolean, sometimes wrapped in a mapping.
func (c *Client) DEXConfirmTx(ctx context.Context, transactionID, txHash string) (bool, error) {
	id, err := sanitizeInput("transaction id", transactionID)
	if err != nil {
		return false, err
	}
	if err := validateHex(txHash); err != nil {
		return false, err
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodPost,
		path:   endpointDEXConfirmTx,
		body: map[string]any{
			"id":     id,
			"txHash": txHash,
		},
	})
	if err != nil {
		return false, err
	}

	switch value.Kind {
	case ValueMapping:
		if raw, ok := value.Mapping["response"]; ok {
			if s, ok := raw.(string); ok {
				return strings.EqualFold(s, "true"), nil
			}
			if b, ok := raw.(bool); ok {
				return b, nil
			}
		}
		return len(value.Mapping) > 0, nil
	case ValueScalar:
		switch v := value.Scalar.(type) {
		case bool:
			return v, nil
		case string:
			return strings.EqualFold(strings.TrimSpace(v), "true"), nil
		}
		return false, nil
	default:
		return false, nil
	}
}

// TransactionStatus fetches the current status of an exchange. The houdini
// ID is injected into the result when the API omits it.
func (c *Client) TransactionStatus(ctx context.Context, houdiniID string) (Status, error) {
	if err := validateHoudiniID(houdiniID); err != nil {
		return Status{}, err
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodGet,
		path:   endpointStatus,
		query:  queryValues("id", houdiniID),
	})
	if err != nil {
		return Status{}, err
	}
	record, err := value.ExpectMapping()
	if err != nil {
		return Status{}, err
	}
	if _, ok := record["houdiniId"]; !ok {
		record["houdiniId"] = houdiniID
	}
	return StatusFromRecord(record)
}

// MinMaxRequest parameterizes an amount-bounds lookup.
type MinMaxRequest struct {
	FromToken string
	ToToken   string
	Anonymous bool
	CEXOnly   *bool
}

// MinMax fetches the accepted amount bounds for a token pair.
func (c *Client) MinMax(ctx context.Context, req MinMaxRequest) (MinMax, error) {
	from, err := sanitizeInput("from token", req.FromToken)
	if err != nil {
		return MinMax{}, err
	}
	to, err := sanitizeInput("to token", req.ToToken)
	if err != nil {
		return MinMax{}, err
	}

	query := queryValues(
		"from", from,
		"to", to,
		"anonymous", strconv.FormatBool(req.Anonymous),
	)
	if req.CEXOnly != nil {
		query.Set("cexOnly", strconv.FormatBool(*req.CEXOnly))
	}

	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodGet,
		path:   endpointMinMax,
		query:  query,
	})
	if err != nil {
		return MinMax{}, err
	}
	list, err := value.ExpectList()
	if err != nil {
		return MinMax{}, err
	}
	return MinMaxFromList(list)
}

// Volume fetches the aggregate traded volume. The endpoint historically
// returned either a mapping or a single-element list wrapping one.
func (c *Client) Volume(ctx context.Context) (Volume, error) {
	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodGet,
		path:   endpointVolume,
	})
	if err != nil {
		return Volume{}, err
	}

	record := value.Mapping
	if value.Kind == ValueList {
		if len(value.List) == 0 {
			return Volume{}, newValidationError("volume response list is empty")
		}
		record, _ = value.List[0].(map[string]any)
	}
	if record == nil {
		return Volume{}, &Error{
			Kind:    KindAPI,
			Message: fmt.Sprintf("unexpected response shape: expected mapping or list, got %s", value.Kind),
			Body:    value.raw(),
		}
	}
	return VolumeFromRecord(record)
}

// WeeklyVolume fetches per-week volume figures. A bare mapping is treated
// as a single-week listing.
func (c *Client) WeeklyVolume(ctx context.Context) ([]WeeklyVolume, error) {
	value, err := c.execute(ctx, requestDescriptor{
		method: http.MethodGet,
		path:   endpointWeeklyVolume,
	})
	if err != nil {
		return nil, err
	}
	if value.Kind == ValueMapping {
		week, err := WeeklyVolumeFromRecord(value.Mapping)
		if err != nil {
			return nil, err
		}
		return []WeeklyVolume{week}, nil
	}
	list, err := value.ExpectList()
	if err != nil {
		return nil, err
	}
	weeks := make([]WeeklyVolume, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError("weekly volume response contains a non-mapping element")
		}
		week, err := WeeklyVolumeFromRecord(record)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

func setOptional(body map[string]any, key, value string) {
	if value != "" {
		body[key] = value
	}
}

// validateAmount checks a positive numeric amount and returns its trimmed
// string form for query parameters.
func validateAmount(amount string) (string, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return "", newValidationError("amount cannot be empty")
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", newValidationError("amount must be numeric, got %q", amount)
	}
	if f <= 0 {
		return "", newValidationError("amount must be greater than 0, got %v", f)
	}
	return trimmed, nil
}

// validateAmountValue is validateAmount for JSON bodies, where the API
// expects a number rather than a string.
func validateAmountValue(amount string) (float64, error) {
	trimmed, err := validateAmount(amount)
	if err != nil {
		return 0, err
	}
	f, _ := strconv.ParseFloat(trimmed, 64)
	return f, nil
}

func validateTokenID(id, name string) error {
	if _, err := sanitizeInput(name, id); err != nil {
		return err
	}
	return nil
}

// validateHoudiniID enforces the transaction ID format: alphanumeric plus
// hyphen and underscore, 10 to 50 characters.
func validateHoudiniID(id string) error {
	if len(id) < 10 || len(id) > 50 {
		return newValidationError("houdini id must be 10-50 characters, got %d", len(id))
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return newValidationError("houdini id contains invalid character %q", r)
		}
	}
	return nil
}

// validateHex checks a transaction hash: optional 0x prefix, hex digits.
func validateHex(value string) error {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	if trimmed == "" {
		return newValidationError("transaction hash cannot be empty")
	}
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return newValidationError("transaction hash contains non-hex character %q", r)
		}
	}
	return nil
}
