package houdiniswap

import "context"

// exchangeType selects which exchange endpoint a builder targets.
type exchangeType int

const (
	exchangeUnset exchangeType = iota
	exchangeCEX
	exchangeDEX
)

// ExchangeBuilder assembles an exchange request fluently. Required fields
// are checked at Execute time so callers get one validation error instead
// of a partial request on the wire.
type ExchangeBuilder struct {
	client *Client

	kind        exchangeType
	amount      string
	fromToken   string
	toToken     string
	addressTo   string
	addressFrom string
	anonymous   bool
	receiverTag string
	walletID    string
	ip          string
	userAgent   string
	timezone    string
	useXMR      *bool

	// DEX-specific.
	swap    string
	quoteID string
	route   Route
}

// ExchangeBuilder starts a new builder bound to this client.
func (c *Client) ExchangeBuilder() *ExchangeBuilder {
	return &ExchangeBuilder{client: c}
}

// CEX targets the centralized exchange endpoint. FromToken and ToToken are
// then token symbols.
func (b *ExchangeBuilder) CEX() *ExchangeBuilder {
	b.kind = exchangeCEX
	return b
}

// DEX targets the DEX exchange endpoint. FromToken and ToToken are then
// token IDs.
func (b *ExchangeBuilder) DEX() *ExchangeBuilder {
	b.kind = exchangeDEX
	return b
}

// Amount sets the exchange amount.
func (b *ExchangeBuilder) Amount(amount string) *ExchangeBuilder {
	b.amount = amount
	return b
}

// FromToken sets the source token: a symbol for CEX, an ID for DEX.
func (b *ExchangeBuilder) FromToken(token string) *ExchangeBuilder {
	b.fromToken = token
	return b
}

// ToToken sets the destination token: a symbol for CEX, an ID for DEX.
func (b *ExchangeBuilder) ToToken(token string) *ExchangeBuilder {
	b.toToken = token
	return b
}

// AddressTo sets the destination address.
func (b *ExchangeBuilder) AddressTo(address string) *ExchangeBuilder {
	b.addressTo = address
	return b
}

// AddressFrom sets the source address (DEX only).
func (b *ExchangeBuilder) AddressFrom(address string) *ExchangeBuilder {
	b.addressFrom = address
	return b
}

// Anonymous marks the exchange anonymous.
func (b *ExchangeBuilder) Anonymous(anonymous bool) *ExchangeBuilder {
	b.anonymous = anonymous
	return b
}

// ReceiverTag sets the receiver tag, required by some networks.
func (b *ExchangeBuilder) ReceiverTag(tag string) *ExchangeBuilder {
	b.receiverTag = tag
	return b
}

// WalletID sets the caller's wallet identifier.
func (b *ExchangeBuilder) WalletID(walletID string) *ExchangeBuilder {
	b.walletID = walletID
	return b
}

// IP sets the end-user IP address for fraud prevention.
func (b *ExchangeBuilder) IP(ip string) *ExchangeBuilder {
	b.ip = ip
	return b
}

// UserAgent sets the end-user browser user agent.
func (b *ExchangeBuilder) UserAgent(userAgent string) *ExchangeBuilder {
	b.userAgent = userAgent
	return b
}

// Timezone sets the end-user timezone.
func (b *ExchangeBuilder) Timezone(timezone string) *ExchangeBuilder {
	b.timezone = timezone
	return b
}

// UseXMR routes anonymity through XMR.
func (b *ExchangeBuilder) UseXMR(useXMR bool) *ExchangeBuilder {
	b.useXMR = &useXMR
	return b
}

// Swap sets the swap identifier from the chosen quote (DEX only).
func (b *ExchangeBuilder) Swap(swap string) *ExchangeBuilder {
	b.swap = swap
	return b
}

// QuoteID sets the quote identifier (DEX only).
func (b *ExchangeBuilder) QuoteID(quoteID string) *ExchangeBuilder {
	b.quoteID = quoteID
	return b
}

// WithRoute sets the opaque routing payload from the quote (DEX only).
func (b *ExchangeBuilder) WithRoute(route Route) *ExchangeBuilder {
	b.route = route
	return b
}

// Execute validates the assembled request and creates the exchange.
func (b *ExchangeBuilder) Execute(ctx context.Context) (Exchange, error) {
	switch b.kind {
	case exchangeCEX:
		if err := b.validateCEX(); err != nil {
			return Exchange{}, err
		}
		return b.client.CEXExchange(ctx, CEXExchangeRequest{
			Amount:      b.amount,
			FromToken:   b.fromToken,
			ToToken:     b.toToken,
			AddressTo:   b.addressTo,
			Anonymous:   b.anonymous,
			ReceiverTag: b.receiverTag,
			WalletID:    b.walletID,
			IP:          b.ip,
			UserAgent:   b.userAgent,
			Timezone:    b.timezone,
			UseXMR:      b.useXMR,
		})
	case exchangeDEX:
		if err := b.validateDEX(); err != nil {
			return Exchange{}, err
		}
		return b.client.DEXExchange(ctx, DEXExchangeRequest{
			Amount:      b.amount,
			TokenIDFrom: b.fromToken,
			TokenIDTo:   b.toToken,
			AddressFrom: b.addressFrom,
			AddressTo:   b.addressTo,
			Swap:        b.swap,
			QuoteID:     b.quoteID,
			Route:       b.route,
		})
	default:
		return Exchange{}, newValidationError("exchange type must be set, use CEX() or DEX()")
	}
}

func (b *ExchangeBuilder) validateCEX() error {
	switch {
	case b.amount == "":
		return newValidationError("amount is required")
	case b.fromToken == "":
		return newValidationError("from token is required")
	case b.toToken == "":
		return newValidationError("to token is required")
	case b.addressTo == "":
		return newValidationError("destination address is required")
	}
	return nil
}

func (b *ExchangeBuilder) validateDEX() error {
	switch {
	case b.amount == "":
		return newValidationError("amount is required")
	case b.fromToken == "":
		return newValidationError("token id from is required")
	case b.toToken == "":
		return newValidationError("token id to is required")
	case b.addressFrom == "":
		return newValidationError("source address is required")
	case b.addressTo == "":
		return newValidationError("destination address is required")
	case b.swap == "":
		return newValidationError("swap is required")
	case b.quoteID == "":
		return newValidationError("quote id is required")
	case b.route == nil:
		return newValidationError("route is required")
	}
	return nil
}
