package houdiniswap

import "fmt"

// TxStatus is the lifecycle state of an exchange transaction.
type TxStatus int

const (
	TxStatusNew         TxStatus = -1
	TxStatusWaiting     TxStatus = 0
	TxStatusConfirming  TxStatus = 1
	TxStatusExchanging  TxStatus = 2
	TxStatusAnonymizing TxStatus = 3
	TxStatusFinished    TxStatus = 4
	TxStatusExpired     TxStatus = 5
	TxStatusFailed      TxStatus = 6
	TxStatusRefunded    TxStatus = 7
	TxStatusDeleted     TxStatus = 8
)

func (s TxStatus) String() string {
	switch s {
	case TxStatusNew:
		return "NEW"
	case TxStatusWaiting:
		return "WAITING"
	case TxStatusConfirming:
		return "CONFIRMING"
	case TxStatusExchanging:
		return "EXCHANGING"
	case TxStatusAnonymizing:
		return "ANONYMIZING"
	case TxStatusFinished:
		return "FINISHED"
	case TxStatusExpired:
		return "EXPIRED"
	case TxStatusFailed:
		return "FAILED"
	case TxStatusRefunded:
		return "REFUNDED"
	case TxStatusDeleted:
		return "DELETED"
	default:
		return fmt.Sprintf("TxStatus(%d)", int(s))
	}
}

// Terminal reports whether the status is a final state the API will never
// leave.
func (s TxStatus) Terminal() bool {
	switch s {
	case TxStatusFinished, TxStatusExpired, TxStatusFailed, TxStatusRefunded:
		return true
	default:
		return false
	}
}

// Network describes a blockchain a token lives on.
type Network struct {
	Name              string
	ShortName         string
	AddressValidation string
	MemoNeeded        bool
	ExplorerURL       string
	AddressURL        string
	Priority          int
	Kind              string
	ChainID           int
	Icon              string
}

func networkFromRecord(m map[string]any) Network {
	return Network{
		Name:              recString(m, "name"),
		ShortName:         recString(m, "shortName"),
		AddressValidation: recString(m, "addressValidation"),
		MemoNeeded:        recBool(m, "memoNeeded"),
		ExplorerURL:       recString(m, "explorerUrl"),
		AddressURL:        recString(m, "addressUrl"),
		Priority:          recInt(m, "priority"),
		Kind:              recString(m, "kind"),
		ChainID:           recInt(m, "chainId"),
		Icon:              recString(m, "icon"),
	}
}

// Token is a CEX-swappable token.
type Token struct {
	ID              string
	Name            string
	Symbol          string
	Network         Network
	DisplayName     string
	Icon            string
	Keyword         string
	Color           string
	Chain           int
	Address         string
	HasMarkup       bool
	NetworkPriority int
	HasFixed        bool
	HasFixedReverse bool
}

// TokenFromRecord builds a Token from an untrusted API record.
func TokenFromRecord(m map[string]any) (Token, error) {
	if err := ValidateRecord(m, "id", "name", "symbol"); err != nil {
		return Token{}, err
	}
	return Token{
		ID:              recString(m, "id"),
		Name:            recString(m, "name"),
		Symbol:          recString(m, "symbol"),
		Network:         networkFromRecord(recMapping(m, "network")),
		DisplayName:     recString(m, "displayName"),
		Icon:            recString(m, "icon"),
		Keyword:         recString(m, "keyword"),
		Color:           recString(m, "color"),
		Chain:           recInt(m, "chain"),
		Address:         recString(m, "address"),
		HasMarkup:       recBool(m, "hasMarkup"),
		NetworkPriority: recInt(m, "networkPriority"),
		HasFixed:        recBool(m, "hasFixed"),
		HasFixedReverse: recBool(m, "hasFixedReverse"),
	}, nil
}

// DEXToken is a token tradable through the DEX aggregation endpoints.
type DEXToken struct {
	ID       string
	Address  string
	Chain    string
	Decimals int
	Symbol   string
	Name     string
	Created  string
	Modified string
	Enabled  bool
	HasDex   bool
}

// DEXTokenFromRecord builds a DEXToken from an untrusted API record.
func DEXTokenFromRecord(m map[string]any) (DEXToken, error) {
	if err := ValidateRecord(m, "id", "symbol"); err != nil {
		return DEXToken{}, err
	}
	return DEXToken{
		ID:       recString(m, "id"),
		Address:  recString(m, "address"),
		Chain:    recString(m, "chain"),
		Decimals: recInt(m, "decimals"),
		Symbol:   recString(m, "symbol"),
		Name:     recString(m, "name"),
		Created:  recString(m, "created"),
		Modified: recString(m, "modified"),
		Enabled:  recBool(m, "enabled"),
		HasDex:   recBool(m, "hasDex"),
	}, nil
}

// DEXTokensPage is one page of the paginated DEX token listing. Count is
// the total matching tokens across all pages, not the page length.
type DEXTokensPage struct {
	Count  int
	Tokens []DEXToken
}

// Quote is a CEX exchange quote.
type Quote struct {
	AmountIn   float64
	AmountOut  float64
	Min        float64
	Max        float64
	UseXMR     bool
	Duration   int
	DeviceInfo string
	IsMobile   bool
	ClientID   string
}

// QuoteFromRecord builds a Quote from an untrusted API record.
func QuoteFromRecord(m map[string]any) (Quote, error) {
	if err := ValidateRecord(m, "amountIn", "amountOut"); err != nil {
		return Quote{}, err
	}
	return Quote{
		AmountIn:   recFloat(m, "amountIn"),
		AmountOut:  recFloat(m, "amountOut"),
		Min:        recFloat(m, "min"),
		Max:        recFloat(m, "max"),
		UseXMR:     recBool(m, "useXmr"),
		Duration:   recInt(m, "duration"),
		DeviceInfo: recString(m, "deviceInfo"),
		IsMobile:   recBool(m, "isMobile"),
		ClientID:   recString(m, "clientId"),
	}, nil
}

// Route is an opaque DEX routing description, passed back verbatim when
// confirming a quote.
type Route map[string]any

// DEXQuote is one candidate route returned by the DEX quote endpoint.
type DEXQuote struct {
	Swap         string
	QuoteID      string
	AmountOut    float64
	AmountOutUSD float64
	Duration     int
	Gas          int
	FeeUSD       float64
	Path         []string
	Raw          Route
}

// DEXQuoteFromRecord builds a DEXQuote from an untrusted API record.
func DEXQuoteFromRecord(m map[string]any) (DEXQuote, error) {
	if err := ValidateRecord(m, "quoteId", "swap", "amountOut"); err != nil {
		return DEXQuote{}, err
	}
	return DEXQuote{
		Swap:         recString(m, "swap"),
		QuoteID:      recString(m, "quoteId"),
		AmountOut:    recFloat(m, "amountOut"),
		AmountOutUSD: recFloat(m, "amountOutUsd"),
		Duration:     recInt(m, "duration"),
		Gas:          recInt(m, "gas"),
		FeeUSD:       recFloat(m, "feeUsd"),
		Path:         recStrings(m, "path"),
		Raw:          Route(recMapping(m, "raw")),
	}, nil
}

// Exchange is a created exchange transaction.
type Exchange struct {
	HoudiniID       string
	Created         string
	SenderAddress   string
	ReceiverAddress string
	Anonymous       bool
	Expires         string
	Status          TxStatus
	InAmount        float64
	InSymbol        string
	OutAmount       float64
	OutSymbol       string
	SenderTag       string
	ReceiverTag     string
	Notified        bool
	ETA             int
	InAmountUSD     float64
	InCreated       string
	Quote           map[string]any
	OutToken        map[string]any
	InToken         map[string]any
	Metadata        map[string]any
	IsDEX           bool
}

// ExchangeFromRecord builds an Exchange from an untrusted API record.
func ExchangeFromRecord(m map[string]any) (Exchange, error) {
	if err := ValidateRecord(m, "houdiniId", "status"); err != nil {
		return Exchange{}, err
	}
	return Exchange{
		HoudiniID:       recString(m, "houdiniId"),
		Created:         recString(m, "created"),
		SenderAddress:   recString(m, "senderAddress"),
		ReceiverAddress: recString(m, "receiverAddress"),
		Anonymous:       recBool(m, "anonymous"),
		Expires:         recString(m, "expires"),
		Status:          TxStatus(recInt(m, "status")),
		InAmount:        recFloat(m, "inAmount"),
		InSymbol:        recString(m, "inSymbol"),
		OutAmount:       recFloat(m, "outAmount"),
		OutSymbol:       recString(m, "outSymbol"),
		SenderTag:       recString(m, "senderTag"),
		ReceiverTag:     recString(m, "receiverTag"),
		Notified:        recBool(m, "notified"),
		ETA:             recInt(m, "eta"),
		InAmountUSD:     recFloat(m, "inAmountUsd"),
		InCreated:       recString(m, "inCreated"),
		Quote:           recMapping(m, "quote"),
		OutToken:        recMapping(m, "outToken"),
		InToken:         recMapping(m, "inToken"),
		Metadata:        recMapping(m, "metadata"),
		IsDEX:           recBool(m, "isDex"),
	}, nil
}

// DEXApproval is a prepared on-chain approval transaction.
type DEXApproval struct {
	Data      string
	To        string
	From      string
	FromChain map[string]any
}

// DEXApprovalFromRecord builds a DEXApproval from an untrusted API record.
func DEXApprovalFromRecord(m map[string]any) (DEXApproval, error) {
	if err := ValidateRecord(m, "data", "to"); err != nil {
		return DEXApproval{}, err
	}
	return DEXApproval{
		Data:      recString(m, "data"),
		To:        recString(m, "to"),
		From:      recString(m, "from"),
		FromChain: recMapping(m, "fromChain"),
	}, nil
}

// Status is a point-in-time snapshot of a transaction's state.
type Status struct {
	HoudiniID       string
	Status          TxStatus
	Created         string
	SenderAddress   string
	ReceiverAddress string
	Anonymous       bool
	Expires         string
	InAmount        float64
	InSymbol        string
	OutAmount       float64
	OutSymbol       string
	ETA             int
}

// StatusFromRecord builds a Status from an untrusted API record.
func StatusFromRecord(m map[string]any) (Status, error) {
	if err := ValidateRecord(m, "status"); err != nil {
		return Status{}, err
	}
	return Status{
		HoudiniID:       recString(m, "houdiniId"),
		Status:          TxStatus(recInt(m, "status")),
		Created:         recString(m, "created"),
		SenderAddress:   recString(m, "senderAddress"),
		ReceiverAddress: recString(m, "receiverAddress"),
		Anonymous:       recBool(m, "anonymous"),
		Expires:         recString(m, "expires"),
		InAmount:        recFloat(m, "inAmount"),
		InSymbol:        recString(m, "inSymbol"),
		OutAmount:       recFloat(m, "outAmount"),
		OutSymbol:       recString(m, "outSymbol"),
		ETA:             recInt(m, "eta"),
	}, nil
}

// MinMax bounds the amount accepted for an exchange pair.
type MinMax struct {
	Min float64
	Max float64
}

// MinMaxFromList builds a MinMax from the two-element array the API sends.
func MinMaxFromList(list []any) (MinMax, error) {
	if len(list) < 2 {
		return MinMax{}, newValidationError("minMax response requires at least 2 elements, got %d", len(list))
	}
	min, okMin := asFloat(list[0])
	max, okMax := asFloat(list[1])
	if !okMin || !okMax {
		return MinMax{}, newValidationError("minMax response elements must be numeric")
	}
	return MinMax{Min: min, Max: max}, nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

// Volume is the aggregate traded volume.
type Volume struct {
	Count              int
	TotalTransactedUSD float64
}

// VolumeFromRecord builds a Volume from an untrusted API record.
func VolumeFromRecord(m map[string]any) (Volume, error) {
	if err := ValidateRecord(m, "count", "totalTransactedUSD"); err != nil {
		return Volume{}, err
	}
	return Volume{
		Count:              recInt(m, "count"),
		TotalTransactedUSD: recFloat(m, "totalTransactedUSD"),
	}, nil
}

// WeeklyVolume is one week's traded volume.
type WeeklyVolume struct {
	Count      int
	Anonymous  int
	Volume     float64
	Week       int
	Year       int
	Commission float64
}

// WeeklyVolumeFromRecord builds a WeeklyVolume from an untrusted API record.
func WeeklyVolumeFromRecord(m map[string]any) (WeeklyVolume, error) {
	if err := ValidateRecord(m, "week", "year"); err != nil {
		return WeeklyVolume{}, err
	}
	return WeeklyVolume{
		Count:      recInt(m, "count"),
		Anonymous:  recInt(m, "anonymous"),
		Volume:     recFloat(m, "volume"),
		Week:       recInt(m, "week"),
		Year:       recInt(m, "year"),
		Commission: recFloat(m, "commission"),
	}, nil
}
