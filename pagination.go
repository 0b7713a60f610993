package houdiniswap

import "context"

// DEXTokenIterator walks the paginated DEX token listing one page at a
// time, in the style of bufio.Scanner: call Next until it returns false,
// then check Err.
type DEXTokenIterator struct {
	client   *Client
	chain    string
	pageSize int

	page    int
	count   int
	fetched int
	tokens  []DEXToken
	err     error
	done    bool
}

// IterDEXTokens returns an iterator over every DEX token, fetching pages
// lazily. pageSize defaults to DefaultPageSize when zero or negative.
func (c *Client) IterDEXTokens(chain string, pageSize int) *DEXTokenIterator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &DEXTokenIterator{
		client:   c,
		chain:    chain,
		pageSize: pageSize,
		page:     1,
	}
}

// Next fetches the next page. It returns false when the listing is
// exhausted or an error occurred; Err distinguishes the two.
func (it *DEXTokenIterator) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}

	page, err := it.client.DEXTokens(ctx, DEXTokensRequest{
		Page:     it.page,
		PageSize: it.pageSize,
		Chain:    it.chain,
	})
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if len(page.Tokens) == 0 {
		it.done = true
		return false
	}

	it.tokens = page.Tokens
	it.count = page.Count
	it.fetched += len(page.Tokens)
	it.page++

	// A short page or reaching the advertised total means this is the
	// last page; yield it but stop afterwards.
	if len(page.Tokens) < it.pageSize || (it.count > 0 && it.fetched >= it.count) {
		it.done = true
	}
	return true
}

// Tokens returns the most recently fetched page.
func (it *DEXTokenIterator) Tokens() []DEXToken {
	return it.tokens
}

// Err returns the error that stopped iteration, if any.
func (it *DEXTokenIterator) Err() error {
	return it.err
}

// Count returns the total token count advertised by the API, known after
// the first successful Next.
func (it *DEXTokenIterator) Count() int {
	return it.count
}

// AllDEXTokens fetches every DEX token across all pages into memory. For
// large listings prefer IterDEXTokens.
func (c *Client) AllDEXTokens(ctx context.Context, chain string) ([]DEXToken, error) {
	it := c.IterDEXTokens(chain, DefaultPageSize)
	var all []DEXToken
	for it.Next(ctx) {
		all = append(all, it.Tokens()...)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return all, nil
}
