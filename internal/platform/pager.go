package platform

import (
	"context"
	"fmt"

	"github.com/mtomcal/videotitan-server/internal/shared"
)

// Page is one bounded slice of a cursor-paginated upstream listing.
//
// NextToken is the opaque continuation cursor; empty means the listing is exhausted.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// PageFunc issues a single page request for the given continuation token.
// The first request of a traversal is made with an empty token.
type PageFunc[T any] func(ctx context.Context, token string) (Page[T], error)

// FetchAll drains a paginated listing into one slice, preserving upstream order
// across pages. No deduplication is performed.
//
// Any page failure fails the whole traversal; partial results are never returned.
// A continuation token repeated verbatim by the upstream is treated as a protocol
// violation and fails with shared.ErrProtocol instead of looping forever.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T

	token := ""
	for {
		page, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)

		if page.NextToken == "" {
			return all, nil
		}
		if page.NextToken == token {
			return nil, fmt.Errorf("%w: continuation token %q repeated", shared.ErrProtocol, token)
		}
		token = page.NextToken
	}
}
