// Package search reads listings from the Elasticsearch listing index.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"housing-workers/internal/common/errors"
	"housing-workers/internal/common/logger"
	"housing-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultTimeout = 5 * time.Second

// ListingStore looks up listings by id. The document id of a listing is its numeric id.
type ListingStore struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
	logger  logger.Logger
}

func NewListingStore(client *elasticsearch.Client, index string, log logger.Logger) *ListingStore {
	return &ListingStore{
		client:  client,
		index:   index,
		timeout: defaultTimeout,
		logger:  log.WithFields(map[string]interface{}{"component": "listing-store", "index": index}),
	}
}

type getResponse struct {
	ID     string         `json:"_id"`
	Found  bool           `json:"found"`
	Source models.Listing `json:"_source"`
}

// GetListing fetches one listing document.
func (s *ListingStore) GetListing(ctx context.Context, listingID int64) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := esapi.GetRequest{
		Index:      s.index,
		DocumentID: strconv.FormatInt(listingID, 10),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", listingID, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("listing %d: %w", listingID, errors.ErrNotFound)
	}
	if res.IsError() {
		s.logger.Warn("listing lookup failed", map[string]interface{}{
			"listingId": listingID,
			"status":    res.Status(),
		})
		return nil, fmt.Errorf("get listing %d: %s", listingID, res.Status())
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode listing %d: %w", listingID, err)
	}
	if !doc.Found {
		return nil, fmt.Errorf("listing %d: %w", listingID, errors.ErrNotFound)
	}
	listing := doc.Source
	listing.ID = listingID
	return &listing, nil
}
