// Package es owns the Elasticsearch client and the product index
// maintenance. Like the event producer, the indexer is optional: nil means
// search is disabled and index writes are no-ops.
package es

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/shopedge/backend/internal/models"
	"github.com/shopedge/backend/pkg/logging"
)

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

type Indexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	if client == nil {
		return nil
	}
	return &Indexer{ES: client, Index: index}
}

type productDoc struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  uint   `json:"category_id"`
}

func (i *Indexer) IndexProduct(ctx context.Context, p *models.Product) {
	if i == nil {
		return
	}

	doc := productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		CategoryID:  p.CategoryID,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return
	}

	res, err := i.ES.Index(
		i.Index,
		strings.NewReader(string(body)),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(fmt.Sprint(p.ID)),
	)
	if err != nil {
		logging.FromContext(ctx).Error("product index failed", "product_id", p.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		logging.FromContext(ctx).Error("product index rejected", "product_id", p.ID, "status", res.Status())
	}
}

func (i *Indexer) DeleteProduct(ctx context.Context, id uint) {
	if i == nil {
		return
	}

	res, err := i.ES.Delete(
		i.Index,
		fmt.Sprint(id),
		i.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		logging.FromContext(ctx).Error("product unindex failed", "product_id", id, "error", err)
		return
	}
	res.Body.Close()
}
