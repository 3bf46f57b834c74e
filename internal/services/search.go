package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

const productIndex = "products"

// SearchService keeps the product search index in sync and answers keyword
// queries. With no Elasticsearch client it degrades to the SQL LIKE filter
// in ProductModel.List.
type SearchService struct {
	es       *elasticsearch.Client
	products *models.ProductModel
}

func NewSearchService(es *elasticsearch.Client, products *models.ProductModel) *SearchService {
	return &SearchService{es: es, products: products}
}

type productDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  string `json:"category_id"`
	Status      string `json:"status"`
}

// Index upserts the product document. Indexing failures only log; the
// catalog write has already committed and search lag is acceptable.
func (s *SearchService) Index(ctx context.Context, p *models.Product) {
	if s.es == nil {
		return
	}
	doc := productDoc{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		Status:      string(p.Status),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		zap.S().Warnw("marshal product doc", "product_id", p.ID, "error", err)
		return
	}
	req := esapi.IndexRequest{
		Index:      productIndex,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
	}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		zap.S().Warnw("index product", "product_id", p.ID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		zap.S().Warnw("index product rejected", "product_id", p.ID, "status", res.Status())
	}
}

func (s *SearchService) Remove(ctx context.Context, productID string) {
	if s.es == nil {
		return
	}
	req := esapi.DeleteRequest{Index: productIndex, DocumentID: productID}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		zap.S().Warnw("remove product from index", "product_id", productID, "error", err)
		return
	}
	res.Body.Close()
}

// Search resolves matching ids in Elasticsearch, then loads the rows from
// MySQL so responses always reflect current price and stock.
func (s *SearchService) Search(ctx context.Context, keyword string, page, perPage int) ([]models.Product, int64, error) {
	if s.es == nil {
		return s.products.List(models.ProductFilter{Keyword: keyword, Status: models.ProductStatusActive}, page, perPage)
	}

	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	var buf bytes.Buffer
	query := map[string]any{
		"from": (page - 1) * perPage,
		"size": perPage,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  keyword,
						"fields": []string{"name^2", "description", "sku"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": string(models.ProductStatusActive)},
				},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, 0, err
	}

	req := esapi.SearchRequest{Index: []string{productIndex}, Body: &buf}
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		// Index may not exist yet; behave like an empty result.
		return nil, 0, nil
	}

	var body struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, 0, err
	}
	if len(body.Hits.Hits) == 0 {
		return nil, 0, nil
	}

	// Preserve relevance order from ES.
	ordered := make([]models.Product, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		p, err := s.products.FindByID(hit.ID)
		if err != nil {
			continue // deleted since last index refresh
		}
		ordered = append(ordered, *p)
	}
	return ordered, body.Hits.Total.Value, nil
}
