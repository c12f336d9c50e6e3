package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"

	catalogEntity "souq.GO/model/entity/catalog"
	catalogRepository "souq.GO/model/repository/catalog"
	"souq.GO/service/translate"
)

const defaultLimit = 20

var (
	serviceInstance *Service
	serviceOnce     sync.Once
)

// GetService returns the singleton search service. The Elasticsearch
// client comes from ELASTICSEARCH_HOST; without it every query takes
// the database fallback path.
func GetService() *Service {
	serviceOnce.Do(func() {
		serviceInstance = NewService()
	})
	return serviceInstance
}

// Service answers catalog keyword queries. Queries are dialect
// normalized and synonym expanded before matching, so "هودي" finds
// products stored as "هوديس". Elasticsearch is preferred when
// configured; the GORM LIKE fallback covers the rest.
type Service struct {
	client *elasticsearch.Client
	index  string
}

func NewService() *Service {
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "souq_catalog_products"
	}

	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		return &Service{index: index}
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{host},
	})
	if err != nil {
		log.Printf("search: elasticsearch client: %v", err)
		return &Service{index: index}
	}
	return &Service{client: client, index: index}
}

// termGroups splits a query into words and expands each into its
// dialect-normalized synonym group.
func termGroups(query string) [][]string {
	var groups [][]string
	for _, word := range strings.Fields(query) {
		group := translate.ExpandSynonyms(word)
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

// Search runs a keyword query and returns matching published products.
func (s *Service) Search(ctx context.Context, db *gorm.DB, query string, limit int) ([]catalogEntity.Product, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	groups := termGroups(query)
	if len(groups) == 0 {
		return nil, nil
	}

	repo := catalogRepository.NewCatalogRepository(db)
	if s.client != nil {
		products, err := s.searchElastic(ctx, repo, groups, limit)
		if err == nil {
			return products, nil
		}
		log.Printf("search: elasticsearch query failed, using database: %v", err)
	}
	return repo.SearchByName(groups, limit)
}

// searchElastic builds a bool query: one should-clause set per term
// group, all groups required.
func (s *Service) searchElastic(ctx context.Context, repo *catalogRepository.CatalogRepository, groups [][]string, limit int) ([]catalogEntity.Product, error) {
	must := make([]map[string]interface{}, 0, len(groups))
	for _, group := range groups {
		should := make([]map[string]interface{}, 0, len(group))
		for _, term := range group {
			should = append(should, map[string]interface{}{
				"match": map[string]interface{}{"name_normalized": term},
			})
		}
		must = append(must, map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               should,
				"minimum_should_match": 1,
			},
		})
	}
	body := map[string]interface{}{
		"size":    limit,
		"query":   map[string]interface{}{"bool": map[string]interface{}{"must": must}},
		"_source": []string{"id"},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID uint `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		if hit.Source.ID != 0 {
			ids = append(ids, hit.Source.ID)
		}
	}
	return repo.FindByIDs(ids)
}

// IndexProduct pushes one product document, best effort: indexing a
// product never fails its import.
func (s *Service) IndexProduct(ctx context.Context, p *catalogEntity.Product) {
	if s.client == nil || p == nil {
		return
	}
	doc := map[string]interface{}{
		"id":              p.ID,
		"name":            p.Name,
		"name_normalized": translate.NormalizeDialect(p.Name),
		"price":           p.Price,
		"status":          p.Status,
	}
	body, _ := json.Marshal(doc)
	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(fmt.Sprintf("%d", p.ID)),
	)
	if err != nil {
		log.Printf("search: index product %d: %v", p.ID, err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Printf("search: index product %d: %s", p.ID, res.String())
	}
}
