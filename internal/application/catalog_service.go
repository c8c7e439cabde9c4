package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/soundvault/vinylstore/internal/domain/entity"
	"github.com/soundvault/vinylstore/internal/domain/repository"
)

// CatalogService fronts the vinyl repository for the storefront and the
// admin surface, and keeps the Elasticsearch index in step with writes.
// ES is optional; with a nil client every search returns empty.
type CatalogService struct {
	Repo    repository.VinylRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewCatalogService(repo repository.VinylRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *CatalogService {
	return &CatalogService{Repo: repo, Logger: logger, ES: es, ESIndex: esIndex}
}

func (s *CatalogService) List(ctx context.Context) ([]entity.Vinyl, error) {
	return s.Repo.List(ctx)
}

// ListAvailable returns only published records, for the storefront.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]entity.Vinyl, error) {
	return s.Repo.ListAvailable(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*entity.Vinyl, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, v *entity.Vinyl) error {
	if err := s.Repo.Create(ctx, v); err != nil {
		return err
	}
	_ = s.indexVinyl(ctx, v)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, v *entity.Vinyl) error {
	if err := s.Repo.Update(ctx, v); err != nil {
		return err
	}
	_ = s.indexVinyl(ctx, v)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// SetAvailability flips the published switch. Availability is independent
// of stock and only ever changed through this admin operation.
func (s *CatalogService) SetAvailability(ctx context.Context, id int64, available bool) error {
	return s.Repo.SetAvailability(ctx, id, available)
}

func (s *CatalogService) UpdateStock(ctx context.Context, id int64, newStock int) error {
	return s.Repo.UpdateStock(ctx, id, newStock)
}

func (s *CatalogService) indexVinyl(ctx context.Context, v *entity.Vinyl) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           v.ID,
		"title":        v.Title,
		"artist":       v.Artist,
		"price":        v.Price,
		"stock":        v.Stock,
		"is_available": v.IsAvailable,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(v.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("vinyl_id", v.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("vinyl_id", v.ID).Warn("es index response error")
	}
	return nil
}

// Search runs a multi_match query over title and artist.
func (s *CatalogService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "artist"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
