package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	matchingerrors "fixhub/internal/matching/errors"
	"fixhub/internal/matching/repository"
	"fixhub/pkg/config"
	apperrors "fixhub/pkg/errors"
	"fixhub/pkg/model"
	"fixhub/pkg/sanitizer"
)

type MatchingService interface {
	PartnersForService(ctx context.Context, serviceID string, filters model.MatchFilters, sortBy string) ([]*model.MatchedPartner, error)
}

type matchingService struct {
	directory repository.DirectoryRepository
	cfg       *config.Config
}

func NewMatchingService(directory repository.DirectoryRepository, cfg *config.Config) MatchingService {
	return &matchingService{
		directory: directory,
		cfg:       cfg,
	}
}

// PartnersForService returns the eligible partners for a service, most
// suitable first. An empty result is a valid outcome and distinct from an
// unknown service, which is an error.
func (s *matchingService) PartnersForService(ctx context.Context, serviceID string, filters model.MatchFilters, sortBy string) ([]*model.MatchedPartner, error) {
	if serviceID == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	sortBy, err := s.resolveSort(sortBy)
	if err != nil {
		return nil, err
	}

	service, err := s.directory.GetServiceByID(ctx, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, matchingerrors.ErrServiceNotFound):
			return nil, apperrors.NotFoundWithID("Service", serviceID)
		case errors.Is(err, matchingerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid service ID format")
		default:
			return nil, apperrors.Unavailable("directory", err)
		}
	}

	partners, err := s.directory.GetPartnersByRole(ctx, model.RolePartner)
	if err != nil {
		return nil, apperrors.Unavailable("directory", err)
	}

	candidates := s.applyFilters(partners, filters)
	enriched := s.enrich(ctx, candidates)

	matched := make([]*model.MatchedPartner, 0, len(enriched))
	for _, partner := range enriched {
		if s.isEligible(partner.Skills, service.Category, service.Name) {
			matched = append(matched, partner)
		}
	}

	s.sortPartners(matched, sortBy)

	s.cfg.Log.Info("Partner matching completed",
		"service_id", serviceID,
		"service_name", service.Name,
		"category", service.Category,
		"candidates", len(candidates),
		"matched", len(matched),
		"sort_by", sortBy,
	)

	return matched, nil
}

func (s *matchingService) resolveSort(sortBy string) (string, error) {
	if sortBy == "" {
		return s.cfg.DefaultMatchSort, nil
	}
	switch sortBy {
	case model.SortByRating, model.SortByPrice, model.SortByJobs:
		return sortBy, nil
	default:
		return "", apperrors.InvalidInput("sort_by must be one of: rating, price, jobs")
	}
}

// applyFilters keeps active partners (absent status counts as active) and
// applies the optional availability and rating thresholds.
func (s *matchingService) applyFilters(partners []*model.Partner, filters model.MatchFilters) []*model.Partner {
	result := make([]*model.Partner, 0, len(partners))
	for _, p := range partners {
		status := p.Status
		if status == "" {
			status = model.PartnerActive
		}
		if status != model.PartnerActive {
			continue
		}
		if filters.OnlyOnline && p.Availability != model.AvailabilityOnline {
			continue
		}
		if filters.MinRating != nil && p.Rating < *filters.MinRating {
			continue
		}
		result = append(result, p)
	}
	return result
}

// enrich joins each candidate with its application record using a bounded
// worker fan-out. A missing application is normal; a failed lookup degrades
// to the unenriched profile rather than failing the whole match.
func (s *matchingService) enrich(ctx context.Context, partners []*model.Partner) []*model.MatchedPartner {
	enriched := make([]*model.MatchedPartner, len(partners))

	workers := s.cfg.MatchWorkers
	if workers > len(partners) {
		workers = len(partners)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				enriched[i] = s.enrichOne(ctx, partners[i])
			}
		}()
	}

	for i := range partners {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return enriched
}

// enrichOne merges the application record into the profile with explicit
// precedence: application skills replace profile skills when present, the
// profile status always wins.
func (s *matchingService) enrichOne(ctx context.Context, partner *model.Partner) *model.MatchedPartner {
	merged := &model.MatchedPartner{Partner: *partner}

	app, err := s.directory.GetApplicationByUserID(ctx, partner.ID)
	if err != nil {
		if !errors.Is(err, matchingerrors.ErrApplicationNotFound) {
			s.cfg.Log.Warn("Application enrichment failed, using profile as-is",
				"partner_id", partner.ID,
				"error", err,
			)
		}
		return merged
	}

	merged.ApplicationStatus = app.Status
	merged.Experience = app.Experience
	if len(app.Skills) > 0 {
		merged.Skills = app.Skills
	}

	return merged
}

// isEligible implements the deliberately fuzzy symmetric substring policy:
// a skill tag matches when it contains, or is contained by, the service
// category or name, case-insensitively. Over-matching in favor of recall
// is intended here.
func (s *matchingService) isEligible(skills []string, category, name string) bool {
	if len(skills) == 0 {
		return false
	}

	category = strings.ToLower(category)
	name = strings.ToLower(name)

	for _, skill := range skills {
		tag := sanitizer.NormalizeSkillTag(skill)
		if tag == "" {
			continue
		}
		if strings.Contains(tag, category) || strings.Contains(category, tag) ||
			strings.Contains(tag, name) || strings.Contains(name, tag) {
			return true
		}
	}
	return false
}

// sortPartners orders the matched set. Sorts are stable so ties keep the
// directory's original retrieval order.
func (s *matchingService) sortPartners(partners []*model.MatchedPartner, sortBy string) {
	switch sortBy {
	case model.SortByPrice:
		sort.SliceStable(partners, func(i, j int) bool {
			return partners[i].PriceMultiplier < partners[j].PriceMultiplier
		})
	case model.SortByJobs:
		sort.SliceStable(partners, func(i, j int) bool {
			return partners[i].CompletedJobs > partners[j].CompletedJobs
		})
	default:
		sort.SliceStable(partners, func(i, j int) bool {
			return partners[i].Rating > partners[j].Rating
		})
	}
}
